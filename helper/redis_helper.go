package helper

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func InvalidateToken(c context.Context, db *redis.Client, tokenString string) error {
	// Add the token to the blacklist with an expiration time of 24 hours
	_, err := db.Set(c, tokenString, true, 24*time.Hour).Result()
	if err != nil {
		return err
	}

	return nil
}

func IsTokenValid(c context.Context, db *redis.Client, tokenString string) bool {
	// Check if the token is in the blacklist
	_, err := db.Get(c, tokenString).Result()
	if err == redis.Nil {
		// Token is not in the blacklist, so it's valid
		return true
	}
	if err != nil {
		log.Printf("Error while checking blacklist: %s", err)
		return false
	}

	// Token is in the blacklist, so it's invalid
	return false
}
