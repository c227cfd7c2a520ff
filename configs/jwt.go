package configs

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type JWTClaim struct {
	Id        string `json:"id"`
	LoginName string `json:"login_name"`
	Email     string `json:"email"`
	IsSeller  bool   `json:"is_seller"`
	jwt.RegisteredClaims
}

func GenerateJWT(id, email, loginName string, seller bool) (string, int64, error) {
	expirationTime := time.Now().Add(15 * time.Minute)
	jwtKey := LoadEnvFor("SECRET")

	claims := JWTClaim{
		Id:        id,
		LoginName: loginName,
		Email:     email,
		IsSeller:  seller,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(jwtKey))
	if err != nil {
		return "", 0, err
	}

	return tokenString, expirationTime.Unix(), nil
}

func parseClaims(tokenString string) (*JWTClaim, error) {
	jwtKey := LoadEnvFor("SECRET")
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaim{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaim)
	if !ok || !token.Valid {
		return nil, errors.New("couldn't parse claims")
	}

	return claims, nil
}

func ValidateToken(signedToken string) error {
	_, err := parseClaims(signedToken)
	return err
}

func ExtractToken(c *gin.Context) string {
	return c.GetHeader("Authorization")
}

// ExtractTokenID resolves the authenticated user's object id from the
// Authorization header.
func ExtractTokenID(c *gin.Context) (primitive.ObjectID, error) {
	claims, err := parseClaims(ExtractToken(c))
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, err := primitive.ObjectIDFromHex(claims.Id)
	if err != nil {
		return primitive.NilObjectID, errors.New("invalid user id")
	}

	return id, nil
}

func ExtractTokenLoginNameEmail(c *gin.Context) (string, string, error) {
	claims, err := parseClaims(ExtractToken(c))
	if err != nil {
		return "", "", err
	}

	return claims.LoginName, claims.Email, nil
}
