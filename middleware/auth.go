package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
)

func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := configs.ExtractToken(c)
		if tokenString == "" {
			helper.HandleError(c, 401, errors.New("request does not contain an access token"), "request does not contain an access token")
			c.Abort()
			return
		}
		if err := configs.ValidateToken(tokenString); err != nil {
			helper.HandleError(c, 401, err, err.Error())
			c.Abort()
			return
		}

		if !helper.IsTokenValid(c, configs.REDIS, tokenString) {
			helper.HandleError(c, 401, errors.New("token has been revoked, please login again"), "token has been revoked, please login again")
			c.Abort()
			return
		}

		c.Next()
	}
}
