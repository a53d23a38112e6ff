package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/config"
)

const userIDKey = "user_id"

// Auth validates an HMAC-signed bearer token and stores its user_id (or sub)
// claim on the context. With auth disabled every request runs as DevUserID.
func Auth(cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Disabled {
			c.Set(userIDKey, cfg.DevUserID)
			c.Next()
			return
		}

		if cfg.JWTSecret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "Server not configured",
				"message": "JWT secret missing",
			})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid authorization token",
			})
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid authorization format",
				"message": "Authorization header must be in format 'Bearer <token>'",
			})
			return
		}

		token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "The provided token is invalid or expired",
			})
			return
		}

		userID := subject(token)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token carries no user identity",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func subject(token *jwt.Token) string {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id
	}
	sub, _ := claims.GetSubject()
	return sub
}

// UserID returns the authenticated user set by Auth.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
