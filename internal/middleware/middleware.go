package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

// GuestUserID identifies unauthenticated voters/uploaders. Community
// endpoints work without an account; votes still get one-per-user semantics
// per guest identity.
const GuestUserID = "guest"

func parseToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return "", false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}

	sub, ok := claims["user_id"].(string)
	if !ok || sub == "" {
		return "", false
	}

	return sub, true
}

// Identity attaches the caller's user id when a valid bearer token is
// present and continues either way. Handlers that tolerate anonymous
// callers read the id via UserID.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sub, ok := parseToken(c); ok {
			c.Set("user_id", sub)
		}
		c.Next()
	}
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, ok := parseToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", sub)
		c.Next()
	}
}

// UserID returns the authenticated user id, or GuestUserID when the request
// carried no identity.
func UserID(c *gin.Context) string {
	raw, exists := c.Get("user_id")
	if !exists {
		return GuestUserID
	}
	if id, ok := raw.(string); ok && id != "" {
		return id
	}
	return GuestUserID
}
