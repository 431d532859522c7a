package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// AuthMiddleware admits requests with a valid access token and stores the
// caller's identity on the context.
func AuthMiddleware(tokens *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := credentials(c, "Bearer")
		if !ok {
			return
		}

		claims, err := tokens.Verify(token, KindAccess)
		switch {
		case errors.Is(err, ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			return
		case errors.Is(err, ErrInvalidTokenType):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			return
		}

		SetIdentity(c, claims.Identity())
		c.Next()
	}
}

func SetIdentity(c *gin.Context, id Identity) {
	c.Set(ctxUserID, id.ProfileID)
	c.Set(ctxUserEmail, id.Email)
	c.Set(ctxUserRole, id.Role)
}

// APIKeyMiddleware admits requests carrying "Authorization: Apikey <key>".
// An empty key rejects everything.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := credentials(c, "Apikey")
		if !ok {
			return
		}

		if key == "" || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// credentials reads "Authorization: <scheme> <token>" and aborts the request
// when it is missing or malformed. The scheme is matched case-insensitively.
func credentials(c *gin.Context, scheme string) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), scheme) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
		return "", false
	}

	return token, true
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
			return
		}

		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
