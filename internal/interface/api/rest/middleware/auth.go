package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"file-share-api/internal/infrastructure/jwt"
)

const (
	CtxUserID = "userID"
	// CookieName holds "Bearer <jwt>" for browser clients.
	CookieName = "token"
)

// AuthMiddleware rejects requests without a valid session.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing token"},
			)
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token"},
			)
			return
		}

		c.Set(CtxUserID, claims.UserID)

		c.Next()
	}
}

// OptionalAuth identifies the caller when it can and lets anonymous
// requests through otherwise.
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenStr, ok := bearerToken(c); ok {
			if claims, err := jwtService.ValidateToken(tokenStr); err == nil {
				c.Set(CtxUserID, claims.UserID)
			}
		}

		c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(CtxUserID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// bearerToken reads the Authorization header first, then the session cookie.
func bearerToken(c *gin.Context) (string, bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		tok := strings.TrimPrefix(h, "Bearer ")
		return tok, tok != h && tok != ""
	}
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		tok := strings.TrimPrefix(v, "Bearer ")
		return tok, tok != ""
	}
	return "", false
}
