// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication against the HS256-signed
// JWTs issued by the managed auth provider. The middleware only establishes
// identity (the "userID" context key); authorization stays in the services,
// which scope every query by owner.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Auth returns a middleware that verifies an Authorization: Bearer token and
// stores the subject claim under the "userID" context key.
//
// Behavior:
//   - Empty secret disables verification entirely; requests pass through and
//     handlers fall back to the X-User-ID header. Intended for local
//     development and tests.
//   - No Authorization header: the request proceeds unauthenticated and the
//     same fallback applies.
//   - Malformed header, bad signature, expired token, or missing subject:
//     401 with the standard error envelope.
func Auth(secret string) gin.HandlerFunc {
	keyFn := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}

	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid authorization header")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, keyFn,
			jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			unauthorized(c, "token has no subject")
			return
		}

		c.Set("userID", sub)
		c.Next()
	}
}

// UserID resolves the request identity: the "userID" context key set by Auth,
// then the X-User-ID header, then the development default. Every consumer of
// identity (handlers, idempotency lookups) must use this one resolver so the
// same request never maps to two different users.
func UserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
