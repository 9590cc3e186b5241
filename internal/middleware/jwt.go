package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"catalog_api/internal/auth"
	"catalog_api/internal/observability"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware validates the bearer token and stores the caller in the
// context under auth.UserIDKey and auth.TokenKey.
func AuthMiddleware(tokens TokenVerifier, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			metrics.AuthFailed("missing")
			unauthorized(c, "Authorization Token not found")
			return
		}

		claims, err := tokens.Verify(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				metrics.AuthFailed("expired")
				unauthorized(c, "Token is Expired")
			case errors.Is(err, auth.ErrRevokedToken):
				metrics.AuthFailed("revoked")
				unauthorized(c, "Token has been revoked")
			case errors.Is(err, auth.ErrInvalidToken):
				metrics.AuthFailed("invalid")
				unauthorized(c, "Token is Invalid")
			default:
				c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   "Internal server error",
				})
			}
			return
		}

		c.Set(auth.UserIDKey, claims.UserID)
		c.Set(auth.TokenKey, tokenString)
		c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// "token" query parameter.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(c.Query("token"))
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
	})
}
