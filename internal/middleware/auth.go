package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// TokenParser validates bearer tokens. service.AuthService satisfies it.
type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id and role on the context.
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "missing bearer token",
				Code:  string(service.CodeUnauthenticated),
			})
			return
		}
		claims, err := parser.ParseToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("path", c.FullPath()).Msg("RequireAuth: token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "invalid or expired token",
				Code:  string(service.CodeUnauthenticated),
			})
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "admin role required",
				Code:  string(service.CodeUnauthorized),
			})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
