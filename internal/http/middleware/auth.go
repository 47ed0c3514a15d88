package middleware

import (
	"net/http"
	"strings"

	"safari/internal/auth"
	"safari/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	adminIDKey    = "adminID"
	adminEmailKey = "adminEmail"
	userRoleKey   = "userRole"
)

// TokenParser is satisfied by *auth.Issuer.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireAdmin accepts a Bearer token issued by the admin login and exposes
// the admin id and role to later handlers.
func RequireAdmin(p TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		claims, err := p.Parse(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}
		c.Set(adminIDKey, claims.AdminID)
		c.Set(adminEmailKey, claims.Email)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// CurrentAdmin returns the admin set by RequireAdmin. AdminID is 0 on public
// routes.
func CurrentAdmin(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{AdminID: c.GetInt64(adminIDKey), Role: c.GetString(userRoleKey)}
}
