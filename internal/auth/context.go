package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CtxUserID        = "user_id"
	CtxAuthenticated = "user_authenticated"

	HeaderUserID        = "X-User-Id"
	HeaderAuthenticated = "X-User-Authenticated"

	// VisitorCookie keeps an anonymous visitor's projects together across requests.
	VisitorCookie = "vault_visitor"
	visitorPrefix = "visitor:"
	visitorMaxAge = 30 * 24 * 60 * 60
)

// WithUser resolves who is calling. The session layer in front of the API
// asserts identity through X-User-Id and X-User-Authenticated; requests
// without an authenticated identity get a stable anonymous visitor id.
func WithUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		authenticated := uid != "" && strings.EqualFold(strings.TrimSpace(c.GetHeader(HeaderAuthenticated)), "true")

		if !authenticated {
			uid = visitorID(c)
		}

		c.Set(CtxUserID, uid)
		c.Set(CtxAuthenticated, authenticated)
		c.Next()
	}
}

// UserID returns the caller id set by WithUser.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// IsAuthenticated reports whether the caller is a signed-in user.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(CtxAuthenticated)
}

func visitorID(c *gin.Context) string {
	if v, err := c.Cookie(VisitorCookie); err == nil {
		if id, err := uuid.Parse(v); err == nil {
			return visitorPrefix + id.String()
		}
	}

	id := uuid.New()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorCookie, id.String(), visitorMaxAge, "/", "", false, true)
	return visitorPrefix + id.String()
}
