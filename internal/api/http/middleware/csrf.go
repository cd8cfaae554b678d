package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"

	csrfTokenBytes = 32
	csrfMaxAge     = 365 * 24 * 60 * 60
)

// IssueCSRF hands out the anti-forgery token. An existing cookie is reused so
// open tabs keep working.
func IssueCSRF(c *gin.Context) {
	token, err := c.Cookie(CSRFCookie)
	if err != nil || len(token) != csrfTokenBytes*2 {
		token, err = newCSRFToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not issue token"})
			return
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CSRFCookie, token, csrfMaxAge, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"success": true, "csrf_token": token})
}

// CSRF rejects state-changing requests whose X-CSRFToken header does not
// match the csrftoken cookie.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookie)
		header := c.GetHeader(CSRFHeader)
		if err != nil || cookie == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "CSRF verification failed"})
			return
		}
		c.Next()
	}
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
