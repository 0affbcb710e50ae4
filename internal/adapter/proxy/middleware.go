package proxy

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PasswordHeader carries the shared app password on every proxy call
const PasswordHeader = "X-App-Password"

// AuthMiddleware returns a gin middleware that validates the shared app
// password header before any upstream call is made. An empty configured
// password rejects everything: the gateway refuses to run open.
func AuthMiddleware(appPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if appPassword == "" || c.GetHeader(PasswordHeader) != appPassword {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthorized.Error()})
			return
		}
		c.Next()
	}
}

// CORSMiddleware returns a gin middleware that answers with a non-wildcard
// allow-origin header. Origins outside the configured list fall back to the
// first configured origin, so unregistered callers never validate. With no
// origins configured the headers are omitted entirely.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(allowedOrigins) > 0 {
			origin := c.GetHeader("Origin")
			allowed := allowedOrigins[0]
			for _, o := range allowedOrigins {
				if o == origin {
					allowed = origin
					break
				}
			}
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Headers", "authorization, content-type, x-app-password")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
