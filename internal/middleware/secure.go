package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	apierrors "github.com/yukikurage/task-list-api/internal/errors"
)

// SecureHeaders sets browser security headers on every response.
func SecureHeaders(isProduction bool, log *slog.Logger) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !isProduction,
	})

	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			log.Warn("secure headers blocked request", slog.Any("error", err))
			apierrors.InternalError(c, "")
			return
		}
		c.Next()
	}
}
