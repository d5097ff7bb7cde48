package api

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

type AdminGate interface {
	RequireAdmin(token string) (domain.Principal, error)
}

// bearerToken returns the token from an "Authorization: Bearer <token>"
// header, or "" when the header is missing or uses another scheme.
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAdmin aborts with 401 or 403 unless the bearer token belongs to an
// administrator. The resolved principal is stored under "principal".
func RequireAdmin(gate AdminGate, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := gate.RequireAdmin(bearerToken(c))
		if err != nil {
			reason := metrics.ReasonUnauthenticated
			if errors.Is(err, domain.ErrForbidden) {
				reason = metrics.ReasonForbidden
			}
			metrics.AuthFailures.WithLabelValues(reason).Inc()
			writeError(c, logger, err)
			return
		}
		c.Set(principalKey, p)
		c.Next()
	}
}

func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.InfoContext(c.Request.Context(), "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}
