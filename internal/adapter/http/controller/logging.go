package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/deposit-sweeper/internal/logger"
)

// The request path carries the webhook secret, so it never appears in log
// fields here.
func logResponse(r *http.Request, status int, payload any, start time.Time) {
	logger.Info("http response", logger.Fields{
		"method":     r.Method,
		"status":     status,
		"durationMs": time.Since(start).Milliseconds(),
		"response":   logger.SanitizePayload(payload),
	})
}

func logError(r *http.Request, err error) {
	logger.Error("http handler error", err, logger.Fields{
		"method": r.Method,
	})
}
