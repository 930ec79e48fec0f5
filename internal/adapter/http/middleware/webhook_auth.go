package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/api-sage/deposit-sweeper/internal/logger"
)

// WebhookAuth checks the shared secret carried in the {secret} path segment.
// Wise cannot attach query strings or custom headers to webhook deliveries,
// so the secret rides in the path.
func WebhookAuth(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if password == "" {
				logger.Error("webhook auth middleware missing server configuration", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			secret := r.PathValue("secret")
			if secret == "" || !secureEqual(secret, password) {
				logger.Warn("invalid webhook password in path", logger.Fields{
					"method": r.Method,
				})
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
