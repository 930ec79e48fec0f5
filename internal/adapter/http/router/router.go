package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WebhookRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler)
}

func New(webhookController WebhookRouteRegistrar, authMiddleware func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if webhookController != nil {
		webhookController.RegisterRoutes(mux, authMiddleware)
	}

	return mux
}
