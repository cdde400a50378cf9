package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(deps Deps) http.Handler {
	h := NewHandler(deps)
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Post("/commands", h.CommandHandler)
	r.Post("/completions", h.CompletionHandler)
	r.Get("/accounts/{accountId}/balance", h.GetBalanceHandler)
	r.Put("/players/{accountId}", h.UpsertPlayerHandler)

	return r
}
