package handlers

import "net/http"

// HealthHandler answers liveness probes with the standard envelope.
type HealthHandler struct{}

// Handle implements GET /healthz.
func (HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondData(r.Context(), w, http.StatusOK, "health check passed", map[string]string{
		"status": "ok",
	})
}
