// Package api provides HTTP API handlers for the Ushma thermal motion visualizer.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/ushma/internal/app"
)

// SettingsHandler handles HTTP requests for the live tuning settings.
type SettingsHandler struct {
	app *app.App
}

// NewSettingsHandler creates a new SettingsHandler bound to the given app.
func NewSettingsHandler(a *app.App) *SettingsHandler {
	return &SettingsHandler{app: a}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// get handles GET /api/settings and returns the current settings.
func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Settings())
}

// update handles PUT /api/settings. Missing fields keep their current
// values; out-of-range values are clamped rather than rejected.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	current := h.app.Settings()

	req := current
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.app.SetSettings(req)
	writeJSON(w, http.StatusOK, h.app.Settings())
}
