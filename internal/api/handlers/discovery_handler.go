package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/Emergencybeddiscovery/internal/application/services"
	"github.com/zatekoja/Emergencybeddiscovery/internal/domain/entities"
	"github.com/zatekoja/Emergencybeddiscovery/internal/infrastructure/observability"
)

// DiscoveryHandler handles facility discovery endpoints.
type DiscoveryHandler struct {
	discovery *services.DiscoveryService
}

// NewDiscoveryHandler creates a new discovery handler.
func NewDiscoveryHandler(discovery *services.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: discovery}
}

// Nearby handles GET /api/facilities/nearby?lat=...&lon=...
func (h *DiscoveryHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	latStr := strings.TrimSpace(r.URL.Query().Get("lat"))
	lonStr := strings.TrimSpace(r.URL.Query().Get("lon"))
	if latStr == "" || lonStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lon parameters are required")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lat parameter")
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid lon parameter")
		return
	}

	origin, err := entities.NewCoordinates(lat, lon)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	result, err := h.discovery.Discover(r.Context(), origin)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("discovery pipeline failed")
		respondWithError(w, http.StatusInternalServerError, "failed to discover facilities")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Health handles GET /health
func (h *DiscoveryHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
