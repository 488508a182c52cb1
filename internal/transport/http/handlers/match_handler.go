package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/roomiehq/roomie/internal/service"
)

type MatchHandler struct {
	matching *service.MatchingService
}

func NewMatchHandler(matching *service.MatchingService) *MatchHandler {
	return &MatchHandler{matching: matching}
}

func (h *MatchHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	users, err := h.matching.GetNearbyUsers(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		log.Error("nearby users", "device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *MatchHandler) Matches(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	limit := service.DefaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	matches, err := h.matching.GetMatches(r.Context(), deviceID, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		log.Error("matches", "device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
