package handler

import (
	"net/http"

	"liveform/internal/service"
)

// LiveHandler handles the live session feed
type LiveHandler struct {
	liveSvc *service.LiveService
}

// NewLiveHandler creates a new live handler
func NewLiveHandler(liveSvc *service.LiveService) *LiveHandler {
	return &LiveHandler{liveSvc: liveSvc}
}

// List handles GET /v1/live
func (h *LiveHandler) List(w http.ResponseWriter, r *http.Request) {
	feed, err := h.liveSvc.ListLive(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feed)
}
