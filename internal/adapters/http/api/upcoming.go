package api

import (
	"net/http"
	"strconv"

	"github.com/okian/triplog/internal/domain/types"
)

// UpcomingHandler lists queued events.
type UpcomingHandler struct {
	deps Dependencies
}

// NewUpcomingHandler creates a new upcoming handler.
func NewUpcomingHandler(deps Dependencies) *UpcomingHandler {
	return &UpcomingHandler{deps: deps}
}

type upcomingResponse struct {
	Count  int                   `json:"count"`
	Events []types.UpcomingEvent `json:"events"`
}

// HandleUpcoming handles GET /upcoming[?limit=N].
func (h *UpcomingHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
		return
	}

	events := h.deps.Upcoming()
	total := len(events)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", nil)
			return
		}
		if limit < len(events) {
			events = events[:limit]
		}
	}
	writeJSON(w, http.StatusOK, upcomingResponse{Count: total, Events: events})
}
