package handlers

import (
	"net/http"
	"strconv"

	"github.com/dipta11/Football-Tournamnet-Maker/services"
)

type StatsHandler struct {
	statsService services.StatsService
}

func NewStatsHandler(ss services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: ss}
}

func parseLimit(r *http.Request) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			return limit
		}
	}
	return 0
}

// TopScorersHandler обрабатывает GET /stats/top-scorers
func (h *StatsHandler) TopScorersHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.statsService.TopScorers(r.Context(), parseLimit(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"top_scorers": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TournamentsPerPlayerHandler обрабатывает GET /stats/player-tournaments
func (h *StatsHandler) TournamentsPerPlayerHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.statsService.TournamentsPerPlayer(r.Context(), parseLimit(r))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player_tournaments": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
