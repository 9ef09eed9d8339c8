package handlers

import (
	"net/http"

	"github.com/dipta11/Football-Tournamnet-Maker/middleware"
	"github.com/dipta11/Football-Tournamnet-Maker/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
	championService services.ChampionService
}

func NewProgressHandler(ps services.ProgressService, cs services.ChampionService) *ProgressHandler {
	return &ProgressHandler{progressService: ps, championService: cs}
}

type declareTargetInput struct {
	Target int `json:"target"`
}

// SnapshotHandler обрабатывает GET /tournaments/{tournamentID}/progress
func (h *ProgressHandler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.progressService.Snapshot(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeclareGroupTargetHandler обрабатывает POST /tournaments/{tournamentID}/progress/group-target
func (h *ProgressHandler) DeclareGroupTargetHandler(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetOrganizerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input declareTargetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.progressService.DeclareGroupTarget(r.Context(), organizerID, tournamentID, input.Target)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeclareKnockoutTargetHandler обрабатывает POST /tournaments/{tournamentID}/progress/knockout-target
func (h *ProgressHandler) DeclareKnockoutTargetHandler(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetOrganizerIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input declareTargetInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.progressService.DeclareKnockoutTarget(r.Context(), organizerID, tournamentID, input.Target)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"progress": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecommendedTargetHandler обрабатывает GET /tournaments/{tournamentID}/progress/recommended-group-target
func (h *ProgressHandler) RecommendedTargetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	target, err := h.progressService.RecommendedGroupTarget(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"recommended_group_target": target}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ChampionHandler обрабатывает GET /tournaments/{tournamentID}/champion
func (h *ProgressHandler) ChampionHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	champion, err := h.championService.DetermineChampion(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// champion == nil: финал сыгран, но победитель не определён.
	if err := writeJSON(w, http.StatusOK, jsonResponse{"champion": champion}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
