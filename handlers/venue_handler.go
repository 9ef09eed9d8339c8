package handlers

import (
	"net/http"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/services"
)

type VenueHandler struct {
	venueService services.VenueService
}

func NewVenueHandler(vs services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: vs}
}

// CreateHandler обрабатывает POST /venues
func (h *VenueHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var venue models.Venue
	if err := readJSON(w, r, &venue); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.venueService.CreateVenue(r.Context(), &venue); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"venue": venue}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler обрабатывает GET /venues/{venueID}
func (h *VenueHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := getUUIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	venue, err := h.venueService.GetVenue(r.Context(), venueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"venue": venue}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler обрабатывает GET /venues
func (h *VenueHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	venues, err := h.venueService.ListVenues(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"venues": venues}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
