package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

type VenueService interface {
	CreateVenue(ctx context.Context, venue *models.Venue) error
	GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error)
	ListVenues(ctx context.Context) ([]*models.Venue, error)
}

type venueService struct {
	venueRepo repositories.VenueRepository
}

func NewVenueService(venueRepo repositories.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

func (s *venueService) CreateVenue(ctx context.Context, venue *models.Venue) error {
	venue.Name = strings.TrimSpace(venue.Name)
	if venue.Name == "" {
		return ErrValidationFailed
	}
	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}
	return wrapStoreErr(s.venueRepo.Create(ctx, venue))
}

func (s *venueService) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return venue, nil
}

func (s *venueService) ListVenues(ctx context.Context) ([]*models.Venue, error) {
	venues, err := s.venueRepo.List(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return venues, nil
}
