package services

import (
	"context"

	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

const defaultStatsLimit = 10

// StatsService отдаёт сквозную статистику по всем турнирам.
type StatsService interface {
	TopScorers(ctx context.Context, limit int) ([]repositories.TopScorerRow, error)
	TournamentsPerPlayer(ctx context.Context, limit int) ([]repositories.PlayerTournamentsRow, error)
}

type statsService struct {
	goalRepo repositories.GoalRepository
}

func NewStatsService(goalRepo repositories.GoalRepository) StatsService {
	return &statsService{goalRepo: goalRepo}
}

func (s *statsService) TopScorers(ctx context.Context, limit int) ([]repositories.TopScorerRow, error) {
	if limit < 1 {
		limit = defaultStatsLimit
	}
	rows, err := s.goalRepo.TopScorers(ctx, limit)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return rows, nil
}

func (s *statsService) TournamentsPerPlayer(ctx context.Context, limit int) ([]repositories.PlayerTournamentsRow, error) {
	if limit < 1 {
		limit = defaultStatsLimit
	}
	rows, err := s.goalRepo.TournamentsPerPlayer(ctx, limit)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return rows, nil
}
