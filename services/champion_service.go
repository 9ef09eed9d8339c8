package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/brackets"
	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// ChampionService определяет чемпиона турнира по завершённому финалу.
type ChampionService interface {
	// DetermineChampion возвращает победителя последнего завершённого финала.
	// (nil, nil) означает, что финал сыгран, но победитель не определён
	// (ничья после тай-брейка): чемпион не назначается "по умолчанию".
	DetermineChampion(ctx context.Context, tournamentID uuid.UUID) (*models.Team, error)
}

type championService struct {
	matchRepo     repositories.MatchRepository
	goalRepo      repositories.GoalRepository
	teamRepo      repositories.TeamRepository
	standingsRepo repositories.StandingsRepository
	progress      ProgressService
}

func NewChampionService(
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	teamRepo repositories.TeamRepository,
	standingsRepo repositories.StandingsRepository,
	progress ProgressService,
) ChampionService {
	return &championService{
		matchRepo:     matchRepo,
		goalRepo:      goalRepo,
		teamRepo:      teamRepo,
		standingsRepo: standingsRepo,
		progress:      progress,
	}
}

func (s *championService) DetermineChampion(ctx context.Context, tournamentID uuid.UUID) (*models.Team, error) {
	snapshot, err := s.progress.Snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !snapshot.Completed {
		return nil, fmt.Errorf("%w: stage %s", ErrTournamentNotComplete, snapshot.Stage)
	}

	finalType := models.MatchTypeFinal
	finishedStatus := models.MatchStatusFinished
	finals, err := s.matchRepo.ListByTournament(ctx, tournamentID, &finalType, &finishedStatus)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if len(finals) == 0 {
		return nil, ErrFinalNotFinished
	}
	// При нескольких финалах (переигровка) решает последний по номеру.
	final := finals[len(finals)-1]

	score, err := s.scoreOf(ctx, final)
	if err != nil {
		return nil, err
	}
	winnerID, decisive := score.Winner(final.Team1ID, final.Team2ID)
	if !decisive {
		return nil, nil
	}

	team, err := s.teamRepo.GetByID(ctx, winnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return team, nil
}

func (s *championService) scoreOf(ctx context.Context, match *models.Match) (brackets.Score, error) {
	goals, err := s.goalRepo.ListByMatch(ctx, match.ID)
	if err != nil {
		return brackets.Score{}, wrapStoreErr(err)
	}
	playerIDs := make([]uuid.UUID, 0, len(goals))
	for _, g := range goals {
		playerIDs = append(playerIDs, g.PlayerID)
	}
	playerTeam, err := s.standingsRepo.PlayerTeamMap(ctx, match.TournamentID, playerIDs)
	if err != nil {
		return brackets.Score{}, wrapStoreErr(err)
	}
	return brackets.Tally(goals, match.Team1ID, match.Team2ID, playerTeam), nil
}
