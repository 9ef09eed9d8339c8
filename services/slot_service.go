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

// SlotResolver разрешает спецификацию стороны матча в конкретную команду.
type SlotResolver interface {
	Resolve(ctx context.Context, tournamentID uuid.UUID, slot models.TeamSlot) (uuid.UUID, error)
}

type slotResolver struct {
	matchRepo     repositories.MatchRepository
	goalRepo      repositories.GoalRepository
	standingsRepo repositories.StandingsRepository
}

func NewSlotResolver(
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	standingsRepo repositories.StandingsRepository,
) SlotResolver {
	return &slotResolver{
		matchRepo:     matchRepo,
		goalRepo:      goalRepo,
		standingsRepo: standingsRepo,
	}
}

func (s *slotResolver) Resolve(ctx context.Context, tournamentID uuid.UUID, slot models.TeamSlot) (uuid.UUID, error) {
	if err := slot.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	switch slot.Kind {
	case models.SlotConcrete:
		return *slot.TeamID, nil
	case models.SlotGroupPosition:
		return s.resolveGroupPosition(ctx, tournamentID, slot.Group, slot.Rank)
	case models.SlotMatchOutcome:
		return s.resolveMatchOutcome(ctx, tournamentID, slot.MatchNo, slot.Side)
	}
	return uuid.Nil, fmt.Errorf("%w: unknown slot kind %q", ErrInvalidSlot, slot.Kind)
}

// resolveGroupPosition находит команду на месте rank итоговой таблицы.
// Слот неразрешим, пока групповой этап не завершён.
func (s *slotResolver) resolveGroupPosition(ctx context.Context, tournamentID uuid.UUID, group string, rank int) (uuid.UUID, error) {
	complete, err := s.standingsRepo.IsGroupStageComplete(ctx, tournamentID)
	if err != nil {
		return uuid.Nil, wrapStoreErr(err)
	}
	if !complete {
		return uuid.Nil, fmt.Errorf("%w: group stage is not complete", ErrUnresolvable)
	}

	rows, err := s.standingsRepo.GetStandings(ctx, tournamentID, group)
	if err != nil {
		return uuid.Nil, wrapStoreErr(err)
	}
	for _, row := range rows {
		if row.Rank == rank {
			return row.TeamID, nil
		}
	}
	// Группы нет или в ней меньше rank команд.
	return uuid.Nil, fmt.Errorf("%w: no team at position %d in group %q", ErrUnresolvable, rank, group)
}

// resolveMatchOutcome определяет победителя или проигравшего
// матча-источника. Один шаг разрешения, без рекурсии.
func (s *slotResolver) resolveMatchOutcome(ctx context.Context, tournamentID uuid.UUID, matchNo int, side models.MatchSide) (uuid.UUID, error) {
	match, err := s.matchRepo.GetByNumber(ctx, tournamentID, matchNo)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return uuid.Nil, fmt.Errorf("%w: match %d does not exist", ErrUnresolvable, matchNo)
		}
		return uuid.Nil, wrapStoreErr(err)
	}
	if match.Status != models.MatchStatusFinished {
		return uuid.Nil, fmt.Errorf("%w: match %d is not finished", ErrUnresolvable, matchNo)
	}

	score, err := s.matchScore(ctx, match)
	if err != nil {
		return uuid.Nil, err
	}

	var teamID uuid.UUID
	var decisive bool
	if side == models.SideWinner {
		teamID, decisive = score.Winner(match.Team1ID, match.Team2ID)
	} else {
		teamID, decisive = score.Loser(match.Team1ID, match.Team2ID)
	}
	if !decisive {
		return uuid.Nil, fmt.Errorf("%w: match %d ended in a tie after tiebreak", ErrUndetermined, matchNo)
	}
	return teamID, nil
}

func (s *slotResolver) matchScore(ctx context.Context, match *models.Match) (brackets.Score, error) {
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
