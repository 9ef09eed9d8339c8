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

// ProgressService выводит этап построения сетки из объявленных целей
// и фактов о созданных и завершённых матчах.
type ProgressService interface {
	Snapshot(ctx context.Context, tournamentID uuid.UUID) (*models.ProgressSnapshot, error)
	// DeclareGroupTarget переводит турнир из setup в group_matches.
	DeclareGroupTarget(ctx context.Context, organizerID, tournamentID uuid.UUID, target int) (*models.ProgressSnapshot, error)
	// DeclareKnockoutTarget переводит турнир из knockout_setup в knockout_matches.
	DeclareKnockoutTarget(ctx context.Context, organizerID, tournamentID uuid.UUID, target int) (*models.ProgressSnapshot, error)
	// RecommendedGroupTarget считает размер полного круга по всем группам.
	RecommendedGroupTarget(ctx context.Context, tournamentID uuid.UUID) (int, error)
}

type progressService struct {
	progressRepo   repositories.ProgressRepository
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	groupRepo      repositories.GroupRepository
	standingsRepo  repositories.StandingsRepository
	hub            *brackets.Hub
}

func NewProgressService(
	progressRepo repositories.ProgressRepository,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	groupRepo repositories.GroupRepository,
	standingsRepo repositories.StandingsRepository,
	hub *brackets.Hub,
) ProgressService {
	return &progressService{
		progressRepo:   progressRepo,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		groupRepo:      groupRepo,
		standingsRepo:  standingsRepo,
		hub:            hub,
	}
}

func (s *progressService) Snapshot(ctx context.Context, tournamentID uuid.UUID) (*models.ProgressSnapshot, error) {
	progress, err := s.progressRepo.Get(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrProgressNotFound) {
			progress = &models.Progress{TournamentID: tournamentID}
		} else {
			return nil, wrapStoreErr(err)
		}
	}

	groupCreated, knockoutCreated, unfinished, err := s.matchRepo.CountByStage(ctx, tournamentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	groupComplete, err := s.standingsRepo.IsGroupStageComplete(ctx, tournamentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	snapshot := &models.ProgressSnapshot{
		GroupTarget:        progress.GroupTarget,
		GroupCreated:       groupCreated,
		KnockoutTarget:     progress.KnockoutTarget,
		KnockoutCreated:    knockoutCreated,
		GroupStageComplete: groupComplete,
	}
	snapshot.Stage = computeStage(progress, groupCreated, knockoutCreated, unfinished, groupComplete)
	snapshot.Completed = snapshot.Stage == models.StageComplete
	return snapshot, nil
}

// computeStage выводит этап из целей и фактов. Переходы только вперёд:
// setup -> group_matches -> knockout_setup -> knockout_matches -> complete.
func computeStage(progress *models.Progress, groupCreated, knockoutCreated, unfinished int, groupComplete bool) models.Stage {
	switch {
	case progress.GroupTarget == 0:
		return models.StageSetup
	case groupCreated < progress.GroupTarget || !groupComplete:
		return models.StageGroupMatches
	case progress.KnockoutTarget == 0:
		return models.StageKnockoutSetup
	case knockoutCreated < progress.KnockoutTarget || unfinished > 0:
		return models.StageKnockoutMatches
	}
	return models.StageComplete
}

func (s *progressService) DeclareGroupTarget(ctx context.Context, organizerID, tournamentID uuid.UUID, target int) (*models.ProgressSnapshot, error) {
	if err := s.requireOrganizer(ctx, organizerID, tournamentID); err != nil {
		return nil, err
	}
	if target < 1 {
		return nil, fmt.Errorf("%w: group target %d", ErrStageTargetInvalid, target)
	}

	snapshot, err := s.Snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if snapshot.Stage != models.StageSetup {
		return nil, fmt.Errorf("%w: group target already declared", ErrStageViolation)
	}

	if err := s.progressRepo.SetGroupTarget(ctx, tournamentID, target); err != nil {
		return nil, wrapStoreErr(err)
	}
	return s.broadcastSnapshot(ctx, tournamentID)
}

func (s *progressService) DeclareKnockoutTarget(ctx context.Context, organizerID, tournamentID uuid.UUID, target int) (*models.ProgressSnapshot, error) {
	if err := s.requireOrganizer(ctx, organizerID, tournamentID); err != nil {
		return nil, err
	}
	if target < 1 {
		return nil, fmt.Errorf("%w: knockout target %d", ErrStageTargetInvalid, target)
	}

	snapshot, err := s.Snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	switch snapshot.Stage {
	case models.StageSetup, models.StageGroupMatches:
		if !snapshot.GroupStageComplete {
			return nil, fmt.Errorf("%w: %d of %d group matches finished", ErrGroupStageIncomplete, snapshot.GroupCreated, snapshot.GroupTarget)
		}
		return nil, fmt.Errorf("%w: group stage not closed yet", ErrStageViolation)
	case models.StageKnockoutSetup:
		// допустимый переход
	default:
		return nil, fmt.Errorf("%w: knockout target already declared", ErrStageViolation)
	}

	if err := s.progressRepo.SetKnockoutTarget(ctx, tournamentID, target); err != nil {
		return nil, wrapStoreErr(err)
	}
	return s.broadcastSnapshot(ctx, tournamentID)
}

func (s *progressService) RecommendedGroupTarget(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	groups, err := s.groupRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return 0, wrapStoreErr(err)
	}
	sizes := make([]int, 0, len(groups))
	for _, g := range groups {
		teamIDs, listErr := s.groupRepo.ListGroupTeamIDs(ctx, tournamentID, g.Name)
		if listErr != nil {
			return 0, wrapStoreErr(listErr)
		}
		sizes = append(sizes, len(teamIDs))
	}
	return brackets.RecommendedGroupMatchCount(sizes), nil
}

func (s *progressService) broadcastSnapshot(ctx context.Context, tournamentID uuid.UUID) (*models.ProgressSnapshot, error) {
	snapshot, err := s.Snapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastToTournament(tournamentID, brackets.EventProgressAdvanced, snapshot)
	}
	return snapshot, nil
}

func (s *progressService) requireOrganizer(ctx context.Context, organizerID, tournamentID uuid.UUID) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return wrapStoreErr(err)
	}
	if tournament.OrganizerID != organizerID {
		return ErrForbiddenOperation
	}
	return nil
}
