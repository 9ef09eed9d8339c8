package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dipta11/Football-Tournamnet-Maker/brackets"
	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// CreateMatchInput задаёт обе стороны будущего матча слотами.
type CreateMatchInput struct {
	Type      models.MatchType `json:"match_type"`
	Slot1     models.TeamSlot  `json:"slot1"`
	Slot2     models.TeamSlot  `json:"slot2"`
	MatchTime time.Time        `json:"match_time"`
	VenueID   *uuid.UUID       `json:"venue_id,omitempty"`
}

// MatchView дополняет матч счётом, посчитанным из голевых событий.
type MatchView struct {
	models.Match
	Score *brackets.Score `json:"score,omitempty"`
	Goals []models.Goal   `json:"goals,omitempty"`
	Cards []models.Card   `json:"cards,omitempty"`
}

type MatchService interface {
	// CreateMatch разрешает слоты, проверяет этап и атомарно присваивает
	// номер матча. Никакое состояние не меняется, если хотя бы один слот
	// не разрешился или обе стороны совпали.
	CreateMatch(ctx context.Context, organizerID, tournamentID uuid.UUID, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchView, error)
	GetFixture(ctx context.Context, tournamentID uuid.UUID) ([]*MatchView, error)
	NextUnfinished(ctx context.Context, tournamentID uuid.UUID) (*models.Match, error)
}

type matchService struct {
	db             TxBeginner
	matchRepo      repositories.MatchRepository
	goalRepo       repositories.GoalRepository
	teamRepo       repositories.TeamRepository
	venueRepo      repositories.VenueRepository
	tournamentRepo repositories.TournamentRepository
	standingsRepo  repositories.StandingsRepository
	groupRepo      repositories.GroupRepository
	resolver       SlotResolver
	progress       ProgressService
	hub            *brackets.Hub
}

func NewMatchService(
	db TxBeginner,
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	teamRepo repositories.TeamRepository,
	venueRepo repositories.VenueRepository,
	tournamentRepo repositories.TournamentRepository,
	standingsRepo repositories.StandingsRepository,
	groupRepo repositories.GroupRepository,
	resolver SlotResolver,
	progress ProgressService,
	hub *brackets.Hub,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		goalRepo:       goalRepo,
		teamRepo:       teamRepo,
		venueRepo:      venueRepo,
		tournamentRepo: tournamentRepo,
		standingsRepo:  standingsRepo,
		groupRepo:      groupRepo,
		resolver:       resolver,
		progress:       progress,
		hub:            hub,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, organizerID, tournamentID uuid.UUID, input CreateMatchInput) (*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, wrapStoreErr(err)
	}
	if tournament.OrganizerID != organizerID {
		return nil, ErrForbiddenOperation
	}

	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown match type %q", ErrValidationFailed, input.Type)
	}
	if input.MatchTime.IsZero() {
		return nil, ErrScheduleRequired
	}
	if input.VenueID != nil {
		if _, err = s.venueRepo.GetByID(ctx, *input.VenueID); err != nil {
			if errors.Is(err, repositories.ErrVenueNotFound) {
				return nil, ErrVenueNotFound
			}
			return nil, wrapStoreErr(err)
		}
	}

	if input.Type == models.MatchTypeGroup {
		if input.Slot1.Kind == models.SlotMatchOutcome || input.Slot2.Kind == models.SlotMatchOutcome {
			return nil, fmt.Errorf("%w: group matches cannot depend on match outcomes", ErrInvalidSlot)
		}
		if input.Slot1.Kind == models.SlotGroupPosition && input.Slot2.Kind == models.SlotGroupPosition &&
			input.Slot1.Group != input.Slot2.Group {
			return nil, fmt.Errorf("%w: group match across groups %q and %q", ErrInvalidSlot, input.Slot1.Group, input.Slot2.Group)
		}
	}

	if err = s.checkStage(ctx, tournamentID, input.Type); err != nil {
		return nil, err
	}

	// Разрешаем обе стороны до какой-либо записи.
	team1ID, err := s.resolver.Resolve(ctx, tournamentID, input.Slot1)
	if err != nil {
		return nil, err
	}
	team2ID, err := s.resolver.Resolve(ctx, tournamentID, input.Slot2)
	if err != nil {
		return nil, err
	}
	if team1ID == team2ID {
		return nil, fmt.Errorf("%w: team %s on both sides", ErrSameTeam, team1ID)
	}

	// Групповой матч допустим только внутри одной группы.
	if input.Type == models.MatchTypeGroup {
		groups, grpErr := s.groupRepo.GroupOfTeams(ctx, tournamentID, []uuid.UUID{team1ID, team2ID})
		if grpErr != nil {
			return nil, wrapStoreErr(grpErr)
		}
		group1, ok1 := groups[team1ID]
		group2, ok2 := groups[team2ID]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: both teams must belong to a group", ErrInvalidSlot)
		}
		if group1 != group2 {
			return nil, fmt.Errorf("%w: group match across groups %q and %q", ErrInvalidSlot, group1, group2)
		}
	}

	match := &models.Match{
		TournamentID: tournamentID,
		Type:         input.Type,
		Team1ID:      team1ID,
		Team2ID:      team2ID,
		MatchTime:    input.MatchTime,
		VenueID:      input.VenueID,
		Status:       models.MatchStatusScheduled,
	}

	// Номер выдаётся и матч записывается в одной транзакции: при любом сбое
	// после выдачи номера откат вернёт и счётчик, дыр в нумерации не будет.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	matchNo, err := s.matchRepo.NextMatchNumber(ctx, tx, tournamentID)
	if err != nil {
		_ = tx.Rollback()
		return nil, wrapStoreErr(err)
	}
	match.MatchNo = matchNo
	if err = s.matchRepo.Create(ctx, tx, match); err != nil {
		_ = tx.Rollback()
		return nil, wrapStoreErr(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	if s.hub != nil {
		s.hub.BroadcastToTournament(tournamentID, brackets.EventMatchCreated, match)
	}
	return match, nil
}

// checkStage допускает создание матча только на соответствующем этапе.
func (s *matchService) checkStage(ctx context.Context, tournamentID uuid.UUID, matchType models.MatchType) error {
	snapshot, err := s.progress.Snapshot(ctx, tournamentID)
	if err != nil {
		return err
	}

	if matchType == models.MatchTypeGroup {
		switch snapshot.Stage {
		case models.StageSetup:
			return fmt.Errorf("%w: declare the group match count first", ErrStageViolation)
		case models.StageGroupMatches:
			if snapshot.GroupCreated >= snapshot.GroupTarget {
				return fmt.Errorf("%w: all %d group matches already created", ErrStageViolation, snapshot.GroupTarget)
			}
			return nil
		}
		return fmt.Errorf("%w: group stage is closed", ErrStageViolation)
	}

	switch snapshot.Stage {
	case models.StageKnockoutSetup:
		return fmt.Errorf("%w: declare the knockout match count first", ErrStageViolation)
	case models.StageKnockoutMatches:
		if snapshot.KnockoutCreated >= snapshot.KnockoutTarget {
			return fmt.Errorf("%w: %d of %d", ErrKnockoutTargetReached, snapshot.KnockoutCreated, snapshot.KnockoutTarget)
		}
		return nil
	}
	return fmt.Errorf("%w: knockout stage is not open", ErrStageViolation)
}

func (s *matchService) GetMatch(ctx context.Context, matchID uuid.UUID) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, wrapStoreErr(err)
	}
	view, err := s.buildView(ctx, match)
	if err != nil {
		return nil, err
	}
	if err = s.attachTeams(ctx, []*MatchView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *matchService) GetFixture(ctx context.Context, tournamentID uuid.UUID) ([]*MatchView, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, nil, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	views := make([]*MatchView, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, match := range matches {
		i, match := i, match
		g.Go(func() error {
			view, buildErr := s.buildView(gctx, match)
			if buildErr != nil {
				return buildErr
			}
			views[i] = view
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if err = s.attachTeams(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *matchService) NextUnfinished(ctx context.Context, tournamentID uuid.UUID) (*models.Match, error) {
	match, err := s.matchRepo.NextUnfinished(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return match, nil
}

func (s *matchService) buildView(ctx context.Context, match *models.Match) (*MatchView, error) {
	view := &MatchView{Match: *match}

	goals, err := s.goalRepo.ListByMatch(ctx, match.ID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	cards, err := s.goalRepo.ListCardsByMatch(ctx, match.ID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	view.Goals = goals
	view.Cards = cards

	if match.Status == models.MatchStatusFinished {
		playerIDs := make([]uuid.UUID, 0, len(goals))
		for _, g := range goals {
			playerIDs = append(playerIDs, g.PlayerID)
		}
		playerTeam, mapErr := s.standingsRepo.PlayerTeamMap(ctx, match.TournamentID, playerIDs)
		if mapErr != nil {
			return nil, wrapStoreErr(mapErr)
		}
		score := brackets.Tally(goals, match.Team1ID, match.Team2ID, playerTeam)
		view.Score = &score
	}
	return view, nil
}

// attachTeams подгружает команды и площадки одним проходом по уникальным ID.
func (s *matchService) attachTeams(ctx context.Context, views []*MatchView) error {
	teams := make(map[uuid.UUID]*models.Team)
	venues := make(map[uuid.UUID]*models.Venue)
	for _, view := range views {
		teams[view.Team1ID] = nil
		teams[view.Team2ID] = nil
		if view.VenueID != nil {
			venues[*view.VenueID] = nil
		}
	}

	for teamID := range teams {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				continue
			}
			return wrapStoreErr(err)
		}
		teams[teamID] = team
	}
	for venueID := range venues {
		venue, err := s.venueRepo.GetByID(ctx, venueID)
		if err != nil {
			if errors.Is(err, repositories.ErrVenueNotFound) {
				continue
			}
			return wrapStoreErr(err)
		}
		venues[venueID] = venue
	}

	for _, view := range views {
		view.Team1 = teams[view.Team1ID]
		view.Team2 = teams[view.Team2ID]
		if view.VenueID != nil {
			view.Venue = venues[*view.VenueID]
		}
	}
	return nil
}
