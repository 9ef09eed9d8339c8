package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/brackets"
	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// GoalEvent описывает одно голевое событие протокола.
type GoalEvent struct {
	PlayerID uuid.UUID        `json:"player_id"`
	Minute   int              `json:"minute"`
	Phase    models.GoalPhase `json:"phase"`
}

// CardEvent описывает карточку в протоколе.
type CardEvent struct {
	PlayerID uuid.UUID       `json:"player_id"`
	Type     models.CardType `json:"card_type"`
	Minute   int             `json:"minute"`
}

// RecordResultInput содержит полный протокол матча. Записывается один раз.
type RecordResultInput struct {
	Goals []GoalEvent `json:"goals"`
	Cards []CardEvent `json:"cards"`
}

type ResultService interface {
	// RecordResult атомарно записывает протокол и закрывает матч.
	// Повторная запись для завершённого матча отклоняется.
	RecordResult(ctx context.Context, organizerID, matchID uuid.UUID, input RecordResultInput) (*MatchView, error)
}

type resultService struct {
	db             TxBeginner
	matchRepo      repositories.MatchRepository
	goalRepo       repositories.GoalRepository
	tournamentRepo repositories.TournamentRepository
	standingsRepo  repositories.StandingsRepository
	matchService   MatchService
	progress       ProgressService
	champion       ChampionService
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewResultService(
	db TxBeginner,
	matchRepo repositories.MatchRepository,
	goalRepo repositories.GoalRepository,
	tournamentRepo repositories.TournamentRepository,
	standingsRepo repositories.StandingsRepository,
	matchService MatchService,
	progress ProgressService,
	champion ChampionService,
	hub *brackets.Hub,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:             db,
		matchRepo:      matchRepo,
		goalRepo:       goalRepo,
		tournamentRepo: tournamentRepo,
		standingsRepo:  standingsRepo,
		matchService:   matchService,
		progress:       progress,
		champion:       champion,
		hub:            hub,
		logger:         logger,
	}
}

func (s *resultService) RecordResult(ctx context.Context, organizerID, matchID uuid.UUID, input RecordResultInput) (*MatchView, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, wrapStoreErr(err)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if tournament.OrganizerID != organizerID {
		return nil, ErrForbiddenOperation
	}
	if match.Status == models.MatchStatusFinished {
		return nil, fmt.Errorf("%w: match %d", ErrMatchAlreadyFinished, match.MatchNo)
	}

	goals, cards, err := s.validateProtocol(ctx, match, input)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if err = s.goalRepo.CreateGoals(ctx, tx, goals); err != nil {
		_ = tx.Rollback()
		return nil, wrapStoreErr(err)
	}
	if err = s.goalRepo.CreateCards(ctx, tx, cards); err != nil {
		_ = tx.Rollback()
		return nil, wrapStoreErr(err)
	}
	if err = s.matchRepo.MarkFinished(ctx, tx, match.ID); err != nil {
		_ = tx.Rollback()
		return nil, wrapStoreErr(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	view, err := s.matchService.GetMatch(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	if s.hub != nil {
		s.hub.BroadcastToTournament(match.TournamentID, brackets.EventResultRecorded, view)
	}

	s.afterResult(ctx, tournament, match)
	return view, nil
}

// validateProtocol проверяет события протокола до записи: фазы и типы
// карточек известны, каждый автор гола выступает за одну из двух команд матча.
func (s *resultService) validateProtocol(ctx context.Context, match *models.Match, input RecordResultInput) ([]models.Goal, []models.Card, error) {
	playerIDs := make([]uuid.UUID, 0, len(input.Goals)+len(input.Cards))
	for _, e := range input.Goals {
		playerIDs = append(playerIDs, e.PlayerID)
	}
	for _, e := range input.Cards {
		playerIDs = append(playerIDs, e.PlayerID)
	}
	playerTeam, err := s.standingsRepo.PlayerTeamMap(ctx, match.TournamentID, playerIDs)
	if err != nil {
		return nil, nil, wrapStoreErr(err)
	}

	goals := make([]models.Goal, 0, len(input.Goals))
	for _, e := range input.Goals {
		if !e.Phase.Valid() {
			return nil, nil, fmt.Errorf("%w: unknown goal phase %q", ErrValidationFailed, e.Phase)
		}
		teamID, ok := playerTeam[e.PlayerID]
		if !ok || (teamID != match.Team1ID && teamID != match.Team2ID) {
			return nil, nil, fmt.Errorf("%w: player %s does not play in match %d", ErrValidationFailed, e.PlayerID, match.MatchNo)
		}
		goals = append(goals, models.Goal{
			MatchID:  match.ID,
			PlayerID: e.PlayerID,
			Minute:   e.Minute,
			Phase:    e.Phase,
		})
	}

	cards := make([]models.Card, 0, len(input.Cards))
	for _, e := range input.Cards {
		if !e.Type.Valid() {
			return nil, nil, fmt.Errorf("%w: unknown card type %q", ErrValidationFailed, e.Type)
		}
		teamID, ok := playerTeam[e.PlayerID]
		if !ok || (teamID != match.Team1ID && teamID != match.Team2ID) {
			return nil, nil, fmt.Errorf("%w: player %s does not play in match %d", ErrValidationFailed, e.PlayerID, match.MatchNo)
		}
		cards = append(cards, models.Card{
			MatchID:  match.ID,
			PlayerID: e.PlayerID,
			Type:     e.Type,
			Minute:   e.Minute,
		})
	}
	return goals, cards, nil
}

// afterResult рассылает обновлённый снимок этапов и закрывает турнир,
// когда сетка доиграна. Результат уже записан, сбои здесь только логируются.
func (s *resultService) afterResult(ctx context.Context, tournament *models.Tournament, match *models.Match) {
	snapshot, err := s.progress.Snapshot(ctx, tournament.ID)
	if err != nil {
		s.logger.Error("failed to compute progress after result",
			slog.String("tournament_id", tournament.ID.String()), slog.Any("error", err))
		return
	}
	if s.hub != nil {
		s.hub.BroadcastToTournament(tournament.ID, brackets.EventProgressAdvanced, snapshot)
	}
	if !snapshot.Completed {
		return
	}

	if tournament.Status != models.StatusFinished {
		if err = s.tournamentRepo.UpdateStatus(ctx, nil, tournament.ID, models.StatusFinished); err != nil {
			s.logger.Error("failed to finish tournament",
				slog.String("tournament_id", tournament.ID.String()), slog.Any("error", err))
		}
	}

	champion, err := s.champion.DetermineChampion(ctx, tournament.ID)
	if err != nil {
		s.logger.Error("failed to determine champion",
			slog.String("tournament_id", tournament.ID.String()), slog.Any("error", err))
		return
	}
	if champion != nil && s.hub != nil {
		s.hub.BroadcastToTournament(tournament.ID, brackets.EventChampionDecided, champion)
	}
}
