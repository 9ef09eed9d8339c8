package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
	"github.com/dipta11/Football-Tournamnet-Maker/storage"
)

// TeamInput содержит команду и имена игроков для заявки.
type TeamInput struct {
	Name    string   `json:"name"`
	Players []string `json:"players,omitempty"`
}

type GroupInput struct {
	Name  string      `json:"name"`
	Teams []TeamInput `json:"teams"`
}

// CreateTournamentInput описывает весь мастер создания турнира.
type CreateTournamentInput struct {
	Name      string       `json:"name"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Public    bool         `json:"public"`
	Groups    []GroupInput `json:"groups"`
}

// TournamentDetail собирает данные страницы турнира.
type TournamentDetail struct {
	Tournament *models.Tournament               `json:"tournament"`
	Standings  map[string][]models.StandingsRow `json:"standings,omitempty"`
	Progress   *models.ProgressSnapshot         `json:"progress,omitempty"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, organizerID uuid.UUID, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, id uuid.UUID) (*TournamentDetail, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*models.Tournament, error)
	ListPublic(ctx context.Context) ([]*models.Tournament, error)
	GetStandings(ctx context.Context, tournamentID uuid.UUID, group string) ([]models.StandingsRow, error)
	UploadLogo(ctx context.Context, organizerID, tournamentID uuid.UUID, contentType string, file io.Reader) (string, error)
	UploadTeamLogo(ctx context.Context, organizerID, tournamentID, teamID uuid.UUID, contentType string, file io.Reader) (string, error)
}

type tournamentService struct {
	db             TxBeginner
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	groupRepo      repositories.GroupRepository
	playerRepo     repositories.PlayerRepository
	standingsRepo  repositories.StandingsRepository
	progress       ProgressService
	uploader       storage.FileUploader
	logger         *slog.Logger
}

func NewTournamentService(
	db TxBeginner,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	groupRepo repositories.GroupRepository,
	playerRepo repositories.PlayerRepository,
	standingsRepo repositories.StandingsRepository,
	progress ProgressService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		groupRepo:      groupRepo,
		playerRepo:     playerRepo,
		standingsRepo:  standingsRepo,
		progress:       progress,
		uploader:       uploader,
		logger:         logger,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID uuid.UUID, input CreateTournamentInput) (*models.Tournament, error) {
	tournament, err := buildTournament(organizerID, input)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if err = s.createWithinTx(ctx, tx, tournament, input.Groups); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, wrapStoreErr(err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID.String()),
		slog.String("name", tournament.Name),
		slog.Int("groups", len(tournament.Groups)))
	return tournament, nil
}

func buildTournament(organizerID uuid.UUID, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if len(input.Groups) == 0 {
		return nil, ErrGroupsRequired
	}
	for _, g := range input.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("%w: group name is required", ErrValidationFailed)
		}
		if len(g.Teams) < 2 {
			return nil, fmt.Errorf("%w: group %q needs at least 2 teams", ErrValidationFailed, g.Name)
		}
	}

	tournament := &models.Tournament{
		ID:          uuid.New(),
		Name:        name,
		OrganizerID: organizerID,
		Public:      input.Public,
		Status:      models.StatusUpcoming,
	}
	if err := parseDates(tournament, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) createWithinTx(ctx context.Context, tx Tx, tournament *models.Tournament, groups []GroupInput) error {
	if err := s.tournamentRepo.Create(ctx, tx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return fmt.Errorf("%w: tournament %q", ErrNameConflict, tournament.Name)
		}
		return wrapStoreErr(err)
	}

	for _, groupInput := range groups {
		group := &models.Group{TournamentID: tournament.ID, Name: strings.TrimSpace(groupInput.Name)}
		if err := s.groupRepo.Create(ctx, tx, group); err != nil {
			if errors.Is(err, repositories.ErrGroupNameConflict) {
				return fmt.Errorf("%w: group %q", ErrNameConflict, group.Name)
			}
			return wrapStoreErr(err)
		}

		for _, teamInput := range groupInput.Teams {
			team := &models.Team{ID: uuid.New(), Name: strings.TrimSpace(teamInput.Name)}
			if team.Name == "" {
				return fmt.Errorf("%w: team name is required in group %q", ErrValidationFailed, group.Name)
			}
			if err := s.teamRepo.Create(ctx, tx, team); err != nil {
				return wrapStoreErr(err)
			}
			if err := s.teamRepo.AddToTournament(ctx, tx, tournament.ID, team.ID); err != nil {
				return wrapStoreErr(err)
			}
			if err := s.groupRepo.AddTeam(ctx, tx, tournament.ID, group.Name, team.ID); err != nil {
				return wrapStoreErr(err)
			}
			if err := s.createRoster(ctx, tx, tournament.ID, team.ID, teamInput.Players); err != nil {
				return err
			}
			group.Teams = append(group.Teams, *team)
		}
		tournament.Groups = append(tournament.Groups, *group)
	}
	return nil
}

func (s *tournamentService) createRoster(ctx context.Context, tx Tx, tournamentID, teamID uuid.UUID, names []string) error {
	for _, fullName := range names {
		fullName = strings.TrimSpace(fullName)
		if fullName == "" {
			continue
		}
		player := &models.Player{ID: uuid.New(), FullName: fullName}
		if err := s.playerRepo.Create(ctx, player); err != nil {
			return wrapStoreErr(err)
		}
		membership := models.PlayerTeam{TournamentID: tournamentID, PlayerID: player.ID, TeamID: teamID}
		if err := s.playerRepo.AssignToTeam(ctx, tx, membership); err != nil {
			return wrapStoreErr(err)
		}
	}
	return nil
}

func (s *tournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*TournamentDetail, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, wrapStoreErr(err)
	}
	s.attachLogoURL(tournament)

	detail := &TournamentDetail{
		Tournament: tournament,
		Standings:  make(map[string][]models.StandingsRow),
	}

	// Группы, таблицы и прогресс не зависят друг от друга, грузим параллельно.
	g, gctx := errgroup.WithContext(ctx)
	var groups []*models.Group
	g.Go(func() error {
		var loadErr error
		groups, loadErr = s.groupRepo.ListByTournament(gctx, id)
		return wrapStoreErr(loadErr)
	})
	g.Go(func() error {
		snapshot, snapErr := s.progress.Snapshot(gctx, id)
		if snapErr != nil {
			return snapErr
		}
		detail.Progress = snapshot
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		rows, standErr := s.standingsRepo.GetStandings(ctx, id, group.Name)
		if standErr != nil {
			return nil, wrapStoreErr(standErr)
		}
		detail.Standings[group.Name] = rows
		tournament.Groups = append(tournament.Groups, *group)
	}
	return detail, nil
}

func (s *tournamentService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	for _, t := range tournaments {
		s.attachLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) ListPublic(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListPublic(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	for _, t := range tournaments {
		s.attachLogoURL(t)
	}
	return tournaments, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID uuid.UUID, group string) ([]models.StandingsRow, error) {
	rows, err := s.standingsRepo.GetStandings(ctx, tournamentID, group)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if len(rows) == 0 {
		// Отличаем пустую таблицу существующей группы от несуществующей группы.
		if _, err = s.groupRepo.ListGroupTeamIDs(ctx, tournamentID, group); err != nil {
			if errors.Is(err, repositories.ErrGroupNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, wrapStoreErr(err)
		}
	}
	return rows, nil
}

func (s *tournamentService) UploadLogo(ctx context.Context, organizerID, tournamentID uuid.UUID, contentType string, file io.Reader) (string, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return "", ErrTournamentNotFound
		}
		return "", wrapStoreErr(err)
	}
	if tournament.OrganizerID != organizerID {
		return "", ErrForbiddenOperation
	}

	key := storage.TournamentLogoKey(tournamentID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload tournament logo: %w", err)
	}
	if err = s.tournamentRepo.UpdateLogoKey(ctx, tournamentID, &result.Key); err != nil {
		return "", wrapStoreErr(err)
	}
	return s.uploader.GetPublicURL(result.Key), nil
}

func (s *tournamentService) UploadTeamLogo(ctx context.Context, organizerID, tournamentID, teamID uuid.UUID, contentType string, file io.Reader) (string, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return "", ErrTournamentNotFound
		}
		return "", wrapStoreErr(err)
	}
	if tournament.OrganizerID != organizerID {
		return "", ErrForbiddenOperation
	}
	if _, err = s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return "", ErrTeamNotFound
		}
		return "", wrapStoreErr(err)
	}

	key := storage.TeamLogoKey(teamID)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to upload team logo: %w", err)
	}
	if err = s.teamRepo.UpdateLogoKey(ctx, teamID, &result.Key); err != nil {
		return "", wrapStoreErr(err)
	}
	return s.uploader.GetPublicURL(result.Key), nil
}

func (s *tournamentService) attachLogoURL(t *models.Tournament) {
	if t.LogoKey != nil && s.uploader != nil {
		url := s.uploader.GetPublicURL(*t.LogoKey)
		t.LogoURL = &url
	}
}
