package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// RosterEntry связывает игрока с командой, за которую он заявлен.
type RosterEntry struct {
	Player models.Player `json:"player"`
	TeamID uuid.UUID     `json:"team_id"`
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]*models.Player, error)
	// TournamentRoster возвращает составы всех команд турнира.
	TournamentRoster(ctx context.Context, tournamentID uuid.UUID) ([]RosterEntry, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) PlayerService {
	return &playerService{playerRepo: playerRepo, teamRepo: teamRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, player *models.Player) error {
	player.FullName = strings.TrimSpace(player.FullName)
	if player.FullName == "" {
		return ErrValidationFailed
	}
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	return wrapStoreErr(s.playerRepo.Create(ctx, player))
}

func (s *playerService) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, wrapStoreErr(err)
	}
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return players, nil
}

func (s *playerService) TournamentRoster(ctx context.Context, tournamentID uuid.UUID) ([]RosterEntry, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	teamIDs := make([]uuid.UUID, 0, len(teams))
	for _, team := range teams {
		teamIDs = append(teamIDs, team.ID)
	}

	memberships, err := s.playerRepo.ListByTeams(ctx, tournamentID, teamIDs)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	entries := make([]RosterEntry, 0, len(memberships))
	for _, m := range memberships {
		player, getErr := s.playerRepo.GetByID(ctx, m.PlayerID)
		if getErr != nil {
			if errors.Is(getErr, repositories.ErrPlayerNotFound) {
				continue
			}
			return nil, wrapStoreErr(getErr)
		}
		entries = append(entries, RosterEntry{Player: *player, TeamID: m.TeamID})
	}
	return entries, nil
}
