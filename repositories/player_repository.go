package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

var (
	ErrPlayerNotFound        = errors.New("player not found")
	ErrPlayerTeamConflict    = errors.New("player is already in a team for this tournament")
	ErrPlayerMembershipInval = errors.New("player membership references invalid player/team/tournament")
)

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	List(ctx context.Context) ([]*models.Player, error)
	AssignToTeam(ctx context.Context, exec SQLExecutor, membership models.PlayerTeam) error
	ListByTeams(ctx context.Context, tournamentID uuid.UUID, teamIDs []uuid.UUID) ([]models.PlayerTeam, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, player *models.Player) error {
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	query := `INSERT INTO players (id, fullname) VALUES ($1, $2) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query, player.ID, player.FullName).Scan(&player.CreatedAt)
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	query := `SELECT id, fullname, created_at FROM players WHERE id = $1`
	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.FullName, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to scan player %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context) ([]*models.Player, error) {
	query := `SELECT id, fullname, created_at FROM players ORDER BY fullname ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.FullName, &p.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresPlayerRepository) AssignToTeam(ctx context.Context, exec SQLExecutor, m models.PlayerTeam) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO player_teams (tournament_id, player_id, team_id) VALUES ($1, $2, $3)`
	_, err := executor.ExecContext(ctx, query, m.TournamentID, m.PlayerID, m.TeamID)
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "player_teams_pkey":
			return ErrPlayerTeamConflict
		case "player_teams_player_id_fkey", "player_teams_team_id_fkey", "player_teams_tournament_id_fkey":
			return ErrPlayerMembershipInval
		}
	}
	return err
}

func (r *postgresPlayerRepository) ListByTeams(ctx context.Context, tournamentID uuid.UUID, teamIDs []uuid.UUID) ([]models.PlayerTeam, error) {
	query := `
		SELECT tournament_id, player_id, team_id FROM player_teams
		WHERE tournament_id = $1 AND team_id = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, pq.Array(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query team players: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.PlayerTeam, 0)
	for rows.Next() {
		var m models.PlayerTeam
		if scanErr := rows.Scan(&m.TournamentID, &m.PlayerID, &m.TeamID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team player row: %w", scanErr)
		}
		memberships = append(memberships, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team player rows iteration: %w", err)
	}
	return memberships, nil
}
