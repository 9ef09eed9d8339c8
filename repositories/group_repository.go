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
	ErrGroupNotFound     = errors.New("group not found")
	ErrGroupNameConflict = errors.New("group name conflict within tournament")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	AddTeam(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, groupName string, teamID uuid.UUID) error
	ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Group, error)
	ListGroupTeamIDs(ctx context.Context, tournamentID uuid.UUID, groupName string) ([]uuid.UUID, error)
	// GroupOfTeams возвращает имя группы для каждой из переданных команд
	// (команды без группы в карту не попадают).
	GroupOfTeams(ctx context.Context, tournamentID uuid.UUID, teamIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO groups (tournament_id, name) VALUES ($1, $2)`
	_, err := executor.ExecContext(ctx, query, group.TournamentID, group.Name)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "groups_pkey" {
		return ErrGroupNameConflict
	}
	return err
}

func (r *postgresGroupRepository) AddTeam(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, groupName string, teamID uuid.UUID) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO group_teams (tournament_id, group_name, team_id) VALUES ($1, $2, $3)`
	_, err := executor.ExecContext(ctx, query, tournamentID, groupName, teamID)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "group_teams_group_fkey" {
		return ErrGroupNotFound
	}
	return err
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Group, error) {
	query := `SELECT tournament_id, name FROM groups WHERE tournament_id = $1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var g models.Group
		if scanErr := rows.Scan(&g.TournamentID, &g.Name); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", scanErr)
		}
		groups = append(groups, &g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) ListGroupTeamIDs(ctx context.Context, tournamentID uuid.UUID, groupName string) ([]uuid.UUID, error) {
	query := `
		SELECT team_id FROM group_teams
		WHERE tournament_id = $1 AND group_name = $2
		ORDER BY team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, groupName)
	if err != nil {
		return nil, fmt.Errorf("failed to query group teams for %s/%s: %w", tournamentID, groupName, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group team row: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group team rows iteration: %w", err)
	}
	return ids, nil
}

func (r *postgresGroupRepository) GroupOfTeams(ctx context.Context, tournamentID uuid.UUID, teamIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	query := `
		SELECT team_id, group_name FROM group_teams
		WHERE tournament_id = $1 AND team_id = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, pq.Array(teamIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query team groups: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]string, len(teamIDs))
	for rows.Next() {
		var teamID uuid.UUID
		var groupName string
		if scanErr := rows.Scan(&teamID, &groupName); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team group row: %w", scanErr)
		}
		result[teamID] = groupName
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team group rows iteration: %w", err)
	}
	return result, nil
}
