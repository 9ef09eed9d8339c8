package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

// StandingsRepository читает итоговые таблицы групп.
// Движок сетки потребляет её только через этот интерфейс: порядок команд
// в группе считает представление group_standings, а не движок.
type StandingsRepository interface {
	// GetStandings возвращает строки группы, упорядоченные по rank (1 = первое место).
	GetStandings(ctx context.Context, tournamentID uuid.UUID, group string) ([]models.StandingsRow, error)
	// IsGroupStageComplete истинно, когда есть хотя бы один групповой матч
	// и все групповые матчи завершены.
	IsGroupStageComplete(ctx context.Context, tournamentID uuid.UUID) (bool, error)
	// PlayerTeamMap возвращает карту игрок -> команда в рамках турнира.
	PlayerTeamMap(ctx context.Context, tournamentID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

type postgresStandingsRepository struct {
	db *sql.DB
}

func NewPostgresStandingsRepository(db *sql.DB) StandingsRepository {
	return &postgresStandingsRepository{db: db}
}

func (r *postgresStandingsRepository) GetStandings(ctx context.Context, tournamentID uuid.UUID, group string) ([]models.StandingsRow, error) {
	// Порядок ранжирования закреплён в представлении: очки, разница мячей,
	// забитые мячи, затем team_id для стабильности.
	query := `
		SELECT tournament_id, group_name, team_id, rank, played, wins, draws, losses,
		       goals_for, goals_against, goal_diff, points
		FROM group_standings
		WHERE tournament_id = $1 AND group_name = $2
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, group)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for %s/%s: %w", tournamentID, group, err)
	}
	defer rows.Close()

	standings := make([]models.StandingsRow, 0)
	for rows.Next() {
		var s models.StandingsRow
		if scanErr := rows.Scan(
			&s.TournamentID, &s.Group, &s.TeamID, &s.Rank, &s.Played, &s.Wins, &s.Draws, &s.Losses,
			&s.GoalsFor, &s.GoalsAgainst, &s.GoalDiff, &s.Points,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", scanErr)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standings rows iteration: %w", err)
	}
	return standings, nil
}

func (r *postgresStandingsRepository) IsGroupStageComplete(ctx context.Context, tournamentID uuid.UUID) (bool, error) {
	query := `
		SELECT COUNT(*) > 0 AND COUNT(*) FILTER (WHERE status <> $2) = 0
		FROM matches
		WHERE tournament_id = $1 AND match_type = $3`

	var complete bool
	err := r.db.QueryRowContext(ctx, query, tournamentID, models.MatchStatusFinished, models.MatchTypeGroup).Scan(&complete)
	if err != nil {
		return false, fmt.Errorf("failed to check group stage completion for %s: %w", tournamentID, err)
	}
	return complete, nil
}

func (r *postgresStandingsRepository) PlayerTeamMap(ctx context.Context, tournamentID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	query := `
		SELECT player_id, team_id FROM player_teams
		WHERE tournament_id = $1 AND player_id = ANY($2)`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, pq.Array(playerIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query player team map: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]uuid.UUID, len(playerIDs))
	for rows.Next() {
		var playerID, teamID uuid.UUID
		if scanErr := rows.Scan(&playerID, &teamID); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player team row: %w", scanErr)
		}
		result[playerID] = teamID
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player team rows iteration: %w", err)
	}
	return result, nil
}
