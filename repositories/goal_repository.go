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
	ErrGoalMatchInvalid  = errors.New("goal match conflict or invalid")
	ErrGoalPlayerInvalid = errors.New("goal player conflict or invalid")
)

// TopScorerRow хранит статистику голов по игроку.
type TopScorerRow struct {
	PlayerID uuid.UUID `json:"player_id"`
	FullName string    `json:"fullname"`
	Goals    int       `json:"goals"`
}

// PlayerTournamentsRow хранит число турниров игрока.
type PlayerTournamentsRow struct {
	PlayerID    uuid.UUID `json:"player_id"`
	FullName    string    `json:"fullname"`
	Tournaments int       `json:"tournaments"`
}

type GoalRepository interface {
	CreateGoals(ctx context.Context, exec SQLExecutor, goals []models.Goal) error
	CreateCards(ctx context.Context, exec SQLExecutor, cards []models.Card) error
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Goal, error)
	ListCardsByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Card, error)
	TopScorers(ctx context.Context, limit int) ([]TopScorerRow, error)
	TournamentsPerPlayer(ctx context.Context, limit int) ([]PlayerTournamentsRow, error)
}

type postgresGoalRepository struct {
	db *sql.DB
}

func NewPostgresGoalRepository(db *sql.DB) GoalRepository {
	return &postgresGoalRepository{db: db}
}

func (r *postgresGoalRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGoalRepository) CreateGoals(ctx context.Context, exec SQLExecutor, goals []models.Goal) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO goals (id, match_id, player_id, minute, phase) VALUES ($1, $2, $3, $4, $5)`
	for i := range goals {
		if goals[i].ID == uuid.Nil {
			goals[i].ID = uuid.New()
		}
		_, err := executor.ExecContext(ctx, query,
			goals[i].ID, goals[i].MatchID, goals[i].PlayerID, goals[i].Minute, goals[i].Phase)
		if err != nil {
			return r.handleGoalError(err)
		}
	}
	return nil
}

func (r *postgresGoalRepository) CreateCards(ctx context.Context, exec SQLExecutor, cards []models.Card) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO cards (id, match_id, player_id, card_type, minute) VALUES ($1, $2, $3, $4, $5)`
	for i := range cards {
		if cards[i].ID == uuid.Nil {
			cards[i].ID = uuid.New()
		}
		_, err := executor.ExecContext(ctx, query,
			cards[i].ID, cards[i].MatchID, cards[i].PlayerID, cards[i].Type, cards[i].Minute)
		if err != nil {
			return r.handleGoalError(err)
		}
	}
	return nil
}

func (r *postgresGoalRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Goal, error) {
	query := `SELECT id, match_id, player_id, minute, phase FROM goals WHERE match_id = $1 ORDER BY minute ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals for match %s: %w", matchID, err)
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var g models.Goal
		if scanErr := rows.Scan(&g.ID, &g.MatchID, &g.PlayerID, &g.Minute, &g.Phase); scanErr != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", scanErr)
		}
		goals = append(goals, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during goal rows iteration: %w", err)
	}
	return goals, nil
}

func (r *postgresGoalRepository) ListCardsByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Card, error) {
	query := `SELECT id, match_id, player_id, card_type, minute FROM cards WHERE match_id = $1 ORDER BY minute ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards for match %s: %w", matchID, err)
	}
	defer rows.Close()

	cards := make([]models.Card, 0)
	for rows.Next() {
		var c models.Card
		if scanErr := rows.Scan(&c.ID, &c.MatchID, &c.PlayerID, &c.Type, &c.Minute); scanErr != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", scanErr)
		}
		cards = append(cards, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during card rows iteration: %w", err)
	}
	return cards, nil
}

func (r *postgresGoalRepository) TopScorers(ctx context.Context, limit int) ([]TopScorerRow, error) {
	query := `
		SELECT p.id, p.fullname, COUNT(g.id) AS goals
		FROM goals g
		JOIN players p ON p.id = g.player_id
		GROUP BY p.id, p.fullname
		ORDER BY goals DESC, p.fullname ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top scorers: %w", err)
	}
	defer rows.Close()

	result := make([]TopScorerRow, 0)
	for rows.Next() {
		var row TopScorerRow
		if scanErr := rows.Scan(&row.PlayerID, &row.FullName, &row.Goals); scanErr != nil {
			return nil, fmt.Errorf("failed to scan top scorer row: %w", scanErr)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during top scorer rows iteration: %w", err)
	}
	return result, nil
}

func (r *postgresGoalRepository) TournamentsPerPlayer(ctx context.Context, limit int) ([]PlayerTournamentsRow, error) {
	query := `
		SELECT p.id, p.fullname, COUNT(DISTINCT pt.tournament_id) AS tournaments
		FROM player_teams pt
		JOIN players p ON p.id = pt.player_id
		GROUP BY p.id, p.fullname
		ORDER BY tournaments DESC, p.fullname ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments per player: %w", err)
	}
	defer rows.Close()

	result := make([]PlayerTournamentsRow, 0)
	for rows.Next() {
		var row PlayerTournamentsRow
		if scanErr := rows.Scan(&row.PlayerID, &row.FullName, &row.Tournaments); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player tournaments row: %w", scanErr)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player tournaments rows iteration: %w", err)
	}
	return result, nil
}

func (r *postgresGoalRepository) handleGoalError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "goals_match_id_fkey", "cards_match_id_fkey":
			return ErrGoalMatchInvalid
		case "goals_player_id_fkey", "cards_player_id_fkey":
			return ErrGoalPlayerInvalid
		}
	}
	return err
}
