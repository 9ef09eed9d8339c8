package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNumberConflict    = errors.New("match number already assigned in this tournament")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
	ErrMatchVenueInvalid      = errors.New("match venue conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	GetByNumber(ctx context.Context, tournamentID uuid.UUID, matchNo int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID uuid.UUID, typeFilter *models.MatchType, statusFilter *models.MatchStatus) ([]*models.Match, error)
	NextUnfinished(ctx context.Context, tournamentID uuid.UUID) (*models.Match, error)
	// CountByStage возвращает число созданных матчей группового и плей-офф
	// этапов и число незавершённых матчей турнира.
	CountByStage(ctx context.Context, tournamentID uuid.UUID) (groupCount, knockoutCount, unfinishedCount int, err error)
	MarkFinished(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
	// NextMatchNumber атомарно выдаёт следующий номер матча турнира.
	// Номера строго возрастают и не переиспользуются даже после удаления матча.
	NextMatchNumber(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	query := `
		INSERT INTO matches
			(id, tournament_id, match_no, match_type, team1_id, team2_id, match_time, venue_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		match.ID,
		match.TournamentID,
		match.MatchNo,
		match.Type,
		match.Team1ID,
		match.Team2ID,
		match.MatchTime,
		match.VenueID,
		match.Status,
	).Scan(&match.CreatedAt)

	return r.handleMatchError(err)
}

const matchColumns = `id, tournament_id, match_no, match_type, team1_id, team2_id, match_time, venue_id, status, created_at`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	var m models.Match
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.MatchNo, &m.Type, &m.Team1ID, &m.Team2ID,
		&m.MatchTime, &m.VenueID, &m.Status, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetByNumber(ctx context.Context, tournamentID uuid.UUID, matchNo int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 AND match_no = $2`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, tournamentID, matchNo))
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID uuid.UUID, typeFilter *models.MatchType, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if typeFilter != nil {
		queryBuilder.WriteString(" AND match_type = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *typeFilter)
		placeholderIndex++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
	}

	queryBuilder.WriteString(" ORDER BY match_no ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) NextUnfinished(ctx context.Context, tournamentID uuid.UUID) (*models.Match, error) {
	query := `
		SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1 AND status <> $2
		ORDER BY match_no ASC
		LIMIT 1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, tournamentID, models.MatchStatusFinished))
}

func (r *postgresMatchRepository) CountByStage(ctx context.Context, tournamentID uuid.UUID) (int, int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE match_type = $2),
			COUNT(*) FILTER (WHERE match_type <> $2),
			COUNT(*) FILTER (WHERE status <> $3)
		FROM matches
		WHERE tournament_id = $1`

	var groupCount, knockoutCount, unfinishedCount int
	err := r.db.QueryRowContext(ctx, query, tournamentID, models.MatchTypeGroup, models.MatchStatusFinished).
		Scan(&groupCount, &knockoutCount, &unfinishedCount)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count matches for tournament %s: %w", tournamentID, err)
	}
	return groupCount, knockoutCount, unfinishedCount, nil
}

func (r *postgresMatchRepository) MarkFinished(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	executor := r.getExecutor(exec)
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, models.MatchStatusFinished, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// NextMatchNumber атомарно увеличивает счётчик турнира. Upsert
// сериализует конкурентные вызовы на уровне строки.
func (r *postgresMatchRepository) NextMatchNumber(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) (int, error) {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_counters (tournament_id, last_no)
		VALUES ($1, 1)
		ON CONFLICT (tournament_id)
		DO UPDATE SET last_no = match_counters.last_no + 1
		RETURNING last_no`

	var matchNo int
	if err := executor.QueryRowContext(ctx, query, tournamentID).Scan(&matchNo); err != nil {
		return 0, fmt.Errorf("failed to allocate match number for tournament %s: %w", tournamentID, err)
	}
	return matchNo, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "matches_tournament_match_no_key":
			return ErrMatchNumberConflict
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_team1_id_fkey", "matches_team2_id_fkey":
			return ErrMatchTeamInvalid
		case "matches_venue_id_fkey":
			return ErrMatchVenueInvalid
		}
	}
	return err
}
