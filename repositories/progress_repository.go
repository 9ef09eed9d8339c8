package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

var ErrProgressNotFound = errors.New("tournament progress not found")

// ProgressRepository хранит объявленные цели этапов. Состояние долговременное:
// построение сетки можно продолжить в другой сессии и с другого устройства.
type ProgressRepository interface {
	Get(ctx context.Context, tournamentID uuid.UUID) (*models.Progress, error)
	SetGroupTarget(ctx context.Context, tournamentID uuid.UUID, target int) error
	SetKnockoutTarget(ctx context.Context, tournamentID uuid.UUID, target int) error
}

type postgresProgressRepository struct {
	db *sql.DB
}

func NewPostgresProgressRepository(db *sql.DB) ProgressRepository {
	return &postgresProgressRepository{db: db}
}

func (r *postgresProgressRepository) Get(ctx context.Context, tournamentID uuid.UUID) (*models.Progress, error) {
	query := `
		SELECT tournament_id, group_target, knockout_target, updated_at
		FROM tournament_progress
		WHERE tournament_id = $1`

	p := &models.Progress{}
	err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(
		&p.TournamentID, &p.GroupTarget, &p.KnockoutTarget, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to scan progress for tournament %s: %w", tournamentID, err)
	}
	return p, nil
}

func (r *postgresProgressRepository) SetGroupTarget(ctx context.Context, tournamentID uuid.UUID, target int) error {
	query := `
		INSERT INTO tournament_progress (tournament_id, group_target, knockout_target, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (tournament_id)
		DO UPDATE SET group_target = EXCLUDED.group_target, updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query, tournamentID, target)
	return err
}

func (r *postgresProgressRepository) SetKnockoutTarget(ctx context.Context, tournamentID uuid.UUID, target int) error {
	query := `
		UPDATE tournament_progress
		SET knockout_target = $2, updated_at = NOW()
		WHERE tournament_id = $1`
	result, err := r.db.ExecContext(ctx, query, tournamentID, target)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProgressNotFound)
}
