package models

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"fullname" db:"fullname"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PlayerTeam фиксирует членство игрока в команде в рамках турнира.
// Один и тот же игрок может выступать за разные команды в разных турнирах.
type PlayerTeam struct {
	TournamentID uuid.UUID `json:"tournament_id" db:"tournament_id"`
	PlayerID     uuid.UUID `json:"player_id" db:"player_id"`
	TeamID       uuid.UUID `json:"team_id" db:"team_id"`
}

type Venue struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	City     *string   `json:"city,omitempty" db:"city"`
	Capacity *int      `json:"capacity,omitempty" db:"capacity"`
}
