package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusUpcoming TournamentStatus = "upcoming"
	StatusOngoing  TournamentStatus = "ongoing"
	StatusFinished TournamentStatus = "finished"
)

// Tournament представляет турнир.
type Tournament struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	OrganizerID uuid.UUID        `json:"organizer_id" db:"organizer_id"`
	StartDate   time.Time        `json:"start_date" db:"start_date"`
	EndDate     time.Time        `json:"end_date" db:"end_date"`
	Public      bool             `json:"public" db:"public"`
	Status      TournamentStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	LogoKey     *string          `json:"-" db:"logo_key"`
	LogoURL     *string          `json:"logo_url,omitempty" db:"-"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Groups  []Group `json:"groups,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
