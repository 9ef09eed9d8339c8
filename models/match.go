package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusFinished  MatchStatus = "finished"
)

type MatchType string

const (
	MatchTypeGroup        MatchType = "group"
	MatchTypeQuarterfinal MatchType = "quarterfinal"
	MatchTypeSemifinal    MatchType = "semifinal"
	MatchTypeFinal        MatchType = "final"
	MatchTypeThirdplace   MatchType = "thirdplace"
)

func (t MatchType) Valid() bool {
	switch t {
	case MatchTypeGroup, MatchTypeQuarterfinal, MatchTypeSemifinal, MatchTypeFinal, MatchTypeThirdplace:
		return true
	}
	return false
}

func (t MatchType) IsKnockout() bool {
	return t.Valid() && t != MatchTypeGroup
}

// Match хранит матч турнира. MatchNo уникален в рамках турнира.
type Match struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	TournamentID uuid.UUID   `json:"tournament_id" db:"tournament_id"`
	MatchNo      int         `json:"match_no" db:"match_no"`
	Type         MatchType   `json:"match_type" db:"match_type"`
	Team1ID      uuid.UUID   `json:"team1_id" db:"team1_id"`
	Team2ID      uuid.UUID   `json:"team2_id" db:"team2_id"`
	MatchTime    time.Time   `json:"match_time" db:"match_time"`
	VenueID      *uuid.UUID  `json:"venue_id,omitempty" db:"venue_id"`
	Status       MatchStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Team1 *Team  `json:"team1,omitempty" db:"-"`
	Team2 *Team  `json:"team2,omitempty" db:"-"`
	Venue *Venue `json:"venue,omitempty" db:"-"`
}
