package models

import (
	"github.com/google/uuid"
)

// GoalPhase различает основное время и серию тай-брейка.
type GoalPhase string

const (
	PhaseRegulation GoalPhase = "regulation"
	PhaseTiebreak   GoalPhase = "tiebreak"
)

func (p GoalPhase) Valid() bool {
	return p == PhaseRegulation || p == PhaseTiebreak
}

// Goal фиксирует взятие ворот.
type Goal struct {
	ID       uuid.UUID `json:"id" db:"id"`
	MatchID  uuid.UUID `json:"match_id" db:"match_id"`
	PlayerID uuid.UUID `json:"player_id" db:"player_id"`
	Minute   int       `json:"minute" db:"minute"`
	Phase    GoalPhase `json:"phase" db:"phase"`
}

type CardType string

const (
	CardYellow CardType = "yellow"
	CardRed    CardType = "red"
)

func (c CardType) Valid() bool {
	return c == CardYellow || c == CardRed
}

// Card фиксируется в протоколе, но на счёт и определение чемпиона не влияет.
type Card struct {
	ID       uuid.UUID `json:"id" db:"id"`
	MatchID  uuid.UUID `json:"match_id" db:"match_id"`
	PlayerID uuid.UUID `json:"player_id" db:"player_id"`
	Type     CardType  `json:"card_type" db:"card_type"`
	Minute   int       `json:"minute" db:"minute"`
}
