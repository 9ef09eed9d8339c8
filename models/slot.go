package models

import (
	"fmt"

	"github.com/google/uuid"
)

// SlotKind определяет вариант TeamSlot.
type SlotKind string

const (
	SlotConcrete      SlotKind = "concrete"
	SlotGroupPosition SlotKind = "group_position"
	SlotMatchOutcome  SlotKind = "match_outcome"
)

type MatchSide string

const (
	SideWinner MatchSide = "winner"
	SideLoser  MatchSide = "loser"
)

// TeamSlot задаёт сторону матча: конкретная команда, место в группе
// или исход матча по номеру.
type TeamSlot struct {
	Kind SlotKind `json:"kind"`

	// SlotConcrete
	TeamID *uuid.UUID `json:"team_id,omitempty"`

	// SlotGroupPosition
	Group string `json:"group,omitempty"`
	Rank  int    `json:"rank,omitempty"`

	// SlotMatchOutcome
	MatchNo int       `json:"match_no,omitempty"`
	Side    MatchSide `json:"side,omitempty"`
}

func ConcreteSlot(teamID uuid.UUID) TeamSlot {
	return TeamSlot{Kind: SlotConcrete, TeamID: &teamID}
}

func GroupPositionSlot(group string, rank int) TeamSlot {
	return TeamSlot{Kind: SlotGroupPosition, Group: group, Rank: rank}
}

func MatchOutcomeSlot(matchNo int, side MatchSide) TeamSlot {
	return TeamSlot{Kind: SlotMatchOutcome, MatchNo: matchNo, Side: side}
}

// Validate проверяет структурную корректность слота. Разрешимость
// (есть ли команда на этом месте, завершён ли матч-источник) проверяет
// SlotResolver, а не эта функция.
func (s TeamSlot) Validate() error {
	switch s.Kind {
	case SlotConcrete:
		if s.TeamID == nil || *s.TeamID == uuid.Nil {
			return fmt.Errorf("concrete slot requires team_id")
		}
	case SlotGroupPosition:
		if s.Group == "" {
			return fmt.Errorf("group position slot requires group name")
		}
		if s.Rank < 1 {
			return fmt.Errorf("group position slot requires rank >= 1, got %d", s.Rank)
		}
	case SlotMatchOutcome:
		if s.MatchNo < 1 {
			return fmt.Errorf("match outcome slot requires match_no >= 1, got %d", s.MatchNo)
		}
		if s.Side != SideWinner && s.Side != SideLoser {
			return fmt.Errorf("match outcome slot side must be %q or %q, got %q", SideWinner, SideLoser, s.Side)
		}
	default:
		return fmt.Errorf("unknown slot kind %q", s.Kind)
	}
	return nil
}
