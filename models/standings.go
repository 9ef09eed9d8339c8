package models

import (
	"time"

	"github.com/google/uuid"
)

// StandingsRow хранит строку итоговой таблицы группы.
// Rank = 1 для первого места. Движок сетки использует только Group/TeamID/Rank,
// остальные колонки нужны для отображения.
type StandingsRow struct {
	TournamentID uuid.UUID `json:"tournament_id" db:"tournament_id"`
	Group        string    `json:"group" db:"group_name"`
	TeamID       uuid.UUID `json:"team_id" db:"team_id"`
	Rank         int       `json:"rank" db:"rank"`
	Played       int       `json:"played" db:"played"`
	Wins         int       `json:"wins" db:"wins"`
	Draws        int       `json:"draws" db:"draws"`
	Losses       int       `json:"losses" db:"losses"`
	GoalsFor     int       `json:"goals_for" db:"goals_for"`
	GoalsAgainst int       `json:"goals_against" db:"goals_against"`
	GoalDiff     int       `json:"goal_diff" db:"goal_diff"`
	Points       int       `json:"points" db:"points"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// Stage обозначает этап построения сетки турнира.
type Stage string

const (
	StageSetup           Stage = "setup"
	StageGroupMatches    Stage = "group_matches"
	StageKnockoutSetup   Stage = "knockout_setup"
	StageKnockoutMatches Stage = "knockout_matches"
	StageComplete        Stage = "complete"
)

// Progress хранит объявленные цели этапов. Переживает рестарты процесса.
type Progress struct {
	TournamentID   uuid.UUID `json:"tournament_id" db:"tournament_id"`
	GroupTarget    int       `json:"group_target" db:"group_target"`
	KnockoutTarget int       `json:"knockout_target" db:"knockout_target"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ProgressSnapshot отражает вычисленное состояние прогресса.
type ProgressSnapshot struct {
	Stage              Stage `json:"stage"`
	GroupTarget        int   `json:"group_target"`
	GroupCreated       int   `json:"group_created"`
	KnockoutTarget     int   `json:"knockout_target"`
	KnockoutCreated    int   `json:"knockout_created"`
	GroupStageComplete bool  `json:"group_stage_complete"`
	Completed          bool  `json:"completed"`
}
