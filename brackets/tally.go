package brackets

import (
	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

// Score хранит счёт матча по фазам для пары (team1, team2).
type Score struct {
	Team1     int `json:"team1"`
	Team2     int `json:"team2"`
	Tiebreak1 int `json:"tiebreak1"`
	Tiebreak2 int `json:"tiebreak2"`
}

// Tally сворачивает список голевых событий матча в счёт. Команда автора гола
// определяется через playerTeam (игрок -> команда в рамках турнира). События,
// чей автор не относится ни к team1, ни к team2, игнорируются: это признак
// устаревших данных, а не фатальная ошибка. Результат не зависит от порядка
// событий и идемпотентен для одного и того же набора.
func Tally(goals []models.Goal, team1, team2 uuid.UUID, playerTeam map[uuid.UUID]uuid.UUID) Score {
	var score Score
	for _, g := range goals {
		teamID, ok := playerTeam[g.PlayerID]
		if !ok {
			continue
		}
		switch g.Phase {
		case models.PhaseRegulation:
			if teamID == team1 {
				score.Team1++
			} else if teamID == team2 {
				score.Team2++
			}
		case models.PhaseTiebreak:
			if teamID == team1 {
				score.Tiebreak1++
			} else if teamID == team2 {
				score.Tiebreak2++
			}
		}
	}
	return score
}

// Winner применяет правило "основное время, затем тай-брейк" и возвращает
// победителя пары. decisive == false означает ничью после тай-брейка;
// в этом случае победитель не назначается ни одной из сторон.
func (s Score) Winner(team1, team2 uuid.UUID) (winner uuid.UUID, decisive bool) {
	switch {
	case s.Team1 > s.Team2:
		return team1, true
	case s.Team2 > s.Team1:
		return team2, true
	case s.Tiebreak1 > s.Tiebreak2:
		return team1, true
	case s.Tiebreak2 > s.Tiebreak1:
		return team2, true
	}
	return uuid.Nil, false
}

// Loser возвращает проигравшего при том же сравнении, что и Winner.
func (s Score) Loser(team1, team2 uuid.UUID) (loser uuid.UUID, decisive bool) {
	winner, decisive := s.Winner(team1, team2)
	if !decisive {
		return uuid.Nil, false
	}
	if winner == team1 {
		return team2, true
	}
	return team1, true
}

// HasTiebreak сообщает, была ли серия тай-брейка.
func (s Score) HasTiebreak() bool {
	return s.Tiebreak1 > 0 || s.Tiebreak2 > 0
}
