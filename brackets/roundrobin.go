package brackets

import (
	"github.com/google/uuid"
)

// Pairing описывает пару команд одного кругового матча.
type Pairing struct {
	Team1ID uuid.UUID `json:"team1_id"`
	Team2ID uuid.UUID `json:"team2_id"`
}

// RoundRobinPairings строит все пары однокругового турнира для команд группы:
// каждая команда играет с каждой ровно один раз.
func RoundRobinPairings(teamIDs []uuid.UUID) []Pairing {
	pairings := make([]Pairing, 0, len(teamIDs)*(len(teamIDs)-1)/2)
	for i := 0; i < len(teamIDs); i++ {
		for j := i + 1; j < len(teamIDs); j++ {
			pairings = append(pairings, Pairing{Team1ID: teamIDs[i], Team2ID: teamIDs[j]})
		}
	}
	return pairings
}

// RecommendedGroupMatchCount считает число матчей однокруговой схемы:
// сумма n*(n-1)/2 по всем группам.
func RecommendedGroupMatchCount(groupSizes []int) int {
	total := 0
	for _, n := range groupSizes {
		if n > 1 {
			total += n * (n - 1) / 2
		}
	}
	return total
}
