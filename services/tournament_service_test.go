package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTournamentInput() CreateTournamentInput {
	return CreateTournamentInput{
		Name:      "City Cup",
		StartDate: "2026-06-01",
		EndDate:   "2026-06-14",
		Public:    true,
		Groups: []GroupInput{
			{Name: "A", Teams: []TeamInput{{Name: "Lions"}, {Name: "Tigers"}}},
			{Name: "B", Teams: []TeamInput{{Name: "Bears"}, {Name: "Wolves"}}},
		},
	}
}

func TestBuildTournament(t *testing.T) {
	organizerID := uuid.New()

	tournament, err := buildTournament(organizerID, validTournamentInput())
	require.NoError(t, err)
	assert.Equal(t, "City Cup", tournament.Name)
	assert.Equal(t, organizerID, tournament.OrganizerID)
	assert.True(t, tournament.Public)
	assert.Equal(t, "2026-06-01", tournament.StartDate.Format(dateLayout))
	assert.Equal(t, "2026-06-14", tournament.EndDate.Format(dateLayout))
}

func TestBuildTournamentValidations(t *testing.T) {
	organizerID := uuid.New()

	input := validTournamentInput()
	input.Name = "   "
	_, err := buildTournament(organizerID, input)
	assert.ErrorIs(t, err, ErrTournamentNameRequired)

	input = validTournamentInput()
	input.Groups = nil
	_, err = buildTournament(organizerID, input)
	assert.ErrorIs(t, err, ErrGroupsRequired)

	input = validTournamentInput()
	input.Groups[0].Teams = input.Groups[0].Teams[:1]
	_, err = buildTournament(organizerID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)

	input = validTournamentInput()
	input.Groups[1].Name = ""
	_, err = buildTournament(organizerID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestBuildTournamentDates(t *testing.T) {
	organizerID := uuid.New()

	input := validTournamentInput()
	input.StartDate = "June 1st"
	_, err := buildTournament(organizerID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)

	input = validTournamentInput()
	input.StartDate = "2026-06-14"
	input.EndDate = "2026-06-01"
	_, err = buildTournament(organizerID, input)
	assert.ErrorIs(t, err, ErrTournamentInvalidDates)

	// Однодневный турнир допустим.
	input = validTournamentInput()
	input.StartDate = "2026-06-01"
	input.EndDate = "2026-06-01"
	_, err = buildTournament(organizerID, input)
	assert.NoError(t, err)
}
