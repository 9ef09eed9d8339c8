package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

type resultFixture struct {
	service      ResultService
	matchRepo    *fakeMatchRepo
	goalRepo     *fakeGoalRepo
	standings    *fakeStandingsRepo
	organizerID  uuid.UUID
	tournamentID uuid.UUID
}

// Фикстура покрывает проверки протокола, выполняющиеся до транзакции записи.
func newResultFixture(t *testing.T) *resultFixture {
	t.Helper()
	matchRepo := newFakeMatchRepo()
	goalRepo := newFakeGoalRepo()
	tournamentRepo := newFakeTournamentRepo()
	standings := newFakeStandingsRepo()
	groupRepo := newFakeGroupRepo()
	progressRepo := newFakeProgressRepo()

	organizerID := uuid.New()
	tournament := &models.Tournament{
		ID:          uuid.New(),
		Name:        "Spring Cup",
		OrganizerID: organizerID,
		Status:      models.StatusOngoing,
	}
	require.NoError(t, tournamentRepo.Create(context.Background(), nil, tournament))

	progress := NewProgressService(progressRepo, matchRepo, tournamentRepo, groupRepo, standings, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewResultService(&fakeTxBeginner{}, matchRepo, goalRepo, tournamentRepo, standings, nil, progress, nil, nil, logger)

	return &resultFixture{
		service:      service,
		matchRepo:    matchRepo,
		goalRepo:     goalRepo,
		standings:    standings,
		organizerID:  organizerID,
		tournamentID: tournament.ID,
	}
}

func (f *resultFixture) addMatch(t *testing.T, status models.MatchStatus) *models.Match {
	t.Helper()
	ctx := context.Background()
	matchNo, err := f.matchRepo.NextMatchNumber(ctx, nil, f.tournamentID)
	require.NoError(t, err)
	match := &models.Match{
		TournamentID: f.tournamentID,
		MatchNo:      matchNo,
		Type:         models.MatchTypeGroup,
		Team1ID:      uuid.New(),
		Team2ID:      uuid.New(),
		Status:       status,
	}
	require.NoError(t, f.matchRepo.Create(ctx, nil, match))
	return match
}

func TestRecordResultUnknownMatch(t *testing.T) {
	f := newResultFixture(t)

	_, err := f.service.RecordResult(context.Background(), f.organizerID, uuid.New(), RecordResultInput{})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordResultRequiresOrganizer(t *testing.T) {
	f := newResultFixture(t)
	match := f.addMatch(t, models.MatchStatusScheduled)

	_, err := f.service.RecordResult(context.Background(), uuid.New(), match.ID, RecordResultInput{})
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

// Протокол записывается один раз: повторная запись отклоняется.
func TestRecordResultRejectsFinishedMatch(t *testing.T) {
	f := newResultFixture(t)
	match := f.addMatch(t, models.MatchStatusFinished)

	_, err := f.service.RecordResult(context.Background(), f.organizerID, match.ID, RecordResultInput{})
	assert.ErrorIs(t, err, ErrMatchAlreadyFinished)
}

func TestRecordResultValidatesGoalPhase(t *testing.T) {
	f := newResultFixture(t)
	match := f.addMatch(t, models.MatchStatusScheduled)

	striker := uuid.New()
	f.standings.playerTeam[striker] = match.Team1ID

	input := RecordResultInput{
		Goals: []GoalEvent{{PlayerID: striker, Minute: 12, Phase: "overtime"}},
	}
	_, err := f.service.RecordResult(context.Background(), f.organizerID, match.ID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestRecordResultRejectsForeignScorer(t *testing.T) {
	f := newResultFixture(t)
	match := f.addMatch(t, models.MatchStatusScheduled)

	// Игрок заявлен за команду, не участвующую в этом матче.
	stranger := uuid.New()
	f.standings.playerTeam[stranger] = uuid.New()

	input := RecordResultInput{
		Goals: []GoalEvent{{PlayerID: stranger, Minute: 30, Phase: models.PhaseRegulation}},
	}
	_, err := f.service.RecordResult(context.Background(), f.organizerID, match.ID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Ничего не записано, матч остался незавершённым.
	goals, err := f.goalRepo.ListByMatch(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Empty(t, goals)

	stored, err := f.matchRepo.GetByID(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, stored.Status)
}

func TestRecordResultValidatesCardType(t *testing.T) {
	f := newResultFixture(t)
	match := f.addMatch(t, models.MatchStatusScheduled)

	defender := uuid.New()
	f.standings.playerTeam[defender] = match.Team2ID

	input := RecordResultInput{
		Cards: []CardEvent{{PlayerID: defender, Type: "green", Minute: 55}},
	}
	_, err := f.service.RecordResult(context.Background(), f.organizerID, match.ID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
