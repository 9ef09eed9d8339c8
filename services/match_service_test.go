package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
)

type matchFixture struct {
	service      MatchService
	matchRepo    *fakeMatchRepo
	goalRepo     *fakeGoalRepo
	standings    *fakeStandingsRepo
	groupRepo    *fakeGroupRepo
	progressRepo *fakeProgressRepo
	txs          *fakeTxBeginner
	progress     ProgressService
	organizerID  uuid.UUID
	tournamentID uuid.UUID
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()
	matchRepo := newFakeMatchRepo()
	goalRepo := newFakeGoalRepo()
	teamRepo := newFakeTeamRepo()
	venueRepo := newFakeVenueRepo()
	tournamentRepo := newFakeTournamentRepo()
	standings := newFakeStandingsRepo()
	groupRepo := newFakeGroupRepo()
	progressRepo := newFakeProgressRepo()

	organizerID := uuid.New()
	tournament := &models.Tournament{
		ID:          uuid.New(),
		Name:        "Autumn Cup",
		OrganizerID: organizerID,
		Status:      models.StatusOngoing,
	}
	require.NoError(t, tournamentRepo.Create(context.Background(), nil, tournament))

	progress := NewProgressService(progressRepo, matchRepo, tournamentRepo, groupRepo, standings, nil)
	resolver := NewSlotResolver(matchRepo, goalRepo, standings)
	txs := &fakeTxBeginner{}
	service := NewMatchService(txs, matchRepo, goalRepo, teamRepo, venueRepo, tournamentRepo, standings, groupRepo, resolver, progress, nil)

	return &matchFixture{
		service:      service,
		txs:          txs,
		matchRepo:    matchRepo,
		goalRepo:     goalRepo,
		standings:    standings,
		groupRepo:    groupRepo,
		progressRepo: progressRepo,
		progress:     progress,
		organizerID:  organizerID,
		tournamentID: tournament.ID,
	}
}

func validGroupMatchInput(team1, team2 uuid.UUID) CreateMatchInput {
	return CreateMatchInput{
		Type:      models.MatchTypeGroup,
		Slot1:     models.ConcreteSlot(team1),
		Slot2:     models.ConcreteSlot(team2),
		MatchTime: time.Now().Add(24 * time.Hour),
	}
}

func TestCreateMatchRequiresOrganizer(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.CreateMatch(context.Background(), uuid.New(), f.tournamentID, validGroupMatchInput(uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestCreateMatchUnknownTournament(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.CreateMatch(context.Background(), f.organizerID, uuid.New(), validGroupMatchInput(uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestCreateMatchValidatesTypeAndSchedule(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	input := validGroupMatchInput(uuid.New(), uuid.New())
	input.Type = "friendly"
	_, err := f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrValidationFailed)

	input = validGroupMatchInput(uuid.New(), uuid.New())
	input.MatchTime = time.Time{}
	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrScheduleRequired)
}

func TestCreateMatchValidatesVenue(t *testing.T) {
	f := newMatchFixture(t)
	unknownVenue := uuid.New()

	input := validGroupMatchInput(uuid.New(), uuid.New())
	input.VenueID = &unknownVenue
	_, err := f.service.CreateMatch(context.Background(), f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestCreateGroupMatchBeforeTargetDeclared(t *testing.T) {
	f := newMatchFixture(t)

	_, err := f.service.CreateMatch(context.Background(), f.organizerID, f.tournamentID, validGroupMatchInput(uuid.New(), uuid.New()))
	assert.ErrorIs(t, err, ErrStageViolation)
}

func TestCreateKnockoutMatchBeforeKnockoutStage(t *testing.T) {
	f := newMatchFixture(t)

	input := validGroupMatchInput(uuid.New(), uuid.New())
	input.Type = models.MatchTypeQuarterfinal
	_, err := f.service.CreateMatch(context.Background(), f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrStageViolation)
}

// Если обе стороны разрешаются в одну команду, матч отклоняется и номер
// не расходуется.
func TestCreateMatchSameTeamPersistsNothing(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	_, err := f.progress.DeclareGroupTarget(ctx, f.organizerID, f.tournamentID, 6)
	require.NoError(t, err)

	teamID := uuid.New()
	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, validGroupMatchInput(teamID, teamID))
	assert.ErrorIs(t, err, ErrSameTeam)

	matches, err := f.matchRepo.ListByTournament(ctx, f.tournamentID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, f.matchRepo.counters[f.tournamentID])
}

// Полный путь создания матча плей-офф: слот "исход матча" не разрешается,
// пока матч-источник не доигран, а после записи его результата тот же
// запрос проходит и получает следующий номер.
func TestCreateMatchChainedSlotSucceedsAfterSourceFinishes(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	// Групповой этап: один сыгранный матч, таблица закрыта.
	_, err := f.progress.DeclareGroupTarget(ctx, f.organizerID, f.tournamentID, 1)
	require.NoError(t, err)

	topTeam := uuid.New()
	groupNo, err := f.matchRepo.NextMatchNumber(ctx, nil, f.tournamentID)
	require.NoError(t, err)
	require.NoError(t, f.matchRepo.Create(ctx, nil, &models.Match{
		TournamentID: f.tournamentID,
		MatchNo:      groupNo,
		Type:         models.MatchTypeGroup,
		Team1ID:      topTeam,
		Team2ID:      uuid.New(),
		Status:       models.MatchStatusFinished,
	}))
	f.standings.complete = true
	f.standings.standings["A"] = []models.StandingsRow{
		{TournamentID: f.tournamentID, Group: "A", TeamID: topTeam, Rank: 1},
	}

	_, err = f.progress.DeclareKnockoutTarget(ctx, f.organizerID, f.tournamentID, 4)
	require.NoError(t, err)

	// Матч-источник плей-офф, пока не доигран.
	sourceNo, err := f.matchRepo.NextMatchNumber(ctx, nil, f.tournamentID)
	require.NoError(t, err)
	source := &models.Match{
		TournamentID: f.tournamentID,
		MatchNo:      sourceNo,
		Type:         models.MatchTypeQuarterfinal,
		Team1ID:      uuid.New(),
		Team2ID:      uuid.New(),
		Status:       models.MatchStatusScheduled,
	}
	require.NoError(t, f.matchRepo.Create(ctx, nil, source))

	input := CreateMatchInput{
		Type:      models.MatchTypeSemifinal,
		Slot1:     models.GroupPositionSlot("A", 1),
		Slot2:     models.MatchOutcomeSlot(sourceNo, models.SideLoser),
		MatchTime: time.Now().Add(24 * time.Hour),
	}
	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrUnresolvable)
	assert.Zero(t, f.txs.commits)

	// Источник завершается со счётом 2:0.
	scorer := uuid.New()
	f.standings.playerTeam[scorer] = source.Team1ID
	require.NoError(t, f.goalRepo.CreateGoals(ctx, nil, []models.Goal{
		{MatchID: source.ID, PlayerID: scorer, Minute: 10, Phase: models.PhaseRegulation},
		{MatchID: source.ID, PlayerID: scorer, Minute: 40, Phase: models.PhaseRegulation},
	}))
	require.NoError(t, f.matchRepo.MarkFinished(ctx, nil, source.ID))

	match, err := f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	require.NoError(t, err)
	assert.Equal(t, sourceNo+1, match.MatchNo)
	assert.Equal(t, topTeam, match.Team1ID)
	assert.Equal(t, source.Team2ID, match.Team2ID)
	assert.Equal(t, models.MatchStatusScheduled, match.Status)
	assert.Equal(t, 1, f.txs.commits)

	stored, err := f.matchRepo.GetByNumber(ctx, f.tournamentID, match.MatchNo)
	require.NoError(t, err)
	assert.Equal(t, match.ID, stored.ID)
}

// Номера матчей уникальны и без дыр даже при параллельной выдаче.
func TestNextMatchNumberConcurrent(t *testing.T) {
	repo := newFakeMatchRepo()
	tournamentID := uuid.New()
	ctx := context.Background()

	const callers = 32
	numbers := make([]int, callers)
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			n, err := repo.NextMatchNumber(ctx, nil, tournamentID)
			if err != nil {
				return err
			}
			numbers[i] = n
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int]bool, callers)
	for _, n := range numbers {
		assert.False(t, seen[n], "number %d issued twice", n)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, callers)
		seen[n] = true
	}
}

// Групповой матч между командами разных групп структурно невалиден.
func TestCreateGroupMatchAcrossGroups(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	_, err := f.progress.DeclareGroupTarget(ctx, f.organizerID, f.tournamentID, 6)
	require.NoError(t, err)

	team1, team2 := uuid.New(), uuid.New()
	require.NoError(t, f.groupRepo.Create(ctx, nil, &models.Group{TournamentID: f.tournamentID, Name: "A"}))
	require.NoError(t, f.groupRepo.Create(ctx, nil, &models.Group{TournamentID: f.tournamentID, Name: "B"}))
	require.NoError(t, f.groupRepo.AddTeam(ctx, nil, f.tournamentID, "A", team1))
	require.NoError(t, f.groupRepo.AddTeam(ctx, nil, f.tournamentID, "B", team2))

	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, validGroupMatchInput(team1, team2))
	assert.ErrorIs(t, err, ErrInvalidSlot)

	// Слоты двух разных групп отклоняются ещё до разрешения.
	input := CreateMatchInput{
		Type:      models.MatchTypeGroup,
		Slot1:     models.GroupPositionSlot("A", 1),
		Slot2:     models.GroupPositionSlot("B", 1),
		MatchTime: time.Now().Add(24 * time.Hour),
	}
	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestCreateGroupMatchRejectsOutcomeSlot(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	_, err := f.progress.DeclareGroupTarget(ctx, f.organizerID, f.tournamentID, 6)
	require.NoError(t, err)

	input := CreateMatchInput{
		Type:      models.MatchTypeGroup,
		Slot1:     models.ConcreteSlot(uuid.New()),
		Slot2:     models.MatchOutcomeSlot(1, models.SideWinner),
		MatchTime: time.Now().Add(24 * time.Hour),
	}
	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

// Слот "второе место группы" не разрешается до закрытия группового этапа,
// и создание матча плей-офф отклоняется целиком.
func TestCreateMatchUnresolvableSlotFailsAtomically(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()

	// Переводим турнир в этап плей-офф без сыгранных групповых матчей
	// напрямую через репозиторий прогресса.
	require.NoError(t, f.progressRepo.SetGroupTarget(ctx, f.tournamentID, 1))

	matchNo, err := f.matchRepo.NextMatchNumber(ctx, nil, f.tournamentID)
	require.NoError(t, err)
	require.NoError(t, f.matchRepo.Create(ctx, nil, &models.Match{
		TournamentID: f.tournamentID,
		MatchNo:      matchNo,
		Type:         models.MatchTypeGroup,
		Team1ID:      uuid.New(),
		Team2ID:      uuid.New(),
		Status:       models.MatchStatusFinished,
	}))
	f.standings.complete = true
	require.NoError(t, f.progressRepo.SetKnockoutTarget(ctx, f.tournamentID, 4))

	input := CreateMatchInput{
		Type:      models.MatchTypeSemifinal,
		Slot1:     models.GroupPositionSlot("A", 1),
		Slot2:     models.MatchOutcomeSlot(99, models.SideWinner),
		MatchTime: time.Now().Add(24 * time.Hour),
	}
	_, err = f.service.CreateMatch(ctx, f.organizerID, f.tournamentID, input)
	assert.ErrorIs(t, err, ErrUnresolvable)

	matches, err := f.matchRepo.ListByTournament(ctx, f.tournamentID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, matches, 1) // только исходный групповой матч
}
