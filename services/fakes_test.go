package services

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/dipta11/Football-Tournamnet-Maker/models"
	"github.com/dipta11/Football-Tournamnet-Maker/repositories"
)

// In-memory реализации репозиториев для тестов сервисного слоя.
// Поведение повторяет контракт Postgres-реализаций, включая ошибки
// "не найдено" и выдачу номеров матчей.

// fakeTx не исполняет запросов: фейковые репозитории игнорируют executor.
type fakeTx struct {
	commits   *int
	rollbacks *int
}

func (t fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t fakeTx) Commit() error {
	if t.commits != nil {
		*t.commits++
	}
	return nil
}

func (t fakeTx) Rollback() error {
	if t.rollbacks != nil {
		*t.rollbacks++
	}
	return nil
}

type fakeTxBeginner struct {
	commits   int
	rollbacks int
}

func (b *fakeTxBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (Tx, error) {
	return fakeTx{commits: &b.commits, rollbacks: &b.rollbacks}, nil
}

type fakeMatchRepo struct {
	mu       sync.Mutex
	matches  map[uuid.UUID]*models.Match
	counters map[uuid.UUID]int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		matches:  make(map[uuid.UUID]*models.Match),
		counters: make(map[uuid.UUID]int),
	}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}
	for _, m := range r.matches {
		if m.TournamentID == match.TournamentID && m.MatchNo == match.MatchNo {
			return repositories.ErrMatchNumberConflict
		}
	}
	clone := *match
	r.matches[match.ID] = &clone
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	clone := *match
	return &clone, nil
}

func (r *fakeMatchRepo) GetByNumber(ctx context.Context, tournamentID uuid.UUID, matchNo int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.MatchNo == matchNo {
			clone := *m
			return &clone, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID uuid.UUID, typeFilter *models.MatchType, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Match, 0)
	for no := 1; no <= r.counters[tournamentID]; no++ {
		for _, m := range r.matches {
			if m.TournamentID != tournamentID || m.MatchNo != no {
				continue
			}
			if typeFilter != nil && m.Type != *typeFilter {
				continue
			}
			if statusFilter != nil && m.Status != *statusFilter {
				continue
			}
			clone := *m
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeMatchRepo) NextUnfinished(ctx context.Context, tournamentID uuid.UUID) (*models.Match, error) {
	scheduled := models.MatchStatusScheduled
	matches, _ := r.ListByTournament(ctx, tournamentID, nil, &scheduled)
	if len(matches) == 0 {
		return nil, repositories.ErrMatchNotFound
	}
	return matches[0], nil
}

func (r *fakeMatchRepo) CountByStage(ctx context.Context, tournamentID uuid.UUID) (int, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var groupCount, knockoutCount, unfinished int
	for _, m := range r.matches {
		if m.TournamentID != tournamentID {
			continue
		}
		if m.Type == models.MatchTypeGroup {
			groupCount++
		} else {
			knockoutCount++
		}
		if m.Status != models.MatchStatusFinished {
			unfinished++
		}
	}
	return groupCount, knockoutCount, unfinished, nil
}

func (r *fakeMatchRepo) MarkFinished(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Status = models.MatchStatusFinished
	return nil
}

func (r *fakeMatchRepo) NextMatchNumber(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[tournamentID]++
	return r.counters[tournamentID], nil
}

type fakeGoalRepo struct {
	mu    sync.Mutex
	goals map[uuid.UUID][]models.Goal
	cards map[uuid.UUID][]models.Card
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{
		goals: make(map[uuid.UUID][]models.Goal),
		cards: make(map[uuid.UUID][]models.Card),
	}
}

func (r *fakeGoalRepo) CreateGoals(ctx context.Context, exec repositories.SQLExecutor, goals []models.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range goals {
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		r.goals[g.MatchID] = append(r.goals[g.MatchID], g)
	}
	return nil
}

func (r *fakeGoalRepo) CreateCards(ctx context.Context, exec repositories.SQLExecutor, cards []models.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cards {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.cards[c.MatchID] = append(r.cards[c.MatchID], c)
	}
	return nil
}

func (r *fakeGoalRepo) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Goal(nil), r.goals[matchID]...), nil
}

func (r *fakeGoalRepo) ListCardsByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Card(nil), r.cards[matchID]...), nil
}

func (r *fakeGoalRepo) TopScorers(ctx context.Context, limit int) ([]repositories.TopScorerRow, error) {
	return nil, nil
}

func (r *fakeGoalRepo) TournamentsPerPlayer(ctx context.Context, limit int) ([]repositories.PlayerTournamentsRow, error) {
	return nil, nil
}

type fakeStandingsRepo struct {
	mu         sync.Mutex
	standings  map[string][]models.StandingsRow
	complete   bool
	playerTeam map[uuid.UUID]uuid.UUID
}

func newFakeStandingsRepo() *fakeStandingsRepo {
	return &fakeStandingsRepo{
		standings:  make(map[string][]models.StandingsRow),
		playerTeam: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *fakeStandingsRepo) GetStandings(ctx context.Context, tournamentID uuid.UUID, group string) ([]models.StandingsRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StandingsRow(nil), r.standings[group]...), nil
}

func (r *fakeStandingsRepo) IsGroupStageComplete(ctx context.Context, tournamentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.complete, nil
}

func (r *fakeStandingsRepo) PlayerTeamMap(ctx context.Context, tournamentID uuid.UUID, playerIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uuid.UUID]uuid.UUID, len(playerIDs))
	for _, id := range playerIDs {
		if teamID, ok := r.playerTeam[id]; ok {
			result[id] = teamID
		}
	}
	return result, nil
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[uuid.UUID]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[uuid.UUID]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tournament.ID == uuid.Nil {
		tournament.ID = uuid.New()
	}
	clone := *tournament
	r.tournaments[tournament.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *tournament
	return &clone, nil
}

func (r *fakeTournamentRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.OrganizerID == organizerID {
			clone := *t
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeTournamentRepo) ListPublic(ctx context.Context) ([]*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Tournament, 0)
	for _, t := range r.tournaments {
		if t.Public {
			clone := *t
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id uuid.UUID, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.Status = status
	return nil
}

func (r *fakeTournamentRepo) UpdateLogoKey(ctx context.Context, id uuid.UUID, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tournament, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.LogoKey = logoKey
	return nil
}

type fakeTeamRepo struct {
	mu    sync.Mutex
	teams map[uuid.UUID]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[uuid.UUID]*models.Team)}
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	clone := *team
	r.teams[team.ID] = &clone
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	clone := *team
	return &clone, nil
}

func (r *fakeTeamRepo) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		clone := *team
		result = append(result, &clone)
	}
	return result, nil
}

func (r *fakeTeamRepo) AddToTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID, teamID uuid.UUID) error {
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(ctx context.Context, id uuid.UUID, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

type fakeGroupRepo struct {
	mu     sync.Mutex
	groups map[string][]uuid.UUID
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string][]uuid.UUID)}
}

func (r *fakeGroupRepo) Create(ctx context.Context, exec repositories.SQLExecutor, group *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.Name]; ok {
		return repositories.ErrGroupNameConflict
	}
	r.groups[group.Name] = nil
	return nil
}

func (r *fakeGroupRepo) AddTeam(ctx context.Context, exec repositories.SQLExecutor, tournamentID uuid.UUID, groupName string, teamID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[groupName]; !ok {
		return repositories.ErrGroupNotFound
	}
	r.groups[groupName] = append(r.groups[groupName], teamID)
	return nil
}

func (r *fakeGroupRepo) ListByTournament(ctx context.Context, tournamentID uuid.UUID) ([]*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Group, 0, len(r.groups))
	for name := range r.groups {
		result = append(result, &models.Group{TournamentID: tournamentID, Name: name})
	}
	return result, nil
}

func (r *fakeGroupRepo) ListGroupTeamIDs(ctx context.Context, tournamentID uuid.UUID, groupName string) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams, ok := r.groups[groupName]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	return append([]uuid.UUID(nil), teams...), nil
}

func (r *fakeGroupRepo) GroupOfTeams(ctx context.Context, tournamentID uuid.UUID, teamIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uuid.UUID]string)
	for name, teams := range r.groups {
		for _, teamID := range teams {
			result[teamID] = name
		}
	}
	return result, nil
}

type fakeVenueRepo struct {
	mu     sync.Mutex
	venues map[uuid.UUID]*models.Venue
}

func newFakeVenueRepo() *fakeVenueRepo {
	return &fakeVenueRepo{venues: make(map[uuid.UUID]*models.Venue)}
}

func (r *fakeVenueRepo) Create(ctx context.Context, venue *models.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if venue.ID == uuid.Nil {
		venue.ID = uuid.New()
	}
	clone := *venue
	r.venues[venue.ID] = &clone
	return nil
}

func (r *fakeVenueRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	venue, ok := r.venues[id]
	if !ok {
		return nil, repositories.ErrVenueNotFound
	}
	clone := *venue
	return &clone, nil
}

func (r *fakeVenueRepo) List(ctx context.Context) ([]*models.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*models.Venue, 0, len(r.venues))
	for _, venue := range r.venues {
		clone := *venue
		result = append(result, &clone)
	}
	return result, nil
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	progress map[uuid.UUID]*models.Progress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{progress: make(map[uuid.UUID]*models.Progress)}
}

func (r *fakeProgressRepo) Get(ctx context.Context, tournamentID uuid.UUID) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.progress[tournamentID]
	if !ok {
		return nil, repositories.ErrProgressNotFound
	}
	clone := *progress
	return &clone, nil
}

func (r *fakeProgressRepo) SetGroupTarget(ctx context.Context, tournamentID uuid.UUID, target int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.progress[tournamentID]
	if !ok {
		progress = &models.Progress{TournamentID: tournamentID}
		r.progress[tournamentID] = progress
	}
	progress.GroupTarget = target
	return nil
}

func (r *fakeProgressRepo) SetKnockoutTarget(ctx context.Context, tournamentID uuid.UUID, target int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	progress, ok := r.progress[tournamentID]
	if !ok {
		return repositories.ErrProgressNotFound
	}
	progress.KnockoutTarget = target
	return nil
}
