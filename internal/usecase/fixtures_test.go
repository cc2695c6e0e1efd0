package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/domain/team"
	"github.com/vaerl/trophy-be/internal/infrastructure/repository/memory"
	"github.com/vaerl/trophy-be/internal/platform/logging"
)

const testYear = 2024

type result struct {
	gameID string
	teamID string
	data   string
}

func newYearStore(t *testing.T, teams []team.Team, games []game.Game, results []result) *memory.Store {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	for _, item := range teams {
		if err := store.Teams().Create(ctx, item); err != nil {
			t.Fatalf("create team %s: %v", item.ID, err)
		}
	}
	for _, item := range games {
		if err := store.Games().Create(ctx, item); err != nil {
			t.Fatalf("create game %s: %v", item.ID, err)
		}
	}
	if _, err := store.Outcomes().EnsureForYear(ctx, testYear); err != nil {
		t.Fatalf("ensure outcomes: %v", err)
	}
	for _, r := range results {
		data := r.data
		if err := store.Outcomes().SetData(ctx, r.gameID, r.teamID, &data); err != nil {
			t.Fatalf("set data game=%s team=%s: %v", r.gameID, r.teamID, err)
		}
	}
	return store
}

func newTestTrophyService(store *memory.Store, invalidator StandingsInvalidator) *TrophyService {
	return NewTrophyService(
		store.Teams(),
		store.Games(),
		store.Outcomes(),
		store,
		invalidator,
		nil,
		2,
		logging.NewNop(),
	)
}

func femaleTeam(id, name string) team.Team {
	return team.Team{ID: id, Name: name, Gender: team.GenderFemale, Year: testYear}
}

func maleTeam(id, name string) team.Team {
	return team.Team{ID: id, Name: name, Gender: team.GenderMale, Year: testYear}
}

func teamPoints(t *testing.T, store *memory.Store) map[string]int {
	t.Helper()

	items, err := store.Teams().ListByYear(context.Background(), testYear)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.ID] = item.Points
	}
	return out
}

type recordingInvalidator struct {
	mu    sync.Mutex
	years []int
}

func (r *recordingInvalidator) InvalidateYear(_ context.Context, year int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.years = append(r.years, year)
}

// failingTeamsTransactor fails every team point update inside the
// transaction after the outcome writes went through.
type failingTeamsTransactor struct {
	inner scoring.Transactor
	err   error
}

func (f *failingTeamsTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos scoring.Repositories) error) error {
	return f.inner.WithinTx(ctx, func(ctx context.Context, repos scoring.Repositories) error {
		repos.Teams = failingTeamRepository{Repository: repos.Teams, err: f.err}
		return fn(ctx, repos)
	})
}

type failingTeamRepository struct {
	team.Repository
	err error
}

func (r failingTeamRepository) UpdatePoints(context.Context, string, int) error {
	return r.err
}

type sequenceIDs struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceIDs) NewID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("id-%03d", s.n), nil
}
