package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/domain/team"
	"github.com/vaerl/trophy-be/internal/infrastructure/repository/memory"
	gamemock "github.com/vaerl/trophy-be/internal/mocks/domain/game"
	outcomemock "github.com/vaerl/trophy-be/internal/mocks/domain/outcome"
	teammock "github.com/vaerl/trophy-be/internal/mocks/domain/team"
	"github.com/vaerl/trophy-be/internal/platform/logging"
)

func completedYear(t *testing.T) *memory.Store {
	t.Helper()

	teams := []team.Team{
		femaleTeam("t-a", "A"),
		femaleTeam("t-b", "B"),
		femaleTeam("t-c", "C"),
		femaleTeam("t-d", "D"),
		maleTeam("t-m1", "M1"),
		maleTeam("t-m2", "M2"),
	}
	games := []game.Game{
		{ID: "g1", Name: "Darts", Kind: game.KindPoints, Year: testYear},
		{ID: "g2", Name: "Sprint", Kind: game.KindTime, Year: testYear},
	}
	results := []result{
		{"g1", "t-a", "1"}, {"g1", "t-b", "10"}, {"g1", "t-c", "100"}, {"g1", "t-d", "5"},
		{"g1", "t-m1", "3"}, {"g1", "t-m2", "3"},
		{"g2", "t-a", "02:00"}, {"g2", "t-b", "01:00"}, {"g2", "t-c", "00:40"}, {"g2", "t-d", "01:20"},
		{"g2", "t-m1", "00:50"}, {"g2", "t-m2", "01:05"},
	}
	return newYearStore(t, teams, games, results)
}

func TestTrophyService_EvaluateTrophy_AccumulatesAcrossGames(t *testing.T) {
	t.Parallel()

	store := completedYear(t)
	invalidator := &recordingInvalidator{}
	service := newTestTrophyService(store, invalidator)
	ctx := context.Background()

	got, err := service.EvaluateTrophy(ctx, testYear)
	if err != nil {
		t.Fatalf("evaluate trophy: %v", err)
	}
	if got.Games != 2 || got.Outcomes != 12 || got.Teams != 6 {
		t.Fatalf("unexpected evaluation result: %+v", got)
	}

	want := map[string]int{
		"t-a":  47 + 47,
		"t-b":  49 + 49,
		"t-c":  50 + 50,
		"t-d":  48 + 48,
		"t-m1": 50 + 50,
		"t-m2": 50 + 49,
	}
	points := teamPoints(t, store)
	for id, w := range want {
		if points[id] != w {
			t.Fatalf("unexpected points for %s: got=%d want=%d", id, points[id], w)
		}
	}

	item, _, err := store.Outcomes().Get(ctx, "g1", "t-m2")
	if err != nil {
		t.Fatalf("get outcome: %v", err)
	}
	if item.PointValue == nil || *item.PointValue != 50 {
		t.Fatalf("tied male result should share the top value, got %+v", item.PointValue)
	}

	if len(invalidator.years) != 1 || invalidator.years[0] != testYear {
		t.Fatalf("unexpected invalidations: %+v", invalidator.years)
	}
}

func TestTrophyService_EvaluateTrophy_SecondCallIsRejected(t *testing.T) {
	t.Parallel()

	store := completedYear(t)
	service := newTestTrophyService(store, nil)
	ctx := context.Background()

	if _, err := service.EvaluateTrophy(ctx, testYear); err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	before := teamPoints(t, store)

	_, err := service.EvaluateTrophy(ctx, testYear)
	if !errors.Is(err, scoring.ErrAlreadyEvaluated) {
		t.Fatalf("expected ErrAlreadyEvaluated, got %v", err)
	}

	after := teamPoints(t, store)
	for id, w := range before {
		if after[id] != w {
			t.Fatalf("totals changed on rejected evaluation for %s: got=%d want=%d", id, after[id], w)
		}
	}

	evaluated, err := service.IsEvaluated(ctx, testYear)
	if err != nil || !evaluated {
		t.Fatalf("expected evaluated year: evaluated=%v err=%v", evaluated, err)
	}
}

func TestTrophyService_EvaluateTrophy_RejectsPendingYear(t *testing.T) {
	t.Parallel()

	store := newYearStore(t,
		[]team.Team{femaleTeam("t1", "A"), femaleTeam("t2", "B")},
		[]game.Game{{ID: "g1", Name: "Darts", Kind: game.KindPoints, Year: testYear}},
		[]result{{"g1", "t1", "4"}},
	)
	service := newTestTrophyService(store, nil)
	ctx := context.Background()

	_, err := service.EvaluateTrophy(ctx, testYear)
	if !errors.Is(err, scoring.ErrEarlyEvaluation) {
		t.Fatalf("expected ErrEarlyEvaluation, got %v", err)
	}

	done, err := service.IsDone(ctx, testYear)
	if err != nil || done {
		t.Fatalf("expected pending year: done=%v err=%v", done, err)
	}
	counts, _ := store.Outcomes().CountByYear(ctx, testYear)
	if counts.Scored != 0 {
		t.Fatalf("pending year must not be scored: %+v", counts)
	}
}

func TestTrophyService_EvaluateTrophy_RejectsEmptyYear(t *testing.T) {
	t.Parallel()

	service := newTestTrophyService(memory.NewStore(), nil)

	_, err := service.EvaluateTrophy(context.Background(), testYear)
	if !errors.Is(err, scoring.ErrEarlyEvaluation) {
		t.Fatalf("expected ErrEarlyEvaluation for empty year, got %v", err)
	}

	_, err = service.EvaluateTrophy(context.Background(), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for year 0, got %v", err)
	}
}

func TestTrophyService_EvaluateTrophy_RollsBackOnPersistFailure(t *testing.T) {
	t.Parallel()

	store := completedYear(t)
	errDisk := errors.New("disk full")
	service := NewTrophyService(
		store.Teams(),
		store.Games(),
		store.Outcomes(),
		&failingTeamsTransactor{inner: store, err: errDisk},
		nil,
		nil,
		2,
		logging.NewNop(),
	)
	ctx := context.Background()

	_, err := service.EvaluateTrophy(ctx, testYear)
	if !errors.Is(err, errDisk) {
		t.Fatalf("expected persist error, got %v", err)
	}

	counts, err := store.Outcomes().CountByYear(ctx, testYear)
	if err != nil {
		t.Fatalf("count outcomes: %v", err)
	}
	if counts.Scored != 0 {
		t.Fatalf("partial evaluation leaked: %+v", counts)
	}
	for id, points := range teamPoints(t, store) {
		if points != 0 {
			t.Fatalf("partial totals leaked for %s: %d", id, points)
		}
	}

	// A retry after the failure goes through.
	if _, err := newTestTrophyService(store, nil).EvaluateTrophy(ctx, testYear); err != nil {
		t.Fatalf("retry evaluate: %v", err)
	}
}

func TestTrophyService_EvaluateTrophy_MalformedResult(t *testing.T) {
	t.Parallel()

	store := newYearStore(t,
		[]team.Team{femaleTeam("t1", "A"), femaleTeam("t2", "B")},
		[]game.Game{{ID: "g1", Name: "Sprint", Kind: game.KindTime, Year: testYear}},
		[]result{{"g1", "t1", "00:40"}, {"g1", "t2", "forty"}},
	)
	service := newTestTrophyService(store, nil)

	_, err := service.EvaluateTrophy(context.Background(), testYear)
	if !errors.Is(err, scoring.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if points := teamPoints(t, store); points["t1"] != 0 {
		t.Fatalf("malformed year must not be scored: %+v", points)
	}
}

func TestTrophyService_EvaluateTrophy_ConcurrentCallsScoreOnce(t *testing.T) {
	t.Parallel()

	store := completedYear(t)
	service := newTestTrophyService(store, nil)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := service.EvaluateTrophy(context.Background(), testYear)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, scoring.ErrAlreadyEvaluated):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || rejected != callers-1 {
		t.Fatalf("unexpected outcome split: successes=%d rejected=%d", successes, rejected)
	}
	if got := teamPoints(t, store)["t-c"]; got != 100 {
		t.Fatalf("year scored more than once: t-c=%d want=100", got)
	}
}

func TestTrophyService_Status(t *testing.T) {
	t.Parallel()

	store := newYearStore(t,
		[]team.Team{femaleTeam("t1", "A"), maleTeam("t2", "B")},
		[]game.Game{
			{ID: "g1", Name: "Darts", Kind: game.KindPoints, Year: testYear},
			{ID: "g2", Name: "Sprint", Kind: game.KindTime, Year: testYear},
		},
		[]result{{"g1", "t1", "4"}, {"g1", "t2", "6"}, {"g2", "t1", "01:00"}},
	)
	service := newTestTrophyService(store, nil)

	status, err := service.Status(context.Background(), testYear)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Done || status.Evaluated || status.PendingGames != 1 || status.PendingTeams != 1 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if len(status.Games) != 2 {
		t.Fatalf("unexpected game count: %d", len(status.Games))
	}
	if status.Games[0].State != game.StateComplete || status.Games[1].State != game.StatePending {
		t.Fatalf("unexpected game states: %+v", status.Games)
	}
	if status.Games[1].Pending != 1 || status.Games[1].Total != 2 {
		t.Fatalf("unexpected pending counts: %+v", status.Games[1])
	}
}

func TestTrophyService_EvaluateTrophy_CountErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	gameRepo := gamemock.NewRepository(t)
	outcomeRepo := outcomemock.NewRepository(t)
	errDown := errors.New("connection refused")

	outcomeRepo.
		On("CountByYear", mock.Anything, testYear).
		Return(outcome.Counts{}, errDown).
		Once()

	service := NewTrophyService(teamRepo, gameRepo, outcomeRepo, memory.NewStore(), nil, nil, 1, logging.NewNop())
	_, err := service.EvaluateTrophy(ctx, testYear)
	if !errors.Is(err, errDown) {
		t.Fatalf("expected repository error to pass through, got %v", err)
	}
}

func TestTrophyService_EvaluateTrophy_LoadErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	gameRepo := gamemock.NewRepository(t)
	outcomeRepo := outcomemock.NewRepository(t)
	errDown := errors.New("connection reset")

	outcomeRepo.
		On("CountByYear", mock.Anything, testYear).
		Return(outcome.Counts{Total: 2}, nil).
		Once()
	teamRepo.
		On("ListByYear", mock.Anything, testYear).
		Return([]team.Team{femaleTeam("t1", "A"), femaleTeam("t2", "B")}, nil).
		Once()
	gameRepo.
		On("ListByYear", mock.Anything, testYear).
		Return([]game.Game{{ID: "g1", Name: "Darts", Kind: game.KindPoints, Year: testYear}}, nil).
		Once()
	outcomeRepo.
		On("ListByGame", mock.Anything, "g1").
		Return(nil, errDown).
		Once()

	service := NewTrophyService(teamRepo, gameRepo, outcomeRepo, memory.NewStore(), nil, nil, 1, logging.NewNop())
	_, err := service.EvaluateTrophy(ctx, testYear)
	if !errors.Is(err, errDown) {
		t.Fatalf("expected load error to pass through, got %v", err)
	}
}

func TestTrophyService_Status_LoadPanicBecomesError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gameRepo := gamemock.NewRepository(t)
	outcomeRepo := outcomemock.NewRepository(t)

	outcomeRepo.
		On("CountByYear", mock.Anything, testYear).
		Return(outcome.Counts{Total: 1, Pending: 1}, nil).
		Once()
	gameRepo.
		On("ListByYear", mock.Anything, testYear).
		Return([]game.Game{{ID: "g1", Name: "Darts", Kind: game.KindPoints, Year: testYear}}, nil).
		Once()
	outcomeRepo.
		On("ListByGame", mock.Anything, "g1").
		Run(func(mock.Arguments) { panic("driver bug") }).
		Return(nil, nil).
		Once()

	service := NewTrophyService(nil, gameRepo, outcomeRepo, memory.NewStore(), nil, nil, 1, logging.NewNop())
	if _, err := service.Status(ctx, testYear); err == nil {
		t.Fatalf("expected panicking load to fail status")
	}
}
