package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/domain/team"
	"github.com/vaerl/trophy-be/internal/platform/logging"
	"github.com/vaerl/trophy-be/internal/platform/resilience"
)

const defaultLoadWorkers = 4

// StandingsInvalidator drops cached standings of a year after its totals
// changed.
type StandingsInvalidator interface {
	InvalidateYear(ctx context.Context, year int)
}

type TrophyService struct {
	teamRepo    team.Repository
	gameRepo    game.Repository
	outcomeRepo outcome.Repository
	tx          scoring.Transactor
	invalidator StandingsInvalidator
	locks       *resilience.KeyedMutex[int]
	loadWorkers int
	logger      *logging.Logger
}

type GameStatus struct {
	GameID  string
	Name    string
	Kind    game.Kind
	State   game.State
	Pending int
	Total   int
}

type YearStatus struct {
	Year         int
	Done         bool
	Evaluated    bool
	PendingGames int
	PendingTeams int
	Games        []GameStatus
}

type EvaluationResult struct {
	Year     int
	Games    int
	Outcomes int
	Teams    int
}

func NewTrophyService(
	teamRepo team.Repository,
	gameRepo game.Repository,
	outcomeRepo outcome.Repository,
	tx scoring.Transactor,
	invalidator StandingsInvalidator,
	locks *resilience.KeyedMutex[int],
	loadWorkers int,
	logger *logging.Logger,
) *TrophyService {
	if locks == nil {
		locks = &resilience.KeyedMutex[int]{}
	}
	if loadWorkers < 1 {
		loadWorkers = defaultLoadWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &TrophyService{
		teamRepo:    teamRepo,
		gameRepo:    gameRepo,
		outcomeRepo: outcomeRepo,
		tx:          tx,
		invalidator: invalidator,
		locks:       locks,
		loadWorkers: loadWorkers,
		logger:      logger,
	}
}

// IsDone reports whether every outcome of the year has a recorded result.
func (s *TrophyService) IsDone(ctx context.Context, year int) (bool, error) {
	counts, err := s.countByYear(ctx, year)
	if err != nil {
		return false, err
	}
	return counts.Done(), nil
}

// IsEvaluated reports whether scoring has already been applied to the year.
func (s *TrophyService) IsEvaluated(ctx context.Context, year int) (bool, error) {
	counts, err := s.countByYear(ctx, year)
	if err != nil {
		return false, err
	}
	return counts.Evaluated(), nil
}

func (s *TrophyService) Status(ctx context.Context, year int) (YearStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrophyService.Status", attribute.Int("trophy.year", year))
	defer span.End()

	counts, err := s.countByYear(ctx, year)
	if err != nil {
		return YearStatus{}, err
	}
	games, err := s.listGames(ctx, year)
	if err != nil {
		return YearStatus{}, err
	}
	outcomesByGame, err := s.loadOutcomes(ctx, games)
	if err != nil {
		return YearStatus{}, err
	}

	status := YearStatus{
		Year:         year,
		Done:         counts.Done(),
		Evaluated:    counts.Evaluated(),
		PendingGames: counts.PendingGames,
		PendingTeams: counts.PendingTeams,
		Games:        make([]GameStatus, 0, len(games)),
	}
	for _, g := range games {
		items := outcomesByGame[g.ID]
		pending := 0
		for _, item := range items {
			if item.Pending() {
				pending++
			}
		}
		status.Games = append(status.Games, GameStatus{
			GameID:  g.ID,
			Name:    g.Name,
			Kind:    g.Kind,
			State:   outcome.DeriveGameState(items),
			Pending: pending,
			Total:   len(items),
		})
	}

	return status, nil
}

type scoredOutcome struct {
	gameID     string
	teamID     string
	pointValue int
}

// EvaluateTrophy scores every game of the year and adds the point values to
// the team totals. It fails with scoring.ErrEarlyEvaluation while any result
// is pending and with scoring.ErrAlreadyEvaluated once the year is scored.
// All writes happen in one transaction.
func (s *TrophyService) EvaluateTrophy(ctx context.Context, year int) (EvaluationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrophyService.EvaluateTrophy", attribute.Int("trophy.year", year))
	defer span.End()

	if year <= 0 {
		return EvaluationResult{}, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	unlock := s.locks.Lock(year)
	defer unlock()

	counts, err := s.countByYear(ctx, year)
	if err != nil {
		recordSpanError(span, err)
		return EvaluationResult{}, err
	}
	if err := guardEvaluation(year, counts); err != nil {
		s.logger.WarnContext(ctx, "trophy evaluation rejected", "year", year, "error", err)
		return EvaluationResult{}, err
	}

	teams, err := s.teamRepo.ListByYear(ctx, year)
	if err != nil {
		recordSpanError(span, err)
		return EvaluationResult{}, fmt.Errorf("list teams by year: %w", err)
	}
	games, err := s.listGames(ctx, year)
	if err != nil {
		recordSpanError(span, err)
		return EvaluationResult{}, err
	}
	outcomesByGame, err := s.loadOutcomes(ctx, games)
	if err != nil {
		recordSpanError(span, err)
		return EvaluationResult{}, err
	}

	totals := make(map[string]team.Team, len(teams))
	for _, tm := range teams {
		totals[tm.ID] = tm
	}

	scored := make([]scoredOutcome, 0, counts.Total)
	touched := make(map[string]struct{}, len(teams))
	for _, g := range games {
		parsed, err := scoring.ParseOutcomes(g, outcomesByGame[g.ID], totals)
		if err != nil {
			recordSpanError(span, err)
			return EvaluationResult{}, err
		}

		female, male := scoring.PartitionByGender(parsed)
		for _, group := range [][]scoring.ParsedOutcome{female, male} {
			for _, item := range scoring.Evaluate(group) {
				totals[item.Team.ID] = item.Team
				touched[item.Team.ID] = struct{}{}
				scored = append(scored, scoredOutcome{
					gameID:     item.GameID,
					teamID:     item.Team.ID,
					pointValue: *item.PointValue,
				})
			}
		}
	}

	teamIDs := make([]string, 0, len(touched))
	for id := range touched {
		teamIDs = append(teamIDs, id)
	}
	slices.Sort(teamIDs)

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos scoring.Repositories) error {
		current, err := repos.Outcomes.CountByYear(ctx, year)
		if err != nil {
			return fmt.Errorf("recount outcomes: %w", err)
		}
		if err := guardEvaluation(year, current); err != nil {
			return err
		}

		for _, item := range scored {
			if err := repos.Outcomes.SetPointValue(ctx, item.gameID, item.teamID, item.pointValue); err != nil {
				return fmt.Errorf("set point value game=%s team=%s: %w", item.gameID, item.teamID, err)
			}
		}
		for _, id := range teamIDs {
			if err := repos.Teams.UpdatePoints(ctx, id, totals[id].Points); err != nil {
				return fmt.Errorf("update team points team=%s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		if errors.Is(err, scoring.ErrEarlyEvaluation) || errors.Is(err, scoring.ErrAlreadyEvaluated) {
			s.logger.WarnContext(ctx, "trophy evaluation rejected", "year", year, "error", err)
			return EvaluationResult{}, err
		}
		return EvaluationResult{}, fmt.Errorf("persist evaluation: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateYear(ctx, year)
	}

	result := EvaluationResult{
		Year:     year,
		Games:    len(games),
		Outcomes: len(scored),
		Teams:    len(teamIDs),
	}
	s.logger.InfoContext(ctx, "trophy evaluated",
		"year", year,
		"games", result.Games,
		"outcomes", result.Outcomes,
		"teams", result.Teams,
	)
	return result, nil
}

func guardEvaluation(year int, counts outcome.Counts) error {
	switch {
	case counts.Total == 0:
		return errors.Wrapf(scoring.ErrEarlyEvaluation, "year %d has no results", year)
	case !counts.Done():
		return errors.Wrapf(scoring.ErrEarlyEvaluation,
			"year %d: %d result(s) pending in %d game(s)", year, counts.Pending, counts.PendingGames)
	case counts.Evaluated():
		return errors.Wrapf(scoring.ErrAlreadyEvaluated, "year %d", year)
	default:
		return nil
	}
}

func (s *TrophyService) countByYear(ctx context.Context, year int) (outcome.Counts, error) {
	if year <= 0 {
		return outcome.Counts{}, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}
	counts, err := s.outcomeRepo.CountByYear(ctx, year)
	if err != nil {
		return outcome.Counts{}, fmt.Errorf("count outcomes by year: %w", err)
	}
	return counts, nil
}

func (s *TrophyService) listGames(ctx context.Context, year int) ([]game.Game, error) {
	games, err := s.gameRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("list games by year: %w", err)
	}
	slices.SortFunc(games, func(a, b game.Game) int {
		return strings.Compare(a.ID, b.ID)
	})
	return games, nil
}

// loadOutcomes reads the outcomes of every game on a bounded worker pool. A
// panicking read fails the load like any other error.
func (s *TrophyService) loadOutcomes(ctx context.Context, games []game.Game) (map[string][]outcome.Outcome, error) {
	out := make(map[string][]outcome.Outcome, len(games))
	if len(games) == 0 {
		return out, nil
	}

	pool, err := ants.NewPool(min(s.loadWorkers, len(games)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	for _, g := range games {
		gameID := g.ID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			var (
				items []outcome.Outcome
				err   error
				pc    panics.Catcher
			)
			pc.Try(func() {
				items, err = s.outcomeRepo.ListByGame(ctx, gameID)
			})
			if r := pc.Recovered(); r != nil {
				err = r.AsError()
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("list outcomes game=%s: %w", gameID, err)
				}
				return
			}
			out[gameID] = items
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit outcome load to worker pool: %w", err)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
