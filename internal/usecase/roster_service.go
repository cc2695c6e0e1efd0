package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vaerl/trophy-be/internal/domain/game"
	"github.com/vaerl/trophy-be/internal/domain/outcome"
	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/domain/team"
	"github.com/vaerl/trophy-be/internal/platform/id"
	"github.com/vaerl/trophy-be/internal/platform/logging"
	"github.com/vaerl/trophy-be/internal/platform/resilience"
)

type RegisterTeamInput struct {
	TrophyID int    `validate:"gte=0"`
	Name     string `validate:"required,max=120"`
	Gender   string `validate:"required"`
	Year     int    `validate:"required,gt=0"`
}

type RegisterGameInput struct {
	TrophyID int    `validate:"gte=0"`
	Name     string `validate:"required,max=120"`
	Kind     string `validate:"required"`
	Year     int    `validate:"required,gt=0"`
}

// RecordResultInput sets the raw result of one team in one game. Force
// allows correcting a result after the game has been locked.
type RecordResultInput struct {
	GameID string `validate:"required"`
	TeamID string `validate:"required"`
	Data   string `validate:"required,max=32"`
	Force  bool
}

type TeamRow struct {
	TrophyID int
	Name     string
	Gender   string
}

type ImportResult struct {
	Created  int
	Skipped  int
	Outcomes int
}

// RosterService registers teams and games and records raw results. Every
// registration creates the outcomes that pair the new entry with the rest of
// its year.
type RosterService struct {
	gameRepo  game.Repository
	tx        scoring.Transactor
	ids       id.Generator
	locks     *resilience.KeyedMutex[int]
	cache     StandingsInvalidator
	validator *validator.Validate
	logger    *logging.Logger
}

func NewRosterService(
	gameRepo game.Repository,
	tx scoring.Transactor,
	ids id.Generator,
	locks *resilience.KeyedMutex[int],
	cache StandingsInvalidator,
	logger *logging.Logger,
) *RosterService {
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	if locks == nil {
		locks = &resilience.KeyedMutex[int]{}
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		gameRepo:  gameRepo,
		tx:        tx,
		ids:       ids,
		locks:     locks,
		cache:     cache,
		validator: validator.New(),
		logger:    logger,
	}
}

func (s *RosterService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RegisterTeam", attribute.Int("trophy.year", input.Year))
	defer span.End()

	if err := s.validate(ctx, input); err != nil {
		return team.Team{}, err
	}
	item, err := s.newTeam(input.Year, TeamRow{TrophyID: input.TrophyID, Name: input.Name, Gender: input.Gender})
	if err != nil {
		return team.Team{}, err
	}

	unlock := s.locks.Lock(input.Year)
	defer unlock()

	created := 0
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos scoring.Repositories) error {
		if err := ensureOpen(ctx, repos.Outcomes, input.Year); err != nil {
			return err
		}
		if err := repos.Teams.Create(ctx, item); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		n, err := repos.Outcomes.EnsureForYear(ctx, input.Year)
		if err != nil {
			return fmt.Errorf("ensure outcomes: %w", err)
		}
		created = n
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return team.Team{}, err
	}

	s.invalidate(ctx, input.Year)
	s.logger.InfoContext(ctx, "team registered", "team_id", item.ID, "year", item.Year, "gender", item.Gender, "outcomes", created)
	return item, nil
}

func (s *RosterService) RegisterGame(ctx context.Context, input RegisterGameInput) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RegisterGame", attribute.Int("trophy.year", input.Year))
	defer span.End()

	if err := s.validate(ctx, input); err != nil {
		return game.Game{}, err
	}
	kind, err := game.ParseKind(input.Kind)
	if err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	gameID, err := s.ids.NewID()
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game id: %w", err)
	}
	item := game.Game{
		ID:       gameID,
		TrophyID: input.TrophyID,
		Name:     strings.TrimSpace(input.Name),
		Kind:     kind,
		Year:     input.Year,
	}
	if err := item.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	unlock := s.locks.Lock(input.Year)
	defer unlock()

	created := 0
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos scoring.Repositories) error {
		if err := ensureOpen(ctx, repos.Outcomes, input.Year); err != nil {
			return err
		}
		if err := repos.Games.Create(ctx, item); err != nil {
			return fmt.Errorf("create game: %w", err)
		}
		n, err := repos.Outcomes.EnsureForYear(ctx, input.Year)
		if err != nil {
			return fmt.Errorf("ensure outcomes: %w", err)
		}
		created = n
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return game.Game{}, err
	}

	s.logger.InfoContext(ctx, "game registered", "game_id", item.ID, "year", item.Year, "kind", item.Kind, "outcomes", created)
	return item, nil
}

// ImportTeams registers every row that is not registered for the year yet.
// Rows match existing teams by trophy id when set, otherwise by name.
func (s *RosterService) ImportTeams(ctx context.Context, year int, rows []TeamRow) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.ImportTeams", attribute.Int("trophy.year", year))
	defer span.End()

	if year <= 0 {
		return ImportResult{}, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	items := make([]team.Team, 0, len(rows))
	for i, row := range rows {
		item, err := s.newTeam(year, row)
		if err != nil {
			return ImportResult{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	unlock := s.locks.Lock(year)
	defer unlock()

	var result ImportResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos scoring.Repositories) error {
		result = ImportResult{}
		if err := ensureOpen(ctx, repos.Outcomes, year); err != nil {
			return err
		}

		existing, err := repos.Teams.ListByYear(ctx, year)
		if err != nil {
			return fmt.Errorf("list teams by year: %w", err)
		}
		seen := make(map[string]struct{}, len(existing)+len(items))
		for _, tm := range existing {
			seen[rosterKey(tm)] = struct{}{}
		}

		for _, item := range items {
			key := rosterKey(item)
			if _, dup := seen[key]; dup {
				result.Skipped++
				continue
			}
			if err := repos.Teams.Create(ctx, item); err != nil {
				return fmt.Errorf("create team %q: %w", item.Name, err)
			}
			seen[key] = struct{}{}
			result.Created++
		}

		n, err := repos.Outcomes.EnsureForYear(ctx, year)
		if err != nil {
			return fmt.Errorf("ensure outcomes: %w", err)
		}
		result.Outcomes = n
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		return ImportResult{}, err
	}

	s.invalidate(ctx, year)
	s.logger.InfoContext(ctx, "teams imported", "year", year, "created", result.Created, "skipped", result.Skipped, "outcomes", result.Outcomes)
	return result, nil
}

// RecordResult stores the raw result text after checking it parses for the
// game's kind. Locked games only accept results with Force; scored years
// accept none.
func (s *RosterService) RecordResult(ctx context.Context, input RecordResultInput) (outcome.Outcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.RecordResult")
	defer span.End()

	if err := s.validate(ctx, input); err != nil {
		return outcome.Outcome{}, err
	}

	g, exists, err := s.gameRepo.GetByID(ctx, input.GameID)
	if err != nil {
		return outcome.Outcome{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return outcome.Outcome{}, fmt.Errorf("%w: game=%s", ErrNotFound, input.GameID)
	}

	data := strings.TrimSpace(input.Data)
	if _, err := scoring.ParseValue(data, g.Kind); err != nil {
		return outcome.Outcome{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	unlock := s.locks.Lock(g.Year)
	defer unlock()

	var saved outcome.Outcome
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos scoring.Repositories) error {
		if err := ensureOpen(ctx, repos.Outcomes, g.Year); err != nil {
			return err
		}

		current, exists, err := repos.Outcomes.Get(ctx, input.GameID, input.TeamID)
		if err != nil {
			return fmt.Errorf("get outcome: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: outcome game=%s team=%s", ErrNotFound, input.GameID, input.TeamID)
		}

		items, err := repos.Outcomes.ListByGame(ctx, input.GameID)
		if err != nil {
			return fmt.Errorf("list outcomes by game: %w", err)
		}
		if outcome.DeriveGameState(items).Locked() && !input.Force {
			return errors.Wrapf(ErrGameLocked, "game %s", input.GameID)
		}

		if err := repos.Outcomes.SetData(ctx, input.GameID, input.TeamID, &data); err != nil {
			return fmt.Errorf("set outcome data: %w", err)
		}
		current.Data = &data
		saved = current
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		if errors.Is(err, ErrGameLocked) {
			s.logger.WarnContext(ctx, "result rejected", "game_id", input.GameID, "team_id", input.TeamID, "error", err)
		}
		return outcome.Outcome{}, err
	}

	s.logger.InfoContext(ctx, "result recorded", "game_id", input.GameID, "team_id", input.TeamID, "forced", input.Force)
	return saved, nil
}

func (s *RosterService) invalidate(ctx context.Context, year int) {
	if s.cache != nil {
		s.cache.InvalidateYear(ctx, year)
	}
}

func (s *RosterService) validate(ctx context.Context, payload any) error {
	if err := s.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *RosterService) newTeam(year int, row TeamRow) (team.Team, error) {
	gender, err := team.ParseGender(row.Gender)
	if err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	teamID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	item := team.Team{
		ID:       teamID,
		TrophyID: row.TrophyID,
		Name:     strings.TrimSpace(row.Name),
		Gender:   gender,
		Year:     year,
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return item, nil
}

// ensureOpen rejects roster and result changes once the year is scored.
func ensureOpen(ctx context.Context, repo outcome.Repository, year int) error {
	counts, err := repo.CountByYear(ctx, year)
	if err != nil {
		return fmt.Errorf("count outcomes by year: %w", err)
	}
	if counts.Evaluated() {
		return errors.Wrapf(scoring.ErrAlreadyEvaluated, "year %d", year)
	}
	return nil
}

func rosterKey(tm team.Team) string {
	if tm.TrophyID > 0 {
		return fmt.Sprintf("id:%d", tm.TrophyID)
	}
	return "name:" + strings.ToLower(tm.Name)
}
