package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/domain/team"
)

// StandingsWriter renders standings into a report and returns where it was
// written.
type StandingsWriter interface {
	WriteStandings(ctx context.Context, standings scoring.Standings) (string, error)
}

type StandingsService struct {
	teamRepo team.Repository
	writer   StandingsWriter
}

func NewStandingsService(teamRepo team.Repository, writer StandingsWriter) *StandingsService {
	return &StandingsService{
		teamRepo: teamRepo,
		writer:   writer,
	}
}

func (s *StandingsService) Standings(ctx context.Context, year int) (scoring.Standings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings", attribute.Int("trophy.year", year))
	defer span.End()

	if year <= 0 {
		return scoring.Standings{}, fmt.Errorf("%w: year must be positive", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByYear(ctx, year)
	if err != nil {
		recordSpanError(span, err)
		return scoring.Standings{}, fmt.Errorf("list teams by year: %w", err)
	}

	return scoring.BuildStandings(year, teams), nil
}

func (s *StandingsService) Export(ctx context.Context, year int) (string, error) {
	if s.writer == nil {
		return "", fmt.Errorf("standings writer is not configured")
	}

	standings, err := s.Standings(ctx, year)
	if err != nil {
		return "", err
	}
	if len(standings.Female) == 0 && len(standings.Male) == 0 {
		return "", fmt.Errorf("%w: year %d has no teams", ErrNotFound, year)
	}

	location, err := s.writer.WriteStandings(ctx, standings)
	if err != nil {
		return "", fmt.Errorf("write standings: %w", err)
	}
	return location, nil
}
