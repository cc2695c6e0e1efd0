package command

import (
	"github.com/cockroachdb/errors"

	"github.com/vaerl/trophy-be/internal/domain/scoring"
	"github.com/vaerl/trophy-be/internal/usecase"
)

const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitConflict = 3
	ExitNotFound = 4
)

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, usecase.ErrInvalidInput), errors.Is(err, scoring.ErrParse):
		return ExitInvalid
	case errors.Is(err, scoring.ErrEarlyEvaluation),
		errors.Is(err, scoring.ErrAlreadyEvaluated),
		errors.Is(err, usecase.ErrGameLocked):
		return ExitConflict
	case errors.Is(err, usecase.ErrNotFound):
		return ExitNotFound
	default:
		return ExitFailure
	}
}
