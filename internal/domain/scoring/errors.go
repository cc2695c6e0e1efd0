package scoring

import "github.com/cockroachdb/errors"

var (
	ErrParse            = errors.New("malformed result")
	ErrEarlyEvaluation  = errors.New("trophy year is not ready for evaluation")
	ErrAlreadyEvaluated = errors.New("trophy year is already evaluated")
)
