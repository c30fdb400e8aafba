package cli

import (
	"errors"
	"fmt"

	"github.com/migrakit/migrakit/internal/domain"
)

// ExitError carries the process exit code of a command. With a nil Err the
// command already reported its outcome and main exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return domain.ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// Silent reports whether err needs no message on stderr.
func Silent(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee) && ee.Err == nil
}

func evaluationFailed(err error) error {
	return &ExitError{Code: domain.ExitEvaluationFailed, Err: err}
}
