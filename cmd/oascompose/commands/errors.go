package commands

import "errors"

// ErrUsage marks errors caused by invalid flags, arguments or configuration.
var ErrUsage = errors.New("cli usage error")

// ErrInvalidDocument is returned when a document fails validation.
var ErrInvalidDocument = errors.New("document is not valid")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// ExitCode maps an error returned by Execute to a process exit status:
// 2 for usage errors, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return 2
	default:
		return 1
	}
}
