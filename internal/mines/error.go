package mines

import "fmt"

// AssertionError reports a structurally invalid board or encoded record.
type AssertionError struct {
	message string
}

func assertf(format string, args ...any) AssertionError {
	return AssertionError{fmt.Sprintf(format, args...)}
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
