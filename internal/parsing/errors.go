package parsing

import "fmt"

// ParseError represents a failure turning model output into a profile.
// It wraps the underlying cause so callers can classify it with
// errors.Is against the llm sentinel errors.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
