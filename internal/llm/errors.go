package llm

import "errors"

// Sentinel errors distinguishing transport failures from bad output.
var (
	// ErrServiceUnavailable means the model endpoint could not be
	// reached or returned a transport-level failure.
	ErrServiceUnavailable = errors.New("llm service unavailable")

	// ErrMalformedOutput means the model responded but its output did
	// not parse or validate as the expected structure.
	ErrMalformedOutput = errors.New("llm output malformed")
)
