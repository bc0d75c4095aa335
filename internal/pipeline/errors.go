package pipeline

import "errors"

// Sentinel errors for the two ingest-stage failure classes.
var (
	// ErrSourceUnavailable means the document source could not supply
	// the upload bytes.
	ErrSourceUnavailable = errors.New("document source unavailable")

	// ErrUnparseableDocument means the upload is empty or its declared
	// format is not supported.
	ErrUnparseableDocument = errors.New("unparseable document")
)
