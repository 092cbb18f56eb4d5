package domain

import "errors"

// Failure kinds observable by callers. Pipelines wrap these with %w so the
// request boundary can map them to responses with errors.Is instead of
// string matching.
var (
	// ErrUnsupportedFormat signals a filename without a recognized
	// document extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument signals a document whose extracted text is empty
	// or all whitespace. Nothing is chunked or stored.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrEmptyQuery signals a missing or blank query. The embedder and
	// the store are never invoked; distinct from a query that matched
	// nothing, which is an empty result set with a nil error.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrUnauthorized covers every credential failure: expired,
	// malformed, wrong audience, bad signature, missing subject. The
	// subtypes are deliberately not distinguished to callers.
	ErrUnauthorized = errors.New("unauthorized")
)
