// Package pipeline sequences extraction, classification, summarization and
// persistence for a single article URL.
package pipeline

import "errors"

// ErrInternal is returned when the pipeline panics. The panic value is
// logged, never returned to callers.
var ErrInternal = errors.New("internal pipeline error")
