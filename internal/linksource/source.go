// Package linksource resolves a topic to its canonical page name and the
// topics it links to.
package linksource

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the source has no page for the topic.
	ErrNotFound = errors.New("topic not found")
	// ErrMalformed means the source answered with something unparseable.
	ErrMalformed = errors.New("malformed link source response")
)

// Result is what a source knows about one topic.
type Result struct {
	// CanonicalName is the page name after following at most one redirect.
	CanonicalName string
	// Links are the linked topic names in page order.
	Links []string
}

// Source resolves topics. Implementations must be safe for concurrent use.
type Source interface {
	Resolve(ctx context.Context, topic string) (Result, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, topic string) (Result, error)

// Resolve calls f.
func (f SourceFunc) Resolve(ctx context.Context, topic string) (Result, error) {
	return f(ctx, topic)
}
