package linksource

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"wikitrail/trail/internal/normalize"
)

// Static is an in-memory Source. Topics are matched by normalized ID.
type Static struct {
	mu        sync.RWMutex
	pages     map[string]page
	redirects map[string]string
	failures  map[string]error
	calls     map[string]int
}

type page struct {
	name  string
	links []string
}

// NewStatic returns an empty source.
func NewStatic() *Static {
	return &Static{
		pages:     make(map[string]page),
		redirects: make(map[string]string),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

// AddPage registers a page and its outbound links.
func (s *Static) AddPage(name string, links ...string) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[normalize.ID(name)] = page{name: name, links: slices.Clone(links)}
	return s
}

// AddRedirect makes from resolve to the page named to.
func (s *Static) AddRedirect(from, to string) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirects[normalize.ID(from)] = to
	return s
}

// Fail makes every resolve of topic return err until cleared with a nil err.
func (s *Static) Fail(topic string, err error) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, normalize.ID(topic))
	} else {
		s.failures[normalize.ID(topic)] = err
	}
	return s
}

// Calls returns how many times topic was resolved.
func (s *Static) Calls(topic string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[normalize.ID(topic)]
}

// Resolve implements Source.
func (s *Static) Resolve(ctx context.Context, topic string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	id := normalize.ID(topic)

	s.mu.Lock()
	s.calls[id]++
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.failures[id]; ok {
		return Result{}, err
	}
	if target, ok := s.redirects[id]; ok {
		id = normalize.ID(target)
	}
	p, ok := s.pages[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, topic)
	}
	return Result{CanonicalName: p.name, Links: slices.Clone(p.links)}, nil
}
