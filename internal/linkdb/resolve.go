package linkdb

import (
	"context"
	"fmt"

	"wikitrail/trail/internal/linksource"
	"wikitrail/trail/internal/normalize"
)

// Resolve implements linksource.Source. At most one redirect is followed.
func (d *DB) Resolve(ctx context.Context, topic string) (linksource.Result, error) {
	norm := normalize.ID(topic)

	target, err := d.RedirectTarget(ctx, norm)
	if err != nil {
		return linksource.Result{}, fmt.Errorf("looking up redirect for %q: %w", topic, err)
	}
	if target != "" {
		norm = normalize.ID(target)
	}

	page, err := d.PageByNorm(ctx, norm)
	if err != nil {
		return linksource.Result{}, fmt.Errorf("looking up page %q: %w", topic, err)
	}
	if page == nil {
		return linksource.Result{}, fmt.Errorf("%w: %s", linksource.ErrNotFound, topic)
	}

	links, err := d.LinksFrom(ctx, page.ID)
	if err != nil {
		return linksource.Result{}, fmt.Errorf("loading links of %q: %w", page.Title, err)
	}
	return linksource.Result{CanonicalName: page.Title, Links: links}, nil
}

var _ linksource.Source = (*DB)(nil)
