package linkdb

import (
	"context"
	"database/sql"
	"errors"
)

// scanPage scans a row into a Page. The row must have id, title, norm in order.
func scanPage(scanner interface{ Scan(dest ...any) error }) (Page, error) {
	var p Page
	err := scanner.Scan(&p.ID, &p.Title, &p.Norm)
	return p, err
}

// PageByNorm returns the page with the given normalized title, or nil if none
func (d *DB) PageByNorm(ctx context.Context, norm string) (*Page, error) {
	row := d.conn.QueryRowContext(ctx, `SELECT id, title, norm FROM pages WHERE norm = ?`, norm)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RedirectTarget returns the title a normalized name redirects to, or "" if none
func (d *DB) RedirectTarget(ctx context.Context, norm string) (string, error) {
	var target string
	err := d.conn.QueryRowContext(ctx, `SELECT to_title FROM redirects WHERE from_norm = ?`, norm).Scan(&target)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return target, err
}

// LinksFrom returns the linked titles of a page in page order
func (d *DB) LinksFrom(ctx context.Context, pageID int64) ([]string, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT to_title FROM links WHERE page_id = ? ORDER BY ord`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		links = append(links, title)
	}
	return links, rows.Err()
}

// Stats counts the rows in each table
func (d *DB) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	for _, q := range []struct {
		table string
		dest  *int
	}{
		{"pages", &s.Pages},
		{"redirects", &s.Redirects},
		{"links", &s.Links},
	} {
		if err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table).Scan(q.dest); err != nil {
			return s, err
		}
	}
	return s, nil
}
