package linkdb

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"wikitrail/trail/internal/normalize"
)

// InsertPage stores a page and replaces its outbound links. Returns the page ID.
func (d *DB) InsertPage(ctx context.Context, title string, links ...string) (int64, error) {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	norm := normalize.ID(title)
	if norm == "" {
		return 0, fmt.Errorf("empty page title")
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO pages (title, norm) VALUES (?, ?)
		ON CONFLICT(norm) DO UPDATE SET title = excluded.title
		RETURNING id`, title, norm).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting page %q: %w", title, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE page_id = ?`, id); err != nil {
		return 0, fmt.Errorf("clearing links of %q: %w", title, err)
	}
	for i, link := range links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (page_id, ord, to_title) VALUES (?, ?, ?)`, id, i, link); err != nil {
			return 0, fmt.Errorf("inserting link %q of %q: %w", link, title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing page %q: %w", title, err)
	}
	return id, nil
}

// InsertRedirect makes from resolve to the page titled to
func (d *DB) InsertRedirect(ctx context.Context, from, to string) error {
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO redirects (from_norm, to_title) VALUES (?, ?)
		ON CONFLICT(from_norm) DO UPDATE SET to_title = excluded.to_title`,
		normalize.ID(from), to)
	if err != nil {
		return fmt.Errorf("inserting redirect %q: %w", from, err)
	}
	return nil
}

// Load reads a tab-separated dump into the database. Each line is either
//
//	page<TAB>Title<TAB>Link<TAB>Link...
//	redirect<TAB>From<TAB>To
//
// Blank lines and lines starting with '#' are skipped. Returns rows written.
func (d *DB) Load(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	written := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		switch fields[0] {
		case "page":
			if len(fields) < 2 {
				return written, fmt.Errorf("line %d: page needs a title", lineNo)
			}
			if _, err := d.InsertPage(ctx, fields[1], fields[2:]...); err != nil {
				return written, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case "redirect":
			if len(fields) != 3 {
				return written, fmt.Errorf("line %d: redirect needs from and to", lineNo)
			}
			if err := d.InsertRedirect(ctx, fields[1], fields[2]); err != nil {
				return written, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return written, fmt.Errorf("line %d: unknown record kind %q", lineNo, fields[0])
		}
		written++
	}
	if err := scanner.Err(); err != nil {
		return written, fmt.Errorf("reading dump: %w", err)
	}
	return written, nil
}
