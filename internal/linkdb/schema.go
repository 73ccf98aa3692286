package linkdb

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id    INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	norm  TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS redirects (
	from_norm TEXT PRIMARY KEY,
	to_title  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS links (
	page_id  INTEGER NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
	ord      INTEGER NOT NULL,
	to_title TEXT NOT NULL,
	PRIMARY KEY (page_id, ord)
);
`

// EnsureSchema creates the pages, redirects, and links tables if missing
func (d *DB) EnsureSchema() error {
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
