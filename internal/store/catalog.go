package store

import (
	"context"
	"database/sql"
	"fmt"

	"jobview-engine/internal/record"
)

// Catalog holds the one job-record collection the engine serves. Loads
// replace the whole set inside a transaction; there is no merge path.
type Catalog struct {
	db *sql.DB
}

func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{db: db}
}

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  posted_minutes INTEGER NOT NULL DEFAULT 0,
  job_type TEXT NOT NULL,
  level TEXT NOT NULL,
  skill TEXT NOT NULL,
  detail TEXT NOT NULL,
  link TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_level ON jobs(level);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}

// Replace swaps in a new record set. The delete and the inserts commit
// together, so a failed load leaves the previous set untouched.
func (c *Catalog) Replace(ctx context.Context, records []record.JobRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM jobs;`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO jobs(title, posted_minutes, job_type, level, skill, detail, link)
VALUES(?,?,?,?,?,?,?);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Title, r.PostedMinutes, r.Type, r.Level, r.Skill, r.Detail, r.Link); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// All returns every record in load order.
func (c *Catalog) All(ctx context.Context) ([]record.JobRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT title, posted_minutes, job_type, level, skill, detail, link
FROM jobs
ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []record.JobRecord
	for rows.Next() {
		var r record.JobRecord
		if err := rows.Scan(&r.Title, &r.PostedMinutes, &r.Type, &r.Level, &r.Skill, &r.Detail, &r.Link); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Facet is one of the three filter dimensions.
type Facet string

const (
	FacetLevel Facet = "level"
	FacetType  Facet = "type"
	FacetSkill Facet = "skill"
)

// FacetValues lists the distinct values present for one dimension, sorted,
// for dropdown population.
func (c *Catalog) FacetValues(ctx context.Context, f Facet) ([]string, error) {
	// whitelist columns (prevents SQL injection)
	col := map[Facet]string{
		FacetLevel: "level",
		FacetType:  "job_type",
		FacetSkill: "skill",
	}[f]
	if col == "" {
		return nil, fmt.Errorf("unknown facet %q", f)
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM jobs ORDER BY %s;`, col, col)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (c *Catalog) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs;`).Scan(&n)
	return n, err
}
