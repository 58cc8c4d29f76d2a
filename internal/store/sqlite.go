package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jimezsa/fithire/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS jobs (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL,
	description      TEXT NOT NULL,
	location         TEXT,
	skills_required  TEXT,
	application_link TEXT NOT NULL UNIQUE,
	posted_date      TEXT,
	source           TEXT NOT NULL,
	created_at       TEXT NOT NULL
)`

const sqliteColumns = `title, company, description, location, skills_required, application_link, posted_date, source`

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file at path and applies the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // single writer

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Insert(ctx context.Context, job models.JobPosting) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (`+sqliteColumns+`, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(application_link) DO NOTHING`,
		job.Title, job.Company, job.Description, job.Location,
		joinSkills(job.SkillsRequired), job.ApplicationLink,
		sqliteDate(job.PostedDate), job.Source,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: insert %s: %w", job.ApplicationLink, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLite) ListAll(ctx context.Context) ([]models.JobPosting, error) {
	return s.ListFiltered(ctx, Filter{})
}

func (s *SQLite) ListFiltered(ctx context.Context, filter Filter) ([]models.JobPosting, error) {
	var (
		where []string
		args  []any
	)
	if filter.Source != "" {
		where = append(where, "source = ?")
		args = append(args, filter.Source)
	}
	if !filter.Since.IsZero() {
		where = append(where, "posted_date >= ?")
		args = append(args, filter.Since.UTC().Format(models.DateLayout))
	}

	query := `SELECT ` + sqliteColumns + ` FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobPosting
	for rows.Next() {
		var (
			job                      models.JobPosting
			location, skills, posted sql.NullString
		)
		if err := rows.Scan(&job.Title, &job.Company, &job.Description, &location,
			&skills, &job.ApplicationLink, &posted, &job.Source); err != nil {
			return nil, fmt.Errorf("sqlite: scan job: %w", err)
		}
		job.Location = location.String
		job.SkillsRequired = splitSkills(skills.String)
		if posted.String != "" {
			if ts, err := time.Parse(models.DateLayout, posted.String); err == nil {
				job.PostedDate = ts
			}
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate jobs: %w", err)
	}
	return jobs, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sqlite: count jobs: %w", err)
	}
	return total, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func sqliteDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(models.DateLayout), Valid: true}
}
