package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimezsa/fithire/internal/models"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS jobs (
	id               BIGSERIAL PRIMARY KEY,
	title            TEXT NOT NULL,
	company          TEXT NOT NULL,
	description      TEXT NOT NULL,
	location         TEXT,
	skills_required  TEXT,
	application_link TEXT NOT NULL UNIQUE,
	posted_date      DATE,
	source           TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool to dsn, verifies it and applies the schema.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: init schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Insert(ctx context.Context, job models.JobPosting) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`INSERT INTO jobs (title, company, description, location, skills_required, application_link, posted_date, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (application_link) DO NOTHING`,
		job.Title, job.Company, job.Description, job.Location,
		joinSkills(job.SkillsRequired), job.ApplicationLink,
		postgresDate(job.PostedDate), job.Source,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: insert %s: %w", job.ApplicationLink, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *Postgres) ListAll(ctx context.Context) ([]models.JobPosting, error) {
	return p.ListFiltered(ctx, Filter{})
}

func (p *Postgres) ListFiltered(ctx context.Context, filter Filter) ([]models.JobPosting, error) {
	var (
		where []string
		args  []any
	)
	if filter.Source != "" {
		args = append(args, filter.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, models.Day(filter.Since))
		where = append(where, fmt.Sprintf("posted_date >= $%d", len(args)))
	}

	query := `SELECT title, company, description, COALESCE(location, ''), COALESCE(skills_required, ''),
	                 application_link, posted_date, source
	          FROM jobs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.JobPosting
	for rows.Next() {
		var (
			job    models.JobPosting
			skills string
			posted *time.Time
		)
		if err := rows.Scan(&job.Title, &job.Company, &job.Description, &job.Location,
			&skills, &job.ApplicationLink, &posted, &job.Source); err != nil {
			return nil, fmt.Errorf("postgres: scan job: %w", err)
		}
		job.SkillsRequired = splitSkills(skills)
		if posted != nil {
			job.PostedDate = models.Day(*posted)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate jobs: %w", err)
	}
	return jobs, nil
}

func (p *Postgres) Count(ctx context.Context) (int, error) {
	var total int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres: count jobs: %w", err)
	}
	return total, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func postgresDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	day := models.Day(t)
	return &day
}
