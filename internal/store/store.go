// Package store persists job postings keyed by their application link.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/jimezsa/fithire/internal/models"
)

// Store is the persistent job catalog. Insert is insert-or-ignore: a posting
// whose application link already exists is skipped and reported as not inserted.
type Store interface {
	Insert(ctx context.Context, job models.JobPosting) (bool, error)
	// ListAll returns every posting in insertion order.
	ListAll(ctx context.Context) ([]models.JobPosting, error)
	ListFiltered(ctx context.Context, filter Filter) ([]models.JobPosting, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Filter narrows ListFiltered. Zero values disable the condition.
type Filter struct {
	Source string
	Since  time.Time
}

// Open picks a backend from dsn: postgres:// and postgresql:// URLs use
// PostgreSQL, anything else is treated as a SQLite path (optionally
// prefixed with sqlite://).
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	default:
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"))
	}
}

func joinSkills(skills []string) string {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		cleaned = append(cleaned, strings.ReplaceAll(skill, ",", " "))
	}
	return strings.Join(cleaned, ",")
}

func splitSkills(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
