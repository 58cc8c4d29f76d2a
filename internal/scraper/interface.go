package scraper

import (
	"context"

	"github.com/jimezsa/fithire/internal/models"
)

// Scraper fetches postings from one external source. On failure it returns
// the postings collected so far together with the error.
type Scraper interface {
	Name() string
	Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error)
}
