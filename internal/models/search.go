package models

// SearchParams captures the normalized search inputs used by scrapers.
type SearchParams struct {
	Keywords   string
	Location   string
	Country    string
	MaxResults int
}
