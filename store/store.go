// Package store defines the durable document metadata store.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrDocumentNotFound = errors.New("document not found")

type Config struct {
	Path string `yaml:"path"`
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Document is one ingested source page. URL is the unique key:
// re-ingestion updates the existing row in place.
type Document struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	Title         string     `json:"title,omitempty"`
	Status        Status     `json:"status"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type DocumentStore interface {
	// UpsertDocument creates a document for url, or updates the
	// existing one (conflict target is the url).
	UpsertDocument(ctx context.Context, url, title string, status Status, fetchedAt time.Time) (Document, error)

	// UpdateStatus performs the final state transition of ingestion.
	UpdateStatus(ctx context.Context, id string, status Status) error

	FindDocument(ctx context.Context, id string) (Document, error)

	ListDocuments(ctx context.Context) ([]Document, error)

	DeleteDocument(ctx context.Context, id string) error

	Close() error
}
