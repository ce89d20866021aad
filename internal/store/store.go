// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradecoach/internal/models"
)

// DataStore defines the interface for data persistence. Persistence is a
// peripheral concern: the analysis engine operates on in-memory trades and
// the store only keeps imported datasets and journal notes between runs.
type DataStore interface {
	// Imports
	SaveImport(ctx context.Context, rec *models.ImportRecord, trades []models.Trade) error
	GetImport(ctx context.Context, id string) (*models.ImportRecord, error)
	GetLatestImport(ctx context.Context) (*models.ImportRecord, error)
	ListImports(ctx context.Context, limit int) ([]models.ImportRecord, error)
	GetTrades(ctx context.Context, importID string) ([]models.Trade, error)

	// Journal
	SaveJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	GetJournal(ctx context.Context, filter JournalFilter) ([]models.JournalEntry, error)

	// Lifecycle
	Close() error
}

// JournalFilter represents filters for querying journal entries.
type JournalFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Tags      []string
	Search    string
	Limit     int
}
