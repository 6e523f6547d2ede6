// Package store persists walk reports.
//
// Two backends are provided: an in-memory store for the CLI and tests,
// and a MongoDB store for serve deployments that keep report history.
package store

import (
	"context"
	"errors"

	"github.com/depwalk/depwalk/pkg/report"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("report not found")

// Store is the interface for report persistence backends.
type Store interface {
	// Save stores a report, overwriting any report with the same ID.
	Save(ctx context.Context, r report.Report) error

	// Get retrieves a report by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (report.Report, error)

	// List returns up to limit reports for pkg, newest first.
	// An empty pkg lists across all packages.
	List(ctx context.Context, pkg string, limit int) ([]report.Report, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
