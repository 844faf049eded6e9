// Package store persists canonical match records. The repository is
// keyed by match ID even though the service pins a single ID from
// configuration, so "one current record" is a deployment choice rather
// than an assumption baked into the storage layer.
package store

import (
	"context"

	"github.com/vivantaneja/Scoresheet-Analyser/pkg/models"
)

// MatchRepository defines the interface for match record persistence.
// Load is self-healing: an absent record yields the persisted default
// record, never an error. Save replaces the whole record; there is no
// partial update and concurrent writers race with last-writer-wins.
type MatchRepository interface {
	Load(ctx context.Context, matchID string) (*models.MatchRecord, error)
	Save(ctx context.Context, matchID string, rec *models.MatchRecord) error
	Ping(ctx context.Context) error
	Close() error
}
