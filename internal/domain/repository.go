package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// HoldingRepository defines the interface for holding persistence operations
type HoldingRepository interface {
	// Create persists a new holding. The repository assigns the external
	// identifier (and internal ID) when the holding does not carry one yet.
	Create(ctx context.Context, holding *Holding) error

	// ListByUser retrieves all holdings owned by userID.
	// If kind is empty, holdings of every kind are returned.
	ListByUser(ctx context.Context, userID string, kind HoldingKind) ([]*Holding, error)

	// DeleteByExternalID deletes the holding with the given external ID if it
	// exists, is of the given kind and is owned by userID. Returns whether a
	// row was deleted; deleting an absent or foreign holding is not an error.
	DeleteByExternalID(ctx context.Context, userID, externalID string, kind HoldingKind) (bool, error)

	// ListUserIDs returns the distinct user IDs that currently own at least
	// one holding of any kind. Used by the snapshot job's discovery step.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// SnapshotRepository defines the interface for portfolio snapshot persistence
type SnapshotRepository interface {
	// Create persists a new snapshot row. Duplicate (user, date) pairs are
	// allowed; the snapshot job may legitimately run twice on one day.
	Create(ctx context.Context, snapshot *PortfolioSnapshot) error

	// ListByUserSince retrieves a user's snapshots with a date on or after
	// since, oldest first.
	ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*PortfolioSnapshot, error)
}

// PriceSource resolves a current unit price for a priced holding kind.
// Any failure (transport, status, response shape) is returned as a plain
// error; callers do not distinguish failure subtypes.
type PriceSource interface {
	Price(ctx context.Context, kind HoldingKind, identifier string) (decimal.Decimal, error)
}
