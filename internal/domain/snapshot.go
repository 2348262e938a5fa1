package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioSnapshot represents one persisted total-valuation point for a
// user. One row per user per snapshot run; SnapshotDate is a calendar date
// (the time component is always midnight).
type PortfolioSnapshot struct {
	ID           uuid.UUID
	UserID       string
	SnapshotDate time.Time
	TotalValue   decimal.Decimal
}
