package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidHolding marks validation failures so callers can map them to a
// client error instead of a server fault.
var ErrInvalidHolding = errors.New("invalid holding")

// HoldingKind represents the type of a holding in the system
type HoldingKind string

const (
	HoldingKindStock      HoldingKind = "stock"
	HoldingKindMutualFund HoldingKind = "mutualfund"
	HoldingKindCrypto     HoldingKind = "crypto"
	HoldingKindManual     HoldingKind = "manual"
)

// Holding represents a single tracked asset position in the domain layer.
// It is a tagged variant: Kind decides which of the optional fields are
// meaningful. Stock/mutual-fund/crypto positions carry quantity, purchase
// price and a kind-specific market identifier; manual positions carry a
// user-maintained value instead and are never priced live.
type Holding struct {
	ID         uuid.UUID
	ExternalID string // opaque, unique, assigned once at creation
	UserID     string
	Kind       HoldingKind

	// Priced variants (stock, mutualfund, crypto)
	Symbol        string // stock, crypto
	Exchange      string // stock
	SchemeCode    string // mutualfund
	CoinID        string // crypto
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal

	// Manual variant
	AssetName     string
	AssetType     string // e.g. "FD", "Real Estate", "Gold"
	InvestedValue decimal.Decimal
	CurrentValue  *decimal.Decimal // NULL until the user records one

	PurchaseDate *time.Time
	MaturityDate *time.Time // optional, manual only

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceIdentifier returns the identifier used to look up a live price for
// this holding, and whether the holding is priced at all. Manual holdings
// have no live pricing.
func (h *Holding) PriceIdentifier() (string, bool) {
	switch h.Kind {
	case HoldingKindStock:
		return h.Symbol, true
	case HoldingKindMutualFund:
		return h.SchemeCode, true
	case HoldingKindCrypto:
		return h.CoinID, true
	default:
		return "", false
	}
}

// Validate ensures the holding adheres to domain rules
// Returns an error if validation fails
func (h *Holding) Validate() error {
	if h.UserID == "" {
		return fmt.Errorf("%w: user ID cannot be empty", ErrInvalidHolding)
	}

	switch h.Kind {
	case HoldingKindStock:
		if h.Symbol == "" {
			return fmt.Errorf("%w: stock holding must have a symbol", ErrInvalidHolding)
		}
	case HoldingKindMutualFund:
		if h.SchemeCode == "" {
			return fmt.Errorf("%w: mutual fund holding must have a scheme code", ErrInvalidHolding)
		}
	case HoldingKindCrypto:
		if h.CoinID == "" {
			return fmt.Errorf("%w: crypto holding must have a coin ID", ErrInvalidHolding)
		}
	case HoldingKindManual:
		if h.AssetName == "" {
			return fmt.Errorf("%w: manual holding must have an asset name", ErrInvalidHolding)
		}
		if h.AssetType == "" {
			return fmt.Errorf("%w: manual holding must have an asset type", ErrInvalidHolding)
		}
		if h.InvestedValue.IsNegative() {
			return fmt.Errorf("%w: invested value cannot be negative", ErrInvalidHolding)
		}
		return nil
	default:
		return fmt.Errorf("%w: kind must be stock, mutualfund, crypto or manual", ErrInvalidHolding)
	}

	// Shared rules for the priced variants
	if h.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidHolding)
	}
	if h.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase price cannot be negative", ErrInvalidHolding)
	}

	return nil
}
