package valuation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// Service computes the current total value of a user's portfolio
type Service struct {
	HoldingRepo domain.HoldingRepository
	Prices      domain.PriceSource

	logger *zap.Logger
}

// NewService creates a new valuation Service instance
func NewService(holdingRepo domain.HoldingRepository, prices domain.PriceSource, logger *zap.Logger) *Service {
	return &Service{
		HoldingRepo: holdingRepo,
		Prices:      prices,
		logger:      logger,
	}
}

// TotalValue values every holding the user owns and returns the exact
// decimal sum.
//
// Logic:
//   - priced holdings (stock, mutual fund, crypto): quantity * current price
//     from the price source; if the lookup fails for any reason, fall back to
//     quantity * purchase price. The failure is absorbed here and never
//     propagates.
//   - manual holdings: the user-maintained current value; nil contributes
//     zero.
//
// Only a holding-store fault aborts the valuation.
func (s *Service) TotalValue(ctx context.Context, userID string) (decimal.Decimal, error) {
	holdings, err := s.HoldingRepo.ListByUser(ctx, userID, "")
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load holdings for user %s: %w", userID, err)
	}

	total := decimal.Zero
	for _, holding := range holdings {
		total = total.Add(s.lineValue(ctx, holding))
	}

	return total, nil
}

// lineValue values a single holding, applying the fallback policy
func (s *Service) lineValue(ctx context.Context, holding *domain.Holding) decimal.Decimal {
	identifier, priced := holding.PriceIdentifier()
	if !priced {
		if holding.CurrentValue == nil {
			return decimal.Zero
		}
		return *holding.CurrentValue
	}

	price, err := s.Prices.Price(ctx, holding.Kind, identifier)
	if err != nil {
		s.logger.Warn("price lookup failed, using purchase price",
			zap.String("kind", string(holding.Kind)),
			zap.String("identifier", identifier),
			zap.String("user_id", holding.UserID),
			zap.Error(err),
		)
		return holding.Quantity.Mul(holding.PurchasePrice)
	}

	return holding.Quantity.Mul(price)
}
