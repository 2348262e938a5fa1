package portfolio

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// Service handles holding CRUD operations
type Service struct {
	HoldingRepo domain.HoldingRepository
}

// NewService creates a new portfolio Service instance
func NewService(holdingRepo domain.HoldingRepository) *Service {
	return &Service{HoldingRepo: holdingRepo}
}

// AddStockInput carries the caller-supplied fields of a new stock holding
type AddStockInput struct {
	Symbol        string
	Exchange      string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
}

// AddMutualFundInput carries the caller-supplied fields of a new mutual fund holding
type AddMutualFundInput struct {
	SchemeCode    string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
}

// AddCryptoInput carries the caller-supplied fields of a new crypto holding
type AddCryptoInput struct {
	CoinID        string
	Symbol        string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	PurchaseDate  *time.Time
}

// AddManualInput carries the caller-supplied fields of a new manual holding
type AddManualInput struct {
	AssetName     string
	AssetType     string
	InvestedValue decimal.Decimal
	CurrentValue  *decimal.Decimal
	PurchaseDate  *time.Time
	MaturityDate  *time.Time
}

// AddStock creates a stock holding for userID
func (s *Service) AddStock(ctx context.Context, userID string, input AddStockInput) (*domain.Holding, error) {
	holding := &domain.Holding{
		UserID:        userID,
		Kind:          domain.HoldingKindStock,
		Symbol:        input.Symbol,
		Exchange:      input.Exchange,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
	}
	return s.add(ctx, holding)
}

// AddMutualFund creates a mutual fund holding for userID
func (s *Service) AddMutualFund(ctx context.Context, userID string, input AddMutualFundInput) (*domain.Holding, error) {
	holding := &domain.Holding{
		UserID:        userID,
		Kind:          domain.HoldingKindMutualFund,
		SchemeCode:    input.SchemeCode,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
	}
	return s.add(ctx, holding)
}

// AddCrypto creates a crypto holding for userID
func (s *Service) AddCrypto(ctx context.Context, userID string, input AddCryptoInput) (*domain.Holding, error) {
	holding := &domain.Holding{
		UserID:        userID,
		Kind:          domain.HoldingKindCrypto,
		CoinID:        input.CoinID,
		Symbol:        input.Symbol,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		PurchaseDate:  input.PurchaseDate,
	}
	return s.add(ctx, holding)
}

// AddManual creates a manually tracked holding for userID
func (s *Service) AddManual(ctx context.Context, userID string, input AddManualInput) (*domain.Holding, error) {
	holding := &domain.Holding{
		UserID:        userID,
		Kind:          domain.HoldingKindManual,
		AssetName:     input.AssetName,
		AssetType:     input.AssetType,
		InvestedValue: input.InvestedValue,
		CurrentValue:  input.CurrentValue,
		PurchaseDate:  input.PurchaseDate,
		MaturityDate:  input.MaturityDate,
	}
	return s.add(ctx, holding)
}

func (s *Service) add(ctx context.Context, holding *domain.Holding) (*domain.Holding, error) {
	if err := holding.Validate(); err != nil {
		return nil, err
	}
	if err := s.HoldingRepo.Create(ctx, holding); err != nil {
		return nil, err
	}
	return holding, nil
}

// ListHoldings retrieves userID's holdings of the given kind
func (s *Service) ListHoldings(ctx context.Context, userID string, kind domain.HoldingKind) ([]*domain.Holding, error) {
	return s.HoldingRepo.ListByUser(ctx, userID, kind)
}

// DeleteHolding removes a holding by external ID, scoped to the owning user.
// Deleting an absent or foreign external ID is a silent no-op.
func (s *Service) DeleteHolding(ctx context.Context, userID, externalID string, kind domain.HoldingKind) error {
	_, err := s.HoldingRepo.DeleteByExternalID(ctx, userID, externalID, kind)
	return err
}
