package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockHoldingRepository) ListByUser(ctx context.Context, userID string, kind domain.HoldingKind) ([]*domain.Holding, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) DeleteByExternalID(ctx context.Context, userID, externalID string, kind domain.HoldingKind) (bool, error) {
	args := m.Called(ctx, userID, externalID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockHoldingRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestAddStock_Success(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(h *domain.Holding) bool {
		return h.UserID == "u1" &&
			h.Kind == domain.HoldingKindStock &&
			h.Symbol == "AAPL" &&
			h.Exchange == "NASDAQ" &&
			h.Quantity.Equal(decimal.NewFromInt(10)) &&
			h.PurchasePrice.Equal(decimal.NewFromInt(100))
	})).Return(nil)

	holding, err := service.AddStock(ctx, "u1", AddStockInput{
		Symbol:        "AAPL",
		Exchange:      "NASDAQ",
		Quantity:      decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(100),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.HoldingKindStock, holding.Kind)
	mockRepo.AssertExpectations(t)
}

func TestAddStock_ValidationFailureSkipsRepository(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	_, err := service.AddStock(ctx, "u1", AddStockInput{
		// Missing symbol
		Quantity:      decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(100),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "symbol")
	mockRepo.AssertNotCalled(t, "Create")
}

func TestAddManual_WithoutCurrentValue(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(h *domain.Holding) bool {
		return h.Kind == domain.HoldingKindManual &&
			h.AssetName == "HDFC Fixed Deposit" &&
			h.AssetType == "FD" &&
			h.CurrentValue == nil
	})).Return(nil)

	holding, err := service.AddManual(ctx, "u2", AddManualInput{
		AssetName:     "HDFC Fixed Deposit",
		AssetType:     "FD",
		InvestedValue: decimal.NewFromInt(4500),
	})

	assert.NoError(t, err)
	assert.Nil(t, holding.CurrentValue)
	mockRepo.AssertExpectations(t)
}

func TestAddCrypto_RepositoryFailurePropagates(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

	_, err := service.AddCrypto(ctx, "u1", AddCryptoInput{
		CoinID:        "bitcoin",
		Symbol:        "BTC",
		Quantity:      decimal.NewFromInt(1),
		PurchasePrice: decimal.NewFromInt(40000),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}

func TestListHoldings(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	expected := []*domain.Holding{
		{UserID: "u1", Kind: domain.HoldingKindStock, Symbol: "AAPL"},
	}
	mockRepo.On("ListByUser", ctx, "u1", domain.HoldingKindStock).Return(expected, nil)

	holdings, err := service.ListHoldings(ctx, "u1", domain.HoldingKindStock)

	assert.NoError(t, err)
	assert.Equal(t, expected, holdings)
	mockRepo.AssertExpectations(t)
}

func TestDeleteHolding_ForeignExternalIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	// The repository found nothing to delete (absent or owned by someone else)
	mockRepo.On("DeleteByExternalID", ctx, "u1", "ext-123", domain.HoldingKindStock).Return(false, nil)

	err := service.DeleteHolding(ctx, "u1", "ext-123", domain.HoldingKindStock)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestDeleteHolding_StoreFaultPropagates(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockHoldingRepository)
	service := NewService(mockRepo)

	mockRepo.On("DeleteByExternalID", ctx, "u1", "ext-123", domain.HoldingKindManual).
		Return(false, errors.New("connection reset"))

	err := service.DeleteHolding(ctx, "u1", "ext-123", domain.HoldingKindManual)

	assert.Error(t, err)
}
