package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// holdingRepository implements domain.HoldingRepository
type holdingRepository struct {
	db *DB
}

// NewHoldingRepository creates a new holding repository
func NewHoldingRepository(db *DB) domain.HoldingRepository {
	return &holdingRepository{db: db}
}

const holdingColumns = `
	id, external_id, user_id, kind,
	symbol, exchange, scheme_code, coin_id, quantity, purchase_price,
	asset_name, asset_type, invested_value, current_value,
	purchase_date, maturity_date, created_at, updated_at
`

// Create persists a new holding, assigning the internal and external
// identifiers when they are absent. The external ID is never reassigned.
func (r *holdingRepository) Create(ctx context.Context, holding *domain.Holding) error {
	if holding.ID == uuid.Nil {
		holding.ID = uuid.New()
	}
	if holding.ExternalID == "" {
		holding.ExternalID = uuid.NewString()
	}

	now := time.Now()
	holding.CreatedAt = now
	holding.UpdatedAt = now

	query := `
		INSERT INTO holdings (` + holdingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	var currentValue interface{}
	if holding.CurrentValue != nil {
		currentValue = holding.CurrentValue.String()
	}

	_, err := r.db.ExecContext(ctx, query,
		holding.ID,
		holding.ExternalID,
		holding.UserID,
		string(holding.Kind),
		nullString(holding.Symbol),
		nullString(holding.Exchange),
		nullString(holding.SchemeCode),
		nullString(holding.CoinID),
		holding.Quantity.String(),
		holding.PurchasePrice.String(),
		nullString(holding.AssetName),
		nullString(holding.AssetType),
		holding.InvestedValue.String(),
		currentValue,
		holding.PurchaseDate,
		holding.MaturityDate,
		holding.CreatedAt,
		holding.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create holding: %w", err)
	}

	return nil
}

// ListByUser retrieves all holdings owned by userID, optionally filtered by kind
func (r *holdingRepository) ListByUser(ctx context.Context, userID string, kind domain.HoldingKind) ([]*domain.Holding, error) {
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1
	`
	args := []interface{}{userID}

	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, string(kind))
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate holdings: %w", err)
	}

	return holdings, nil
}

// DeleteByExternalID deletes a holding scoped to its owner and kind.
// Deleting an absent or foreign holding deletes nothing and is not an error.
func (r *holdingRepository) DeleteByExternalID(ctx context.Context, userID, externalID string, kind domain.HoldingKind) (bool, error) {
	query := `
		DELETE FROM holdings
		WHERE external_id = $1 AND user_id = $2 AND kind = $3
	`

	result, err := r.db.ExecContext(ctx, query, externalID, userID, string(kind))
	if err != nil {
		return false, fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return affected > 0, nil
}

// ListUserIDs returns the distinct user IDs owning at least one holding
func (r *holdingRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM holdings ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}
	defer rows.Close()

	userIDs := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user ID: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user IDs: %w", err)
	}

	return userIDs, nil
}

// scanHolding reads one holdings row into a domain.Holding
func scanHolding(rows *sql.Rows) (*domain.Holding, error) {
	var holding domain.Holding
	var symbol, exchange, schemeCode, coinID, assetName, assetType sql.NullString
	var quantityStr, purchasePriceStr, investedValueStr, currentValueStr sql.NullString
	var purchaseDate, maturityDate sql.NullTime

	err := rows.Scan(
		&holding.ID,
		&holding.ExternalID,
		&holding.UserID,
		&holding.Kind,
		&symbol,
		&exchange,
		&schemeCode,
		&coinID,
		&quantityStr,
		&purchasePriceStr,
		&assetName,
		&assetType,
		&investedValueStr,
		&currentValueStr,
		&purchaseDate,
		&maturityDate,
		&holding.CreatedAt,
		&holding.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan holding: %w", err)
	}

	holding.Symbol = symbol.String
	holding.Exchange = exchange.String
	holding.SchemeCode = schemeCode.String
	holding.CoinID = coinID.String
	holding.AssetName = assetName.String
	holding.AssetType = assetType.String

	if holding.Quantity, err = parseNullDecimal(quantityStr, "quantity"); err != nil {
		return nil, err
	}
	if holding.PurchasePrice, err = parseNullDecimal(purchasePriceStr, "purchase_price"); err != nil {
		return nil, err
	}
	if holding.InvestedValue, err = parseNullDecimal(investedValueStr, "invested_value"); err != nil {
		return nil, err
	}

	// current_value stays nil when the user never recorded one
	if currentValueStr.Valid {
		currentValue, err := decimal.NewFromString(currentValueStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_value: %w", err)
		}
		holding.CurrentValue = &currentValue
	}

	if purchaseDate.Valid {
		holding.PurchaseDate = &purchaseDate.Time
	}
	if maturityDate.Valid {
		holding.MaturityDate = &maturityDate.Time
	}

	return &holding, nil
}

// parseNullDecimal parses a nullable DECIMAL column, treating NULL as zero
func parseNullDecimal(value sql.NullString, column string) (decimal.Decimal, error) {
	if !value.Valid {
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(value.String)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return parsed, nil
}

// nullString maps an empty string to SQL NULL
func nullString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
