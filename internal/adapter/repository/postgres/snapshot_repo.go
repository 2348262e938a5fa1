package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Create persists a new portfolio snapshot row.
// There is deliberately no unique constraint on (user_id, snapshot_date):
// running the snapshot job twice on the same day inserts two rows.
func (r *snapshotRepository) Create(ctx context.Context, snapshot *domain.PortfolioSnapshot) error {
	if snapshot.ID == uuid.Nil {
		snapshot.ID = uuid.New()
	}

	query := `
		INSERT INTO portfolio_history (id, user_id, snapshot_date, total_value)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.UserID,
		snapshot.SnapshotDate,
		snapshot.TotalValue.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio snapshot: %w", err)
	}

	return nil
}

// ListByUserSince retrieves a user's snapshots dated on or after since, oldest first
func (r *snapshotRepository) ListByUserSince(ctx context.Context, userID string, since time.Time) ([]*domain.PortfolioSnapshot, error) {
	query := `
		SELECT id, user_id, snapshot_date, total_value
		FROM portfolio_history
		WHERE user_id = $1 AND snapshot_date >= $2
		ORDER BY snapshot_date
	`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.PortfolioSnapshot, 0)
	for rows.Next() {
		var snapshot domain.PortfolioSnapshot
		var totalValueStr string

		err := rows.Scan(
			&snapshot.ID,
			&snapshot.UserID,
			&snapshot.SnapshotDate,
			&totalValueStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio snapshot: %w", err)
		}

		totalValue, err := decimal.NewFromString(totalValueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse total_value: %w", err)
		}
		snapshot.TotalValue = totalValue

		snapshots = append(snapshots, &snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate portfolio snapshots: %w", err)
	}

	return snapshots, nil
}
