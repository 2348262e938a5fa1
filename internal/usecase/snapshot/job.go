package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/folioflow/portfolio-backend/internal/domain"
)

// ErrAlreadyRunning is returned when Run is invoked while a previous run is
// still in flight in this process.
var ErrAlreadyRunning = errors.New("snapshot run already in progress")

// Valuator computes one user's total portfolio value
type Valuator interface {
	TotalValue(ctx context.Context, userID string) (decimal.Decimal, error)
}

// Job orchestrates the daily portfolio snapshot across all known users
type Job struct {
	HoldingRepo  domain.HoldingRepository
	SnapshotRepo domain.SnapshotRepository
	Valuation    Valuator

	logger  *zap.Logger
	running atomic.Bool
}

// NewJob creates a new snapshot Job instance
func NewJob(holdingRepo domain.HoldingRepository, snapshotRepo domain.SnapshotRepository, valuation Valuator, logger *zap.Logger) *Job {
	return &Job{
		HoldingRepo:  holdingRepo,
		SnapshotRepo: snapshotRepo,
		Valuation:    valuation,
		logger:       logger,
	}
}

// Run discovers every user owning at least one holding, valuates each one
// and persists a snapshot row dated today. Per-user failures are logged and
// skipped; one bad user never aborts the batch. Returns the number of users
// attempted.
//
// Running twice on the same date appends a second row per user; there is no
// per-day dedup at this layer. A concurrent Run in the same process is
// rejected with ErrAlreadyRunning.
func (j *Job) Run(ctx context.Context) (int, error) {
	if !j.running.CompareAndSwap(false, true) {
		return 0, ErrAlreadyRunning
	}
	defer j.running.Store(false)

	userIDs, err := j.HoldingRepo.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to discover users: %w", err)
	}

	j.logger.Info("starting daily portfolio snapshot job", zap.Int("users", len(userIDs)))

	snapshotDate := dateOf(time.Now())
	failed := 0

	for _, userID := range userIDs {
		if err := j.snapshotUser(ctx, userID, snapshotDate); err != nil {
			failed++
			j.logger.Error("failed to create snapshot for user",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			continue
		}
	}

	j.logger.Info("portfolio snapshot job complete",
		zap.Int("processed", len(userIDs)),
		zap.Int("succeeded", len(userIDs)-failed),
		zap.Int("failed", failed),
	)

	return len(userIDs), nil
}

func (j *Job) snapshotUser(ctx context.Context, userID string, snapshotDate time.Time) error {
	totalValue, err := j.Valuation.TotalValue(ctx, userID)
	if err != nil {
		return err
	}

	snapshot := &domain.PortfolioSnapshot{
		ID:           uuid.New(),
		UserID:       userID,
		SnapshotDate: snapshotDate,
		TotalValue:   totalValue,
	}

	if err := j.SnapshotRepo.Create(ctx, snapshot); err != nil {
		return err
	}

	j.logger.Info("saved snapshot for user",
		zap.String("user_id", userID),
		zap.String("total_value", totalValue.String()),
	)

	return nil
}

// History retrieves a user's snapshot rows dated on or after since
func (j *Job) History(ctx context.Context, userID string, since time.Time) ([]*domain.PortfolioSnapshot, error) {
	return j.SnapshotRepo.ListByUserSince(ctx, userID, dateOf(since))
}

// dateOf truncates a timestamp to its local calendar date
func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
