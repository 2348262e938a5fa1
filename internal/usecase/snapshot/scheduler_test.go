package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextRun_LaterToday(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 30, 0, 0, time.Local)

	next := nextRun(now, 1, 0)

	assert.Equal(t, time.Date(2026, 9, 1, 1, 0, 0, 0, time.Local), next)
}

func TestNextRun_AlreadyPassedTodayRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 9, 1, 9, 15, 0, 0, time.Local)

	next := nextRun(now, 1, 0)

	assert.Equal(t, time.Date(2026, 9, 2, 1, 0, 0, 0, time.Local), next)
}

func TestNextRun_ExactlyAtTriggerRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 9, 1, 1, 0, 0, 0, time.Local)

	next := nextRun(now, 1, 0)

	// Strictly after now, so the trigger instant itself rolls over
	assert.Equal(t, time.Date(2026, 9, 2, 1, 0, 0, 0, time.Local), next)
}

func TestNextRun_MonthBoundary(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 0, 0, time.Local)

	next := nextRun(now, 1, 0)

	assert.Equal(t, time.Date(2026, 9, 1, 1, 0, 0, 0, time.Local), next)
}
