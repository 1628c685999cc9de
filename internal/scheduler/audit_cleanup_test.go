package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	calls int
	days  int
}

func (f *fakeCleaner) DeleteOlderThan(retentionDays int) (int, error) {
	f.calls++
	f.days = retentionDays
	return 3, nil
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := NewAuditCleanupScheduler(&fakeCleaner{}, 30, "not a cron expression")
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewAuditCleanupScheduler(&fakeCleaner{}, 30, "0 3 * * *")
	require.NoError(t, s.Start())
	// Idempotent start
	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
}

func TestRunCleanupUsesConfiguredRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewAuditCleanupScheduler(cleaner, 15, "0 3 * * *")

	s.runCleanup()
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 15, cleaner.days)
}

func TestRunCleanupDefaultsRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	s := NewAuditCleanupScheduler(cleaner, 0, "0 3 * * *")

	s.runCleanup()
	assert.Equal(t, 30, cleaner.days)
}
