package scheduler

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// AuditCleaner provides the ability to delete old audit files.
type AuditCleaner interface {
	DeleteOlderThan(retentionDays int) (int, error)
}

// AuditCleanupScheduler periodically removes audit files older than the
// configured retention period.
type AuditCleanupScheduler struct {
	cleaner       AuditCleaner
	retentionDays int
	schedule      string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

func NewAuditCleanupScheduler(cleaner AuditCleaner, retentionDays int, schedule string) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		cleaner:       cleaner,
		retentionDays: retentionDays,
		schedule:      schedule,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the cleanup job and begins the scheduler.
func (s *AuditCleanupScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runCleanup)
	if err != nil {
		return fmt.Errorf("invalid audit cleanup schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler started: schedule %q, retention %d days", s.schedule, s.retentionDays)
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	log.Printf("Audit cleanup scheduler stopped")
}

func (s *AuditCleanupScheduler) runCleanup() {
	retentionDays := s.retentionDays
	if retentionDays <= 0 {
		retentionDays = 30
	}

	deleted, err := s.cleaner.DeleteOlderThan(retentionDays)
	if err != nil {
		log.Printf("Audit cleanup failed: %v", err)
		return
	}
	log.Printf("Cleaned up %d audit events older than %d days", deleted, retentionDays)
}
