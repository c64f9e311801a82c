package server

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/healthsoc/blogapi/auth"
	"github.com/healthsoc/blogapi/repository"
)

// Maintenance runs the periodic sweeps: expired revocation entries out of
// the in-memory registry, unverified newsletter rows past retention out of
// the database.
type Maintenance struct {
	cron      *cron.Cron
	registry  *auth.RevocationRegistry
	repo      repository.Manager
	retention time.Duration
	logger    auth.Logger
}

func NewMaintenance(registry *auth.RevocationRegistry, repo repository.Manager, retention time.Duration, logger auth.Logger) *Maintenance {
	if logger == nil {
		logger = defLogger{}
	}
	if retention <= 0 {
		retention = 72 * time.Hour
	}
	return &Maintenance{
		cron:      cron.New(),
		registry:  registry,
		repo:      repo,
		retention: retention,
		logger:    logger,
	}
}

// Start schedules the sweep and kicks off the cron runner.
func (m *Maintenance) Start(schedule string) error {
	if schedule == "" {
		schedule = "@hourly"
	}

	if _, err := m.cron.AddFunc(schedule, m.sweep); err != nil {
		return err
	}

	m.cron.Start()
	m.logger.Info("maintenance sweep scheduled: %s", schedule)
	return nil
}

// Stop halts the runner and waits for an in-flight sweep to finish.
func (m *Maintenance) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *Maintenance) sweep() {
	purged := m.registry.PurgeExpired()
	if purged > 0 {
		m.logger.Info("purged %d expired revocation entries", purged)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-m.retention)
	removed, err := m.repo.Subscribers().DeleteUnverifiedBefore(ctx, cutoff)
	if err != nil {
		m.logger.Error("unverified subscriber sweep failed: %v", err)
		return
	}
	if removed > 0 {
		m.logger.Info("removed %d unverified subscribers older than %s", removed, m.retention)
	}
}
