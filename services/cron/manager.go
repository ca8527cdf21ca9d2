package cron

import (
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	// Register all jobs
	if err := m.registerJobs(); err != nil {
		return err
	}

	// Start the cron scheduler
	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every minute: close out settlement logs left in progress
	_, err := m.cron.AddFunc("0 * * * * *", func() {
		m.ReconcileSettlements()
	})
	if err != nil {
		return err
	}

	// Hourly: purge expired blacklist tokens
	_, err = m.cron.AddFunc("0 0 * * * *", func() {
		m.CleanupExpiredTokens()
	})
	if err != nil {
		return err
	}

	// Daily at 03:00: purge old read notifications
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.CleanupOldNotifications()
	})
	return err
}
