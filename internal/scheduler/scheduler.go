package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/cleanup"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/config"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/database"
	"github.com/SmartWay-jhyeo/SwTsxHostLab-sub001/internal/search"
)

const reindexPageSize = 500

// Scheduler handles nightly maintenance: a full search reindex and an
// optional retention cleanup.
type Scheduler struct {
	cron      *cron.Cron
	db        *database.GormDB
	search    *search.SearchClient
	cleanup   *cleanup.Service
	config    *config.Config
	logger    *logrus.Logger
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(db *database.GormDB, searchClient *search.SearchClient, cleanupService *cleanup.Service, cfg *config.Config, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		db:      db,
		search:  searchClient,
		cleanup: cleanupService,
		config:  cfg,
		logger:  logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.DailyReindexEnabled {
		s.logger.Info("Scheduler: daily reindex is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Scheduler.DailyReindexTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		s.logger.Info("Scheduler: starting nightly maintenance")
		if err := s.runNightly(); err != nil {
			s.logger.WithError(err).Error("Scheduler: nightly maintenance failed")
		} else {
			s.logger.Info("Scheduler: nightly maintenance completed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithFields(logrus.Fields{
		"time": s.config.Scheduler.DailyReindexTime,
		"cron": cronSpec,
	}).Info("Scheduler: started")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		s.logger.Info("Scheduler: stopped")
	}
}

// runNightly reindexes every property into the search index, then runs the
// retention cleanup when enabled.
func (s *Scheduler) runNightly() error {
	if s.search != nil {
		if err := s.reindexAll(); err != nil {
			return err
		}
	}

	if s.config.Scheduler.CleanupEnabled && s.cleanup != nil {
		cleanupConfig := cleanup.DefaultCleanupConfig()
		if s.config.Scheduler.RetentionDays > 0 {
			cleanupConfig.RetentionDays = s.config.Scheduler.RetentionDays
		}
		result, err := s.cleanup.PhysicallyDelete(cleanupConfig)
		if err != nil {
			return err
		}
		s.logger.WithFields(logrus.Fields{
			"deleted": result.DeletedCount,
			"errors":  result.ErrorCount,
		}).Info("Scheduler: retention cleanup finished")
	}

	return nil
}

// reindexAll pages through the property table and pushes every page into
// the search index.
func (s *Scheduler) reindexAll() error {
	offset := 0
	total := 0
	for {
		page, err := s.db.GetPropertiesPage(offset, reindexPageSize)
		if err != nil {
			return fmt.Errorf("reindex page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}
		if err := s.search.IndexProperties(page); err != nil {
			return fmt.Errorf("index page at offset %d: %w", offset, err)
		}
		total += len(page)
		offset += reindexPageSize
	}

	s.logger.WithField("count", total).Info("Scheduler: search reindex finished")
	return nil
}

// RunNow immediately executes the nightly maintenance (for manual trigger)
func (s *Scheduler) RunNow() error {
	s.logger.Info("Scheduler: manual trigger")
	return s.runNightly()
}

// parseDailyRunTime converts HH:MM format to a cron expression
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	s.logger.WithField("value", timeStr).Warn("Scheduler: failed to parse time, using default 02:00")
	return "0 2 * * *"
}
