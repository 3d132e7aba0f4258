package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/leapscholar/perception-monitor/internal/config"
	"github.com/leapscholar/perception-monitor/internal/models"
	"github.com/leapscholar/perception-monitor/internal/notifications"
	"github.com/leapscholar/perception-monitor/internal/telemetry"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Loader runs a fetch cycle and returns its snapshot
type Loader interface {
	Load(ctx context.Context) (*models.Snapshot, error)
}

// Archiver persists ready snapshots
type Archiver interface {
	Save(ctx context.Context, snapshot *models.Snapshot) (string, error)
}

// Service handles scheduling of digest runs
type Service struct {
	config   *config.Config
	loader   Loader
	archive  Archiver
	notifier notifications.NotificationInterface
	cron     *cron.Cron
	timeout  time.Duration
}

// NewService creates a new scheduler service. archive may be nil.
func NewService(cfg *config.Config, loader Loader, archive Archiver, notifier notifications.NotificationInterface) (*Service, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.TimeZone, err)
	}

	return &Service{
		config:   cfg,
		loader:   loader,
		archive:  archive,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		timeout:  5 * time.Minute,
	}, nil
}

// Expression returns the cron expression for a digest schedule
func Expression(schedule string) (string, bool) {
	switch schedule {
	case "daily":
		// 9 AM every day
		return "0 0 9 * * *", true
	case "weekly":
		// 9 AM on Mondays
		return "0 0 9 * * MON", true
	default:
		return "", false
	}
}

// Start begins the scheduled digests. It does nothing when no schedule is configured.
func (s *Service) Start() error {
	expression, ok := Expression(s.config.DigestSchedule)
	if !ok {
		logrus.Info("No digest schedule configured, scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(expression, func() {
		logrus.Info("Starting scheduled digest run")
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.RunDigest(ctx); err != nil {
			logrus.Errorf("Scheduled digest run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (%s)", s.config.DigestSchedule, s.config.TimeZone)
	return nil
}

// RunDigest refreshes the dashboard, archives the snapshot and sends it out
func (s *Service) RunDigest(ctx context.Context) error {
	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		telemetry.DigestsSent.WithLabelValues("skipped").Inc()
		return fmt.Errorf("failed to refresh dashboard: %w", err)
	}

	if s.archive != nil {
		if name, err := s.archive.Save(ctx, snapshot); err != nil {
			logrus.Errorf("Failed to archive snapshot: %v", err)
		} else {
			logrus.Infof("Archived snapshot as %s", name)
		}
	}

	if err := s.notifier.SendDigest(ctx, snapshot); err != nil {
		telemetry.DigestsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send digest: %w", err)
	}

	telemetry.DigestsSent.WithLabelValues("sent").Inc()
	logrus.Infof("Digest for snapshot %s sent", snapshot.ID)
	return nil
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
