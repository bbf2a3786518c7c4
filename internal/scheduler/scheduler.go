package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/config"
	"github.com/mamadbah2/campus/internal/service/notify"
	"github.com/mamadbah2/campus/internal/service/reporting"
)

// ReportRunner is the reporting surface the scheduled job drives.
type ReportRunner interface {
	Options() academics.ReportOptions
	ExportEnabled() bool
	AnnualReport(ctx context.Context, year int, opts academics.ReportOptions) (reporting.AnnualReportResult, error)
	ExportAnnualReport(ctx context.Context, year int) (reporting.AnnualReportResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	loc      *time.Location
	reports  ReportRunner
	notifier notify.Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
// notifier may be nil when notifications are disabled.
func NewScheduler(cfg config.ReportingConfig, reports ReportRunner, notifier notify.Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     cfg.CronSchedule,
		loc:      loc,
		reports:  reports,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start registers the annual report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runAnnualReport); err != nil {
		return fmt.Errorf("schedule annual report %q: %w", s.spec, err)
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.spec), zap.String("timezone", s.loc.String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runAnnualReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduled annual report failed", zap.Error(err))
	}
}

// RunOnce builds the current year's report, exports it when a spreadsheet is
// configured and announces it when a notifier is set.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	year := s.now().In(s.loc).Year()
	s.logger.Info("generating annual report", zap.Int("year", year))

	var (
		result reporting.AnnualReportResult
		err    error
	)
	if s.reports.ExportEnabled() {
		result, err = s.reports.ExportAnnualReport(ctx, year)
	} else {
		result, err = s.reports.AnnualReport(ctx, year, s.reports.Options())
	}
	if err != nil {
		return fmt.Errorf("annual report %d: %w", year, err)
	}

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.AnnounceReport(ctx, result); err != nil {
		return fmt.Errorf("announce annual report %d: %w", year, err)
	}
	s.logger.Info("annual report announced", zap.Int("year", year))
	return nil
}
