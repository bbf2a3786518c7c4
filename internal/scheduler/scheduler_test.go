package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/config"
	"github.com/mamadbah2/campus/internal/domain/models"
	"github.com/mamadbah2/campus/internal/service/reporting"
)

type fakeReports struct {
	export    bool
	built     []int
	exported  []int
	failBuild error
}

func (f *fakeReports) Options() academics.ReportOptions { return academics.DefaultReportOptions() }

func (f *fakeReports) ExportEnabled() bool { return f.export }

func (f *fakeReports) AnnualReport(_ context.Context, year int, _ academics.ReportOptions) (reporting.AnnualReportResult, error) {
	if f.failBuild != nil {
		return reporting.AnnualReportResult{}, f.failBuild
	}
	f.built = append(f.built, year)
	return reporting.AnnualReportResult{AnnualReport: academics.AnnualReport{Year: year}}, nil
}

func (f *fakeReports) ExportAnnualReport(_ context.Context, year int) (reporting.AnnualReportResult, error) {
	f.exported = append(f.exported, year)
	return reporting.AnnualReportResult{AnnualReport: academics.AnnualReport{Year: year}}, nil
}

type fakeNotifier struct {
	announced []int
}

func (f *fakeNotifier) Send(context.Context, models.OutboundMessage) error { return nil }

func (f *fakeNotifier) AnnounceReport(_ context.Context, r reporting.AnnualReportResult) error {
	f.announced = append(f.announced, r.Year)
	return nil
}

func newTestScheduler(t *testing.T, reports ReportRunner, notifier *fakeNotifier) *Scheduler {
	t.Helper()
	cfg := config.ReportingConfig{CronSchedule: "0 6 1 * *", Timezone: "UTC"}

	var s *Scheduler
	var err error
	if notifier == nil {
		s, err = NewScheduler(cfg, reports, nil, nil)
	} else {
		s, err = NewScheduler(cfg, reports, notifier, nil)
	}
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.now = func() time.Time { return time.Date(2025, time.January, 1, 6, 0, 0, 0, time.UTC) }
	return s
}

func TestRunOnceExportsAndAnnounces(t *testing.T) {
	reports := &fakeReports{export: true}
	notifier := &fakeNotifier{}
	s := newTestScheduler(t, reports, notifier)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(reports.exported) != 1 || reports.exported[0] != 2025 {
		t.Fatalf("expected export of 2025, got %v", reports.exported)
	}
	if len(reports.built) != 0 {
		t.Fatalf("expected no plain build when export is enabled")
	}
	if len(notifier.announced) != 1 || notifier.announced[0] != 2025 {
		t.Fatalf("expected announcement of 2025, got %v", notifier.announced)
	}
}

func TestRunOnceWithoutExportOrNotifier(t *testing.T) {
	reports := &fakeReports{}
	s := newTestScheduler(t, reports, nil)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(reports.built) != 1 || len(reports.exported) != 0 {
		t.Fatalf("expected a plain build only, got built=%v exported=%v", reports.built, reports.exported)
	}
}

func TestRunOnceReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	notifier := &fakeNotifier{}
	s := newTestScheduler(t, &fakeReports{failBuild: boom}, notifier)

	if err := s.RunOnce(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected build failure, got %v", err)
	}
	if len(notifier.announced) != 0 {
		t.Fatalf("expected no announcement after a failed build")
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := newTestScheduler(t, &fakeReports{}, nil)
	s.spec = "not a schedule"

	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatalf("expected invalid schedule to be rejected")
	}
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	cfg := config.ReportingConfig{CronSchedule: "0 6 1 * *", Timezone: "Nowhere/Town"}
	if _, err := NewScheduler(cfg, &fakeReports{}, nil, nil); err == nil {
		t.Fatalf("expected unknown timezone to fail")
	}
}
