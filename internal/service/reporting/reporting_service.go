package reporting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/domain/models"
	"github.com/mamadbah2/campus/internal/repository/sheets"
)

// ErrExportDisabled is returned when no spreadsheet is configured.
var ErrExportDisabled = errors.New("spreadsheet export is not configured")

const (
	inputPeople     = "people"
	inputLeaves     = "leaves"
	inputAttendance = "attendance"
	inputBatches    = "batches"
)

// Source is the read side of the document store.
type Source interface {
	ListPeople(ctx context.Context) ([]models.PersonRecord, error)
	ListLeaves(ctx context.Context) ([]models.LeaveRecord, error)
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
	ListBatches(ctx context.Context) ([]models.BatchDefinition, error)
}

// AnnualReportResult is the report plus the inputs that could not be fetched.
type AnnualReportResult struct {
	academics.AnnualReport
	Degraded []string `json:"degraded,omitempty"`
}

// DetailViewResult is a drill-down row list.
type DetailViewResult struct {
	Kind     academics.DetailKind  `json:"kind"`
	Rows     []academics.DetailRow `json:"rows"`
	Degraded []string              `json:"degraded,omitempty"`
}

// Service fetches portal collections and runs the academics aggregations.
type Service struct {
	source   Source
	exporter sheets.Repository
	opts     academics.ReportOptions
	logger   *zap.Logger
}

// NewService wires a new reporting service instance. exporter may be nil.
func NewService(source Source, exporter sheets.Repository, opts academics.ReportOptions, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, exporter: exporter, opts: opts, logger: logger}
}

// Options returns the default report policy.
func (s *Service) Options() academics.ReportOptions { return s.opts }

// ExportEnabled reports whether a spreadsheet is configured.
func (s *Service) ExportEnabled() bool { return s.exporter != nil }

// AnnualReport builds the report of year. A collection that fails to load
// degrades to empty instead of failing the report.
func (s *Service) AnnualReport(ctx context.Context, year int, opts academics.ReportOptions) (AnnualReportResult, error) {
	f := s.newFetch(ctx)
	var in academics.ReportInputs
	f.run(inputPeople, func(ctx context.Context) (err error) { in.People, err = s.source.ListPeople(ctx); return })
	f.run(inputLeaves, func(ctx context.Context) (err error) { in.Leaves, err = s.source.ListLeaves(ctx); return })
	f.run(inputAttendance, func(ctx context.Context) (err error) { in.Attendance, err = s.source.ListAttendance(ctx); return })
	f.run(inputBatches, func(ctx context.Context) (err error) { in.Batches, err = s.source.ListBatches(ctx); return })

	degraded, err := f.wait()
	if err != nil {
		return AnnualReportResult{}, err
	}

	report := academics.BuildAnnualReport(year, in, opts)
	if report.SkippedLeaves > 0 || report.SkippedAttendance > 0 || report.SkippedBatches > 0 {
		s.logger.Debug("records skipped while aggregating",
			zap.Int("year", year),
			zap.Int("leaves", report.SkippedLeaves),
			zap.Int("attendance", report.SkippedAttendance),
			zap.Int("batches", report.SkippedBatches))
	}

	return AnnualReportResult{AnnualReport: report, Degraded: degraded}, nil
}

// DetailView builds the drill-down rows of kind narrowed by criteria. Empty
// search fields default to the kind's own.
func (s *Service) DetailView(ctx context.Context, kind academics.DetailKind, criteria academics.Criteria) (DetailViewResult, error) {
	f := s.newFetch(ctx)
	var people []models.PersonRecord
	var leaves []models.LeaveRecord
	f.run(inputPeople, func(ctx context.Context) (err error) { people, err = s.source.ListPeople(ctx); return })
	if needsLeaves(kind) {
		f.run(inputLeaves, func(ctx context.Context) (err error) { leaves, err = s.source.ListLeaves(ctx); return })
	}

	degraded, err := f.wait()
	if err != nil {
		return DetailViewResult{}, err
	}

	rows, err := academics.BuildDetailView(kind, people, leaves, s.opts.Location)
	if err != nil {
		return DetailViewResult{}, err
	}

	if len(criteria.SearchFields) == 0 {
		criteria.SearchFields = academics.SearchFields(kind)
	}
	rows = academics.Filter(rows, criteria)

	return DetailViewResult{Kind: kind, Rows: rows, Degraded: degraded}, nil
}

func needsLeaves(kind academics.DetailKind) bool {
	switch kind {
	case academics.KindLeaves, academics.KindApproved, academics.KindRejected, academics.KindPending:
		return true
	default:
		return false
	}
}

// fetch runs collection loads concurrently and records which ones failed.
type fetch struct {
	ctx      context.Context
	group    errgroup.Group
	mu       sync.Mutex
	degraded []string
	logger   *zap.Logger
}

func (s *Service) newFetch(ctx context.Context) *fetch {
	return &fetch{ctx: ctx, logger: s.logger}
}

func (f *fetch) run(name string, load func(context.Context) error) {
	f.group.Go(func() error {
		if err := load(f.ctx); err != nil {
			f.logger.Warn("report input unavailable, using empty collection", zap.String("input", name), zap.Error(err))
			f.mu.Lock()
			f.degraded = append(f.degraded, name)
			f.mu.Unlock()
		}
		return nil
	})
}

// wait blocks until every load finished. Only cancellation of the caller's
// context is an error; failed loads are reported in degraded order of
// declaration.
func (f *fetch) wait() ([]string, error) {
	_ = f.group.Wait()
	if err := f.ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch report inputs: %w", err)
	}
	return orderInputs(f.degraded), nil
}

func orderInputs(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range []string{inputPeople, inputLeaves, inputAttendance, inputBatches} {
		if seen[n] {
			out = append(out, n)
		}
	}
	return out
}
