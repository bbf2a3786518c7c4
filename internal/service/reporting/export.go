package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
)

const (
	summaryRange     = "Report!A:C"
	departmentsRange = "Departments!A:C"
	monthlyRange     = "Monthly!A:C"
	detailsRange     = "Details!A:H"
	historyRange     = "History!A:F"
)

// ExportAnnualReport builds the report of year and writes it to the
// configured spreadsheet, replacing the previous export.
func (s *Service) ExportAnnualReport(ctx context.Context, year int) (AnnualReportResult, error) {
	if s.exporter == nil {
		return AnnualReportResult{}, ErrExportDisabled
	}

	result, err := s.AnnualReport(ctx, year, s.opts)
	if err != nil {
		return AnnualReportResult{}, err
	}

	blocks := []struct {
		sheetRange string
		rows       [][]interface{}
	}{
		{summaryRange, summaryRows(result)},
		{departmentsRange, departmentRows(result.AnnualReport)},
		{monthlyRange, monthlyRows(result.AnnualReport)},
	}
	for _, b := range blocks {
		if err := s.exporter.ReplaceRange(ctx, b.sheetRange, b.rows); err != nil {
			return AnnualReportResult{}, fmt.Errorf("export annual report %d: %w", year, err)
		}
	}

	if err := s.exporter.AppendRows(ctx, historyRange, [][]interface{}{historyRow(result, time.Now())}); err != nil {
		s.logger.Warn("failed to record export history", zap.Int("year", year), zap.Error(err))
	}

	s.logger.Info("annual report exported", zap.Int("year", year), zap.Strings("degraded", result.Degraded))
	return result, nil
}

// ExportDetailView writes a drill-down row list to the Details sheet.
func (s *Service) ExportDetailView(ctx context.Context, kind academics.DetailKind, criteria academics.Criteria) (DetailViewResult, error) {
	if s.exporter == nil {
		return DetailViewResult{}, ErrExportDisabled
	}

	result, err := s.DetailView(ctx, kind, criteria)
	if err != nil {
		return DetailViewResult{}, err
	}

	if err := s.exporter.ReplaceRange(ctx, detailsRange, detailRows(result.Rows)); err != nil {
		return DetailViewResult{}, fmt.Errorf("export %s details: %w", kind, err)
	}

	s.logger.Info("detail view exported", zap.String("kind", string(kind)), zap.Int("rows", len(result.Rows)))
	return result, nil
}

func summaryRows(result AnnualReportResult) [][]interface{} {
	r := result.AnnualReport
	rows := [][]interface{}{
		{"Metric", "Value", "Percentage"},
		{"Year", r.Year, ""},
		{"Students", r.TotalStudents, ""},
		{"Teachers", r.TotalTeachers, ""},
		{"Departments", r.TotalDepartments, ""},
		{"Leave requests", r.TotalLeaveRequests, ""},
		{"Approved leaves", r.ApprovedLeaves, academics.Percentage(r.ApprovedLeaves, r.TotalLeaveRequests)},
		{"Rejected leaves", r.RejectedLeaves, academics.Percentage(r.RejectedLeaves, r.TotalLeaveRequests)},
		{"Pending leaves", r.PendingLeaves, academics.Percentage(r.PendingLeaves, r.TotalLeaveRequests)},
		{"Attendance days", r.AttendanceDays, ""},
		{"Presence", r.PresentCount, r.PresenceRatio},
	}
	for _, g := range r.Gender.Results() {
		rows = append(rows, []interface{}{"Gender " + g.GroupKey, g.Count, g.PercentageOfTotal})
	}
	for _, y := range r.YearOfStudy {
		rows = append(rows, []interface{}{y.GroupKey + " year", y.Count, y.PercentageOfTotal})
	}
	for _, d := range result.Degraded {
		rows = append(rows, []interface{}{"Unavailable input", d, ""})
	}
	return rows
}

// historyRow logs one export run: when, which year and the headline counts.
func historyRow(result AnnualReportResult, at time.Time) []interface{} {
	r := result.AnnualReport
	return []interface{}{
		at.UTC().Format(time.RFC3339),
		r.Year,
		r.TotalStudents,
		r.TotalTeachers,
		r.TotalLeaveRequests,
		strings.Join(result.Degraded, ","),
	}
}

func departmentRows(r academics.AnnualReport) [][]interface{} {
	rows := [][]interface{}{{"Department", "Students", "Teachers"}}
	for _, d := range r.Departments {
		rows = append(rows, []interface{}{d.Department, d.Students, d.Teachers})
	}
	return rows
}

func monthlyRows(r academics.AnnualReport) [][]interface{} {
	rows := [][]interface{}{{"Month", "Leaves", "Attendance"}}
	for _, m := range r.Monthly {
		rows = append(rows, []interface{}{m.Month.String(), m.Leaves, m.Attendance})
	}
	return rows
}

func detailRows(rows []academics.DetailRow) [][]interface{} {
	out := [][]interface{}{{"ID", "Name", "Department", "Status", "Date", "Detail 1", "Detail 2", "Detail 3"}}
	for _, r := range rows {
		row := []interface{}{r.ID, r.Name, r.Department, r.Status, r.Date}
		for _, key := range detailColumns(r) {
			row = append(row, key+": "+r.Fields[key])
		}
		out = append(out, row)
	}
	return out
}

// detailColumns picks up to three extra fields in a stable order.
func detailColumns(r academics.DetailRow) []string {
	order := []string{"rollNumber", "email", "students", "teachers", "studentRef", "reason", "year", "div"}
	cols := make([]string, 0, 3)
	for _, key := range order {
		if len(cols) == 3 {
			break
		}
		if v, ok := r.Fields[key]; ok && v != "" {
			cols = append(cols, key)
		}
	}
	return cols
}
