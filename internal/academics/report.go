package academics

import (
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/campus/internal/domain/models"
)

// ReportOptions carries the policy switches of the annual report.
type ReportOptions struct {
	// IncludeUnassignedInAnyYear counts people without a batch year in every
	// year's cohort.
	IncludeUnassignedInAnyYear bool
	// Location is the calendar the report buckets dates in. Nil means UTC.
	Location *time.Location
}

// DefaultReportOptions mirrors the behaviour the portal has always had.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{IncludeUnassignedInAnyYear: true, Location: time.UTC}
}

func (o ReportOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

// ReportInputs are the collections a report is built from. Any of them may be
// nil when its fetch failed.
type ReportInputs struct {
	People     []models.PersonRecord
	Leaves     []models.LeaveRecord
	Attendance []models.AttendanceRecord
	Batches    []models.BatchDefinition
}

// AnnualReport is the aggregated view of one calendar year.
type AnnualReport struct {
	Year             int `json:"year"`
	TotalStudents    int `json:"totalStudents"`
	TotalTeachers    int `json:"totalTeachers"`
	TotalDepartments int `json:"totalDepartments"`

	TotalLeaveRequests int                 `json:"totalLeaveRequests"`
	ApprovedLeaves     int                 `json:"approvedLeaves"`
	RejectedLeaves     int                 `json:"rejectedLeaves"`
	PendingLeaves      int                 `json:"pendingLeaves"`
	LeaveStatus        []AggregationResult `json:"leaveStatus"`

	AttendanceDays    int     `json:"attendanceDays"`
	AttendanceRecords int     `json:"attendanceRecords"`
	PresentCount      int     `json:"presentCount"`
	PresenceRatio     float64 `json:"presenceRatio"`

	Departments []DepartmentBreakdown `json:"departments"`
	Monthly     []MonthlyVolume       `json:"monthly"`
	Gender      GenderDistribution    `json:"gender"`
	YearOfStudy []AggregationResult   `json:"yearOfStudy"`
	Batches     []BatchSummary        `json:"batches"`

	SkippedLeaves     int `json:"skippedLeaves"`
	SkippedAttendance int `json:"skippedAttendance"`
	SkippedBatches    int `json:"skippedBatches"`
}

// DepartmentBreakdown counts a department's cohort.
type DepartmentBreakdown struct {
	Department string `json:"department"`
	Students   int    `json:"students"`
	Teachers   int    `json:"teachers"`
}

// MonthlyVolume is the leave and attendance volume of one month.
type MonthlyVolume struct {
	Month      time.Month `json:"month"`
	Leaves     int        `json:"leaves"`
	Attendance int        `json:"attendance"`
}

// GenderDistribution splits students into three exhaustive buckets.
type GenderDistribution struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Other  int `json:"other"`
}

// Total is the number of people classified.
func (g GenderDistribution) Total() int { return g.Male + g.Female + g.Other }

// Results returns the buckets in male, female, other order.
func (g GenderDistribution) Results() []AggregationResult {
	total := g.Total()
	return []AggregationResult{
		{GroupKey: GenderMale, Count: g.Male, PercentageOfTotal: Percentage(g.Male, total)},
		{GroupKey: GenderFemale, Count: g.Female, PercentageOfTotal: Percentage(g.Female, total)},
		{GroupKey: GenderOther, Count: g.Other, PercentageOfTotal: Percentage(g.Other, total)},
	}
}

// BatchSummary is the cohort size of one batch.
type BatchSummary struct {
	BatchName  string `json:"batchName"`
	Department string `json:"department"`
	Div        string `json:"div"`
	Members    int    `json:"members"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// YearOfStudyLabels are the canonical year-of-study buckets.
var YearOfStudyLabels = []string{"1st", "2nd", "3rd", "4th"}

var yearOfStudyAliases = map[string]string{
	"1": "1st", "1st": "1st", "first": "1st", "fy": "1st", "fe": "1st",
	"2": "2nd", "2nd": "2nd", "second": "2nd", "sy": "2nd", "se": "2nd",
	"3": "3rd", "3rd": "3rd", "third": "3rd", "ty": "3rd", "te": "3rd",
	"4": "4th", "4th": "4th", "fourth": "4th", "be": "4th", "final": "4th",
}

// ClassifyGender maps a free-form gender value onto male, female or other.
// Blank and unknown values are other.
func ClassifyGender(raw string) string {
	switch fold(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderOther
	}
}

// YearOfStudyLabel maps a stored year-of-study onto 1st..4th, or "".
func YearOfStudyLabel(raw string) string {
	key := fold(strings.TrimSpace(raw))
	key = strings.TrimSuffix(key, " year")
	return yearOfStudyAliases[key]
}

// InCohort reports whether student p belongs to year's cohort.
func InCohort(p models.PersonRecord, year int, opts ReportOptions) bool {
	batchYear := strings.TrimSpace(p.BatchYear)
	if batchYear == "" {
		return opts.IncludeUnassignedInAnyYear
	}
	return batchYear == strconv.Itoa(year)
}

// BuildAnnualReport aggregates the inputs for year. It is total over partial
// inputs: missing collections yield zero figures.
func BuildAnnualReport(year int, in ReportInputs, opts ReportOptions) AnnualReport {
	report := AnnualReport{Year: year}
	loc := opts.location()
	dateOf := func(v any) Date { return NormalizeIn(v, loc) }

	// the cohort rule is about batch years, which only students carry
	var students, teachers []models.PersonRecord
	for _, p := range in.People {
		switch p.Role {
		case models.RoleStudent:
			if InCohort(p, year, opts) {
				students = append(students, p)
			}
		case models.RoleTeacher:
			teachers = append(teachers, p)
		}
	}
	report.TotalStudents = len(students)
	report.TotalTeachers = len(teachers)

	report.Departments = departmentBreakdown(students, teachers)
	report.TotalDepartments = len(report.Departments)

	leaves, skipped := leavesInYear(in.Leaves, year, dateOf)
	report.SkippedLeaves = skipped
	status := GroupBy(leaves, func(l models.LeaveRecord) string { return string(l.Status) })
	report.TotalLeaveRequests = len(leaves)
	report.ApprovedLeaves = status.Count(string(models.LeaveApproved))
	report.RejectedLeaves = status.Count(string(models.LeaveRejected))
	report.PendingLeaves = status.Count(string(models.LeavePending))
	report.LeaveStatus = status.Results(report.TotalLeaveRequests)

	attendance, skipped := attendanceInYear(in.Attendance, year, dateOf)
	report.SkippedAttendance = skipped
	days := GroupBy(attendance, func(a models.AttendanceRecord) string { return dateOf(a.Date).Day() })
	report.AttendanceDays = len(days.Keys())
	report.AttendanceRecords = len(attendance)
	for _, a := range attendance {
		if a.Status == models.AttendancePresent {
			report.PresentCount++
		}
	}
	report.PresenceRatio = Percentage(report.PresentCount, report.AttendanceRecords)

	report.Monthly = monthlyVolume(leaves, attendance, year, dateOf)

	for _, s := range students {
		switch ClassifyGender(s.Gender) {
		case GenderMale:
			report.Gender.Male++
		case GenderFemale:
			report.Gender.Female++
		default:
			report.Gender.Other++
		}
	}

	report.YearOfStudy = yearOfStudyDistribution(students)
	report.Batches, report.SkippedBatches = batchSummaries(in.Batches, students)

	return report
}

func departmentBreakdown(students, teachers []models.PersonRecord) []DepartmentBreakdown {
	index := make(map[string]int)
	out := make([]DepartmentBreakdown, 0)

	slot := func(p models.PersonRecord) int {
		dept := strings.TrimSpace(p.Department)
		if dept == "" {
			return -1
		}
		i, ok := index[dept]
		if !ok {
			i = len(out)
			index[dept] = i
			out = append(out, DepartmentBreakdown{Department: dept})
		}
		return i
	}

	for _, s := range students {
		if i := slot(s); i >= 0 {
			out[i].Students++
		}
	}
	for _, t := range teachers {
		if i := slot(t); i >= 0 {
			out[i].Teachers++
		}
	}
	return out
}

func leavesInYear(leaves []models.LeaveRecord, year int, dateOf func(any) Date) ([]models.LeaveRecord, int) {
	var skipped int
	out := make([]models.LeaveRecord, 0, len(leaves))
	for _, l := range leaves {
		d := dateOf(l.CreatedAt)
		if !d.Valid() {
			skipped++
			continue
		}
		if d.InYear(year) {
			out = append(out, l)
		}
	}
	return out, skipped
}

func attendanceInYear(records []models.AttendanceRecord, year int, dateOf func(any) Date) ([]models.AttendanceRecord, int) {
	var skipped int
	out := make([]models.AttendanceRecord, 0, len(records))
	for _, a := range records {
		d := dateOf(a.Date)
		if !d.Valid() {
			skipped++
			continue
		}
		if d.InYear(year) {
			out = append(out, a)
		}
	}
	return out, skipped
}

func monthlyVolume(leaves []models.LeaveRecord, attendance []models.AttendanceRecord, year int, dateOf func(any) Date) []MonthlyVolume {
	leaveSeries := MonthlySeries(leaves, year, func(l models.LeaveRecord) Date { return dateOf(l.CreatedAt) })
	attendanceSeries := MonthlySeries(attendance, year, func(a models.AttendanceRecord) Date { return dateOf(a.Date) })

	out := make([]MonthlyVolume, len(leaveSeries))
	for i := range leaveSeries {
		out[i] = MonthlyVolume{
			Month:      leaveSeries[i].Month,
			Leaves:     leaveSeries[i].Count,
			Attendance: attendanceSeries[i].Count,
		}
	}
	return out
}

func yearOfStudyDistribution(students []models.PersonRecord) []AggregationResult {
	g := Grouping{counts: make(map[string]int)}
	for _, label := range YearOfStudyLabels {
		g.add(label, 0)
	}
	for _, s := range students {
		if label := YearOfStudyLabel(s.Year); label != "" {
			g.add(label, 1)
		}
	}
	return g.Results(len(students))
}

func batchSummaries(batches []models.BatchDefinition, students []models.PersonRecord) ([]BatchSummary, int) {
	var skipped int
	out := make([]BatchSummary, 0, len(batches))
	for _, b := range batches {
		members, err := MembersOf(b, ScopeToBatch(b, students))
		if err != nil {
			skipped++
			continue
		}
		out = append(out, BatchSummary{
			BatchName:  b.BatchName,
			Department: b.Department,
			Div:        b.Div,
			Members:    len(members),
		})
	}
	return out, skipped
}

// ScopeToBatch keeps the people sharing the batch's department and division.
// Empty values on either side do not restrict.
func ScopeToBatch(def models.BatchDefinition, population []models.PersonRecord) []models.PersonRecord {
	out := make([]models.PersonRecord, 0, len(population))
	for _, p := range population {
		if !sameOrUnset(def.Department, p.Department) || !sameOrUnset(def.Div, p.Div) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameOrUnset(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a == "" || b == "" || strings.EqualFold(a, b)
}
