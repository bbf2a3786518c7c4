package academics

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/campus/internal/domain/models"
)

func leave(id string, status models.LeaveStatus, createdAt any) models.LeaveRecord {
	return models.LeaveRecord{ID: id, Status: status, CreatedAt: createdAt, StudentRef: "s1"}
}

func TestAnnualReportLeaveScenario(t *testing.T) {
	leaves := []models.LeaveRecord{
		leave("1", models.LeaveApproved, "2025-01-10"),
		leave("2", models.LeaveApproved, time.Date(2025, time.March, 2, 9, 0, 0, 0, time.UTC)),
		leave("3", models.LeaveApproved, fakeDateTime(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC).UnixMilli())),
		leave("4", models.LeaveRejected, "2025-06-20"),
		leave("5", models.LeavePending, "2025-12-31T23:00:00Z"),
		leave("6", models.LeavePending, "2025-07-07"),
		leave("7", models.LeaveApproved, "2024-12-30"),
		leave("8", models.LeaveApproved, "unknown"),
	}

	report := BuildAnnualReport(2025, ReportInputs{Leaves: leaves}, DefaultReportOptions())

	if report.TotalLeaveRequests != 6 {
		t.Fatalf("expected 6 leave requests, got %d", report.TotalLeaveRequests)
	}
	if report.ApprovedLeaves != 3 || report.RejectedLeaves != 1 || report.PendingLeaves != 2 {
		t.Fatalf("unexpected status counts: %+v", report)
	}
	if report.SkippedLeaves != 1 {
		t.Fatalf("expected 1 skipped leave, got %d", report.SkippedLeaves)
	}

	var monthly int
	for _, m := range report.Monthly {
		monthly += m.Leaves
	}
	if monthly != 6 {
		t.Fatalf("expected monthly leaves to sum to 6, got %d", monthly)
	}
	if report.Monthly[5].Leaves != 2 {
		t.Fatalf("expected 2 leaves in June, got %d", report.Monthly[5].Leaves)
	}
}

func TestAnnualReportDepartmentBreakdownByCohort(t *testing.T) {
	people := []models.PersonRecord{
		{ID: "1", Role: models.RoleStudent, Department: "CSE", BatchYear: "2025"},
		{ID: "2", Role: models.RoleStudent, Department: "CSE", BatchYear: "2024"},
		{ID: "3", Role: models.RoleStudent, Department: "MECH", BatchYear: "2024"},
		{ID: "4", Role: models.RoleTeacher, Department: "MECH", BatchYear: "2023"},
		{ID: "5", Role: models.RoleTeacher, Department: "CSE"},
		{ID: "6", Role: models.RoleHOD, Department: "CIVIL"},
		{ID: "7", Role: models.RoleStudent, Department: "ECE"},
		{ID: "8", Role: models.RoleStudent, Department: "EEE", BatchYear: "2024"},
	}

	report := BuildAnnualReport(2025, ReportInputs{People: people}, DefaultReportOptions())

	// EEE only has students of another year; teachers are never cohort-filtered
	want := []DepartmentBreakdown{
		{Department: "CSE", Students: 1, Teachers: 1},
		{Department: "ECE", Students: 1, Teachers: 0},
		{Department: "MECH", Students: 0, Teachers: 1},
	}
	if !reflect.DeepEqual(report.Departments, want) {
		t.Fatalf("expected %+v, got %+v", want, report.Departments)
	}
	if report.TotalDepartments != 3 || report.TotalStudents != 2 || report.TotalTeachers != 2 {
		t.Fatalf("unexpected totals: %+v", report)
	}
}

func TestAnnualReportUnassignedPolicy(t *testing.T) {
	people := []models.PersonRecord{
		{ID: "1", Role: models.RoleStudent, Department: "CSE", BatchYear: "2025"},
		{ID: "2", Role: models.RoleStudent, Department: "CSE"},
		{ID: "3", Role: models.RoleTeacher, Department: "CSE"},
		{ID: "4", Role: models.RoleTeacher, Department: "CSE"},
	}

	included := BuildAnnualReport(2025, ReportInputs{People: people}, ReportOptions{IncludeUnassignedInAnyYear: true})
	excluded := BuildAnnualReport(2025, ReportInputs{People: people}, ReportOptions{IncludeUnassignedInAnyYear: false})

	if included.TotalStudents != 2 {
		t.Fatalf("expected unassigned student counted, got %d", included.TotalStudents)
	}
	if excluded.TotalStudents != 1 {
		t.Fatalf("expected unassigned student excluded, got %d", excluded.TotalStudents)
	}

	for _, r := range []AnnualReport{included, excluded} {
		if r.TotalTeachers != 2 {
			t.Fatalf("expected teachers unaffected by the cohort policy, got %d", r.TotalTeachers)
		}
		if len(r.Departments) != 1 || r.Departments[0].Teachers != 2 {
			t.Fatalf("expected CSE to keep its 2 teachers, got %+v", r.Departments)
		}
	}
}

func TestAnnualReportBucketsOneInstantTheSameWhateverItsForm(t *testing.T) {
	instant := time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC)
	leaves := []models.LeaveRecord{
		leave("bson", models.LeaveApproved, primitive.NewDateTimeFromTime(instant)),
		leave("string", models.LeaveApproved, instant.Format(time.RFC3339)),
		leave("millis", models.LeaveApproved, instant.UnixMilli()),
	}

	ist := time.FixedZone("IST", 5*3600+1800)
	cases := []struct {
		loc       *time.Location
		year      int
		month     time.Month
		otherYear int
	}{
		{time.UTC, 2025, time.December, 2026},
		{ist, 2026, time.January, 2025},
	}

	for _, tc := range cases {
		opts := ReportOptions{IncludeUnassignedInAnyYear: true, Location: tc.loc}

		report := BuildAnnualReport(tc.year, ReportInputs{Leaves: leaves}, opts)
		if report.TotalLeaveRequests != 3 {
			t.Fatalf("%s: expected all 3 leaves in %d, got %d", tc.loc, tc.year, report.TotalLeaveRequests)
		}
		if got := report.Monthly[tc.month-1].Leaves; got != 3 {
			t.Fatalf("%s: expected 3 leaves in %s, got %d", tc.loc, tc.month, got)
		}

		other := BuildAnnualReport(tc.otherYear, ReportInputs{Leaves: leaves}, opts)
		if other.TotalLeaveRequests != 0 {
			t.Fatalf("%s: expected no leaves in %d, got %d", tc.loc, tc.otherYear, other.TotalLeaveRequests)
		}
	}
}

func TestAnnualReportReadsZonelessDaysInReportLocation(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*3600)
	leaves := []models.LeaveRecord{leave("1", models.LeavePending, "2025-01-01")}

	report := BuildAnnualReport(2025, ReportInputs{Leaves: leaves}, ReportOptions{Location: west})
	if report.TotalLeaveRequests != 1 || report.Monthly[0].Leaves != 1 {
		t.Fatalf("expected the day kept as January 1st, got %+v", report.Monthly[0])
	}
}

func TestAnnualReportGenderBucketsAreExhaustive(t *testing.T) {
	genders := []string{"Male", "m", " MALE ", "female", "F", "", "  ", "x", "non-binary", "fem"}
	people := make([]models.PersonRecord, 0, len(genders))
	for _, g := range genders {
		people = append(people, models.PersonRecord{Role: models.RoleStudent, Gender: g})
	}

	report := BuildAnnualReport(2025, ReportInputs{People: people}, DefaultReportOptions())

	if report.Gender.Male != 3 || report.Gender.Female != 2 || report.Gender.Other != 5 {
		t.Fatalf("unexpected gender buckets: %+v", report.Gender)
	}
	if report.Gender.Total() != report.TotalStudents {
		t.Fatalf("expected buckets to sum to %d, got %d", report.TotalStudents, report.Gender.Total())
	}
	if r := report.Gender.Results(); r[2].GroupKey != GenderOther || r[2].PercentageOfTotal != 50 {
		t.Fatalf("expected other at 50%%, got %+v", r[2])
	}
}

func TestAnnualReportYearOfStudy(t *testing.T) {
	people := []models.PersonRecord{
		{Role: models.RoleStudent, Year: "1st"},
		{Role: models.RoleStudent, Year: "1"},
		{Role: models.RoleStudent, Year: "Third Year"},
		{Role: models.RoleStudent, Year: "4TH"},
		{Role: models.RoleStudent, Year: "graduate"},
	}

	report := BuildAnnualReport(2025, ReportInputs{People: people}, DefaultReportOptions())

	got := make(map[string]int)
	order := make([]string, 0)
	for _, r := range report.YearOfStudy {
		got[r.GroupKey] = r.Count
		order = append(order, r.GroupKey)
	}
	if !reflect.DeepEqual(order, YearOfStudyLabels) {
		t.Fatalf("expected labels %v, got %v", YearOfStudyLabels, order)
	}
	if got["1st"] != 2 || got["2nd"] != 0 || got["3rd"] != 1 || got["4th"] != 1 {
		t.Fatalf("unexpected distribution: %v", got)
	}
	if report.YearOfStudy[0].PercentageOfTotal != 40 {
		t.Fatalf("expected 1st at 40%%, got %v", report.YearOfStudy[0].PercentageOfTotal)
	}
}

func TestAnnualReportAttendance(t *testing.T) {
	attendance := []models.AttendanceRecord{
		{Date: "2025-02-01", Status: models.AttendancePresent},
		{Date: "2025-02-01T15:00:00Z", Status: models.AttendanceAbsent},
		{Date: "2025-02-02", Status: models.AttendancePresent},
		{Date: "2025-03-09", Status: models.AttendanceLate},
		{Date: "2024-03-09", Status: models.AttendancePresent},
		{Date: nil, Status: models.AttendancePresent},
	}

	report := BuildAnnualReport(2025, ReportInputs{Attendance: attendance}, DefaultReportOptions())

	if report.AttendanceDays != 3 {
		t.Fatalf("expected 3 distinct days, got %d", report.AttendanceDays)
	}
	if report.AttendanceRecords != 4 || report.PresentCount != 2 || report.PresenceRatio != 50 {
		t.Fatalf("unexpected attendance figures: %+v", report)
	}
	if report.SkippedAttendance != 1 {
		t.Fatalf("expected 1 skipped attendance record, got %d", report.SkippedAttendance)
	}
	if report.Monthly[1].Attendance != 3 || report.Monthly[2].Attendance != 1 {
		t.Fatalf("unexpected monthly attendance: %+v", report.Monthly)
	}
}

func TestAnnualReportBatches(t *testing.T) {
	people := []models.PersonRecord{
		{Role: models.RoleStudent, Department: "CSE", Div: "A", RollNumber: "101"},
		{Role: models.RoleStudent, Department: "CSE", Div: "A", RollNumber: "105"},
		{Role: models.RoleStudent, Department: "CSE", Div: "B", RollNumber: "106"},
		{Role: models.RoleStudent, Department: "ECE", Div: "A", RollNumber: "107"},
	}
	batches := []models.BatchDefinition{
		{BatchName: "A1", FromRollNo: "101", ToRollNo: "110", Div: "A", Department: "CSE"},
		{BatchName: "A2", FromRollNo: "x", ToRollNo: "120", Div: "A", Department: "CSE"},
	}

	report := BuildAnnualReport(2025, ReportInputs{People: people, Batches: batches}, DefaultReportOptions())

	if len(report.Batches) != 1 || report.Batches[0].Members != 2 {
		t.Fatalf("expected A1 with 2 members, got %+v", report.Batches)
	}
	if report.SkippedBatches != 1 {
		t.Fatalf("expected invalid batch skipped, got %d", report.SkippedBatches)
	}
}

func TestAnnualReportEmptyInputs(t *testing.T) {
	report := BuildAnnualReport(2025, ReportInputs{}, DefaultReportOptions())

	if report.TotalStudents != 0 || report.PresenceRatio != 0 || report.TotalLeaveRequests != 0 {
		t.Fatalf("expected zero figures, got %+v", report)
	}
	if len(report.Monthly) != 12 || len(report.YearOfStudy) != 4 {
		t.Fatalf("expected fixed-size series even without data")
	}
	for _, r := range report.YearOfStudy {
		if r.PercentageOfTotal != 0 {
			t.Fatalf("expected 0%% with no students, got %v", r.PercentageOfTotal)
		}
	}
}

func TestAnnualReportIsIdempotent(t *testing.T) {
	in := ReportInputs{
		People: []models.PersonRecord{{Role: models.RoleStudent, Department: "CSE", Gender: "f"}},
		Leaves: []models.LeaveRecord{leave("1", models.LeaveApproved, "2025-05-05")},
	}
	first := BuildAnnualReport(2025, in, DefaultReportOptions())
	second := BuildAnnualReport(2025, in, DefaultReportOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical reports for identical inputs")
	}
}
