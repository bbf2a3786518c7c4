package academics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/campus/internal/domain/models"
)

// ErrUnknownDetailKind is returned for drill-down kinds the portal does not offer.
var ErrUnknownDetailKind = errors.New("unknown detail kind")

// DetailKind names a drill-down view.
type DetailKind string

const (
	KindStudents    DetailKind = "students"
	KindTeachers    DetailKind = "teachers"
	KindDepartments DetailKind = "departments"
	KindLeaves      DetailKind = "leaves"
	KindApproved    DetailKind = "approved"
	KindRejected    DetailKind = "rejected"
	KindPending     DetailKind = "pending"
)

// DetailKinds lists every drill-down view.
var DetailKinds = []DetailKind{
	KindStudents, KindTeachers, KindDepartments, KindLeaves, KindApproved, KindRejected, KindPending,
}

// ParseDetailKind validates a kind received from a caller.
func ParseDetailKind(raw string) (DetailKind, error) {
	kind := DetailKind(strings.ToLower(strings.TrimSpace(raw)))
	for _, k := range DetailKinds {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDetailKind, raw)
}

var searchFields = map[DetailKind][]string{
	KindStudents:    {"name", "rollNumber", "email", "department"},
	KindTeachers:    {"name", "email", "department"},
	KindDepartments: {"name"},
	KindLeaves:      {"name", "studentRef", "reason", "status"},
}

// SearchFields returns the fields free-text search looks at for kind.
func SearchFields(kind DetailKind) []string {
	switch kind {
	case KindApproved, KindRejected, KindPending:
		kind = KindLeaves
	}
	return append([]string(nil), searchFields[kind]...)
}

// DetailRow is a flattened row ready for tables and exports.
type DetailRow struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Department string            `json:"department"`
	Status     string            `json:"status,omitempty"`
	Date       string            `json:"date,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// FieldValue implements Fielder.
func (r DetailRow) FieldValue(name string) string {
	switch name {
	case "id":
		return r.ID
	case "name":
		return r.Name
	case "department":
		return r.Department
	case "status":
		return r.Status
	case "date":
		return r.Date
	default:
		return r.Fields[name]
	}
}

// BuildDetailView flattens people and leaves into the rows of kind. Leave
// dates are rendered as days in loc; nil means UTC.
func BuildDetailView(kind DetailKind, people []models.PersonRecord, leaves []models.LeaveRecord, loc *time.Location) ([]DetailRow, error) {
	switch kind {
	case KindStudents:
		return personRows(people, models.RoleStudent), nil
	case KindTeachers:
		return personRows(people, models.RoleTeacher), nil
	case KindDepartments:
		return departmentRows(people), nil
	case KindLeaves:
		return leaveRows(people, leaves, "", loc), nil
	case KindApproved:
		return leaveRows(people, leaves, models.LeaveApproved, loc), nil
	case KindRejected:
		return leaveRows(people, leaves, models.LeaveRejected, loc), nil
	case KindPending:
		return leaveRows(people, leaves, models.LeavePending, loc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDetailKind, kind)
	}
}

func personRows(people []models.PersonRecord, role models.Role) []DetailRow {
	rows := make([]DetailRow, 0)
	for _, p := range people {
		if p.Role != role {
			continue
		}
		fields := map[string]string{"email": p.Email, "gender": p.Gender}
		if role == models.RoleStudent {
			fields["rollNumber"] = p.RollNumber
			fields["year"] = p.Year
			fields["batchYear"] = p.BatchYear
			fields["div"] = p.Div
		}
		rows = append(rows, DetailRow{
			ID:         p.ID,
			Name:       p.Name,
			Department: p.Department,
			Fields:     fields,
		})
	}
	return rows
}

func departmentRows(people []models.PersonRecord) []DetailRow {
	breakdown := departmentBreakdown(
		personsWithRole(people, models.RoleStudent),
		personsWithRole(people, models.RoleTeacher),
	)

	rows := make([]DetailRow, 0, len(breakdown))
	for _, d := range breakdown {
		rows = append(rows, DetailRow{
			ID:         d.Department,
			Name:       d.Department,
			Department: d.Department,
			Fields: map[string]string{
				"students": strconv.Itoa(d.Students),
				"teachers": strconv.Itoa(d.Teachers),
			},
		})
	}
	return rows
}

func leaveRows(people []models.PersonRecord, leaves []models.LeaveRecord, status models.LeaveStatus, loc *time.Location) []DetailRow {
	directory := make(map[string]models.PersonRecord, len(people)*2)
	for _, p := range people {
		if p.RollNumber != "" {
			directory[p.RollNumber] = p
		}
	}
	// ids win over roll numbers when both match
	for _, p := range people {
		if p.ID != "" {
			directory[p.ID] = p
		}
	}

	rows := make([]DetailRow, 0)
	for _, l := range leaves {
		if status != "" && l.Status != status {
			continue
		}
		student := directory[l.StudentRef]
		rows = append(rows, DetailRow{
			ID:         l.ID,
			Name:       student.Name,
			Department: student.Department,
			Status:     string(l.Status),
			Date:       NormalizeIn(l.CreatedAt, loc).Day(),
			Fields: map[string]string{
				"studentRef": l.StudentRef,
				"reason":     l.Reason,
			},
		})
	}
	return rows
}

func personsWithRole(people []models.PersonRecord, role models.Role) []models.PersonRecord {
	out := make([]models.PersonRecord, 0)
	for _, p := range people {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}
