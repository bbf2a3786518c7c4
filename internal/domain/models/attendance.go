package models

// AttendanceStatus enumerates the marks a person can receive for a session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceHalfDay AttendanceStatus = "half-day"
	AttendanceLeave   AttendanceStatus = "leave"
)

// AttendanceRecord is a single attendance mark.
type AttendanceRecord struct {
	ID         string           `bson:"_id,omitempty" json:"id"`
	Date       any              `bson:"date" json:"date"`
	Status     AttendanceStatus `bson:"status" json:"status"`
	SubjectRef string           `bson:"subjectRef" json:"subjectRef"`
	PersonRef  string           `bson:"personRef" json:"personRef"`
}
