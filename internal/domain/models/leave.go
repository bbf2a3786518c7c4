package models

// LeaveStatus enumerates the leave request lifecycle states.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRecord is a leave request. CreatedAt keeps whatever the store returned
// (primitive.DateTime, string, nil) until it is normalized.
type LeaveRecord struct {
	ID         string      `bson:"_id,omitempty" json:"id"`
	Status     LeaveStatus `bson:"status" json:"status"`
	CreatedAt  any         `bson:"createdAt" json:"createdAt"`
	StudentRef string      `bson:"studentRef" json:"studentRef"`
	Reason     string      `bson:"reason,omitempty" json:"reason,omitempty"`
}

// FieldValue exposes the searchable fields of a leave request by name.
func (l LeaveRecord) FieldValue(name string) string {
	switch name {
	case "id":
		return l.ID
	case "status":
		return string(l.Status)
	case "studentRef":
		return l.StudentRef
	case "reason":
		return l.Reason
	default:
		return ""
	}
}
