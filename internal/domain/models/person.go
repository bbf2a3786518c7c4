package models

// Role enumerates the portal account categories.
type Role string

const (
	RoleStudent     Role = "student"
	RoleTeacher     Role = "teacher"
	RoleHOD         Role = "hod"
	RoleNonTeaching Role = "non-teaching"
	RoleDriver      Role = "driver"
	RoleAdmin       Role = "admin"
)

// PersonRecord is a user directory entry as stored in the users collection.
type PersonRecord struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	Role         Role   `bson:"role" json:"role"`
	Department   string `bson:"department" json:"department"`
	Gender       string `bson:"gender,omitempty" json:"gender,omitempty"`
	RollNumber   string `bson:"rollNumber,omitempty" json:"rollNumber,omitempty"`
	Year         string `bson:"year,omitempty" json:"year,omitempty"`
	BatchYear    string `bson:"batchYear,omitempty" json:"batchYear,omitempty"`
	Div          string `bson:"div,omitempty" json:"div,omitempty"`
	PasswordHash string `bson:"passwordHash,omitempty" json:"-"`
}

// FieldValue exposes the searchable fields of a person by name.
func (p PersonRecord) FieldValue(name string) string {
	switch name {
	case "id":
		return p.ID
	case "name":
		return p.Name
	case "email":
		return p.Email
	case "role":
		return string(p.Role)
	case "department":
		return p.Department
	case "gender":
		return p.Gender
	case "rollNumber":
		return p.RollNumber
	case "year":
		return p.Year
	case "batchYear":
		return p.BatchYear
	case "div":
		return p.Div
	default:
		return ""
	}
}
