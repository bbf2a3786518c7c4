package models

// Credentials is the login payload. Identifier is an email address or, for
// students, a roll number.
type Credentials struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// SeedAccount describes an account created by the seeding job when absent.
type SeedAccount struct {
	Person   PersonRecord
	Password string
}
