package models

// BatchDefinition names a roll-number range inside a division. Bounds stay
// strings because that is how they arrive from forms and the store.
type BatchDefinition struct {
	ID         string `bson:"_id,omitempty" json:"id"`
	BatchName  string `bson:"batchName" json:"batchName" validate:"required"`
	FromRollNo string `bson:"fromRollNo" json:"fromRollNo" validate:"required,numeric"`
	ToRollNo   string `bson:"toRollNo" json:"toRollNo" validate:"required,numeric"`
	Year       string `bson:"year" json:"year" validate:"required"`
	Sem        string `bson:"sem" json:"sem" validate:"required"`
	Div        string `bson:"div" json:"div" validate:"required"`
	Department string `bson:"department" json:"department" validate:"required"`
}
