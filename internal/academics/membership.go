package academics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/campus/internal/domain/models"
)

// ErrInvalidRollNumber indicates a roll number or batch bound is not an integer.
var ErrInvalidRollNumber = errors.New("invalid roll number")

// MaxBatchesPerDivision bounds the batch names offered for a division (A1..A8).
const MaxBatchesPerDivision = 8

// FieldError pins a rejection to one input field.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// RollRange is a parsed, inclusive roll-number interval.
type RollRange struct {
	From int
	To   int
}

// Contains reports whether roll lies in the range, bounds included.
func (r RollRange) Contains(roll int) bool {
	return roll >= r.From && roll <= r.To
}

// ParseRollNumber reads a roll number stored as text.
func ParseRollNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRollNumber, raw)
	}
	return n, nil
}

// ParseRange parses the bounds of def. It does not check their order; see
// ValidateRange for the stricter rule applied when a batch is saved.
func ParseRange(def models.BatchDefinition) (RollRange, error) {
	from, err := ParseRollNumber(def.FromRollNo)
	if err != nil {
		return RollRange{}, &FieldError{Field: "fromRollNo", Reason: "must be a whole number", Err: err}
	}
	to, err := ParseRollNumber(def.ToRollNo)
	if err != nil {
		return RollRange{}, &FieldError{Field: "toRollNo", Reason: "must be a whole number", Err: err}
	}
	return RollRange{From: from, To: to}, nil
}

// ValidateRange parses the bounds of def and requires from < to.
func ValidateRange(def models.BatchDefinition) (RollRange, error) {
	r, err := ParseRange(def)
	if err != nil {
		return RollRange{}, err
	}
	if r.From >= r.To {
		return RollRange{}, &FieldError{
			Field:  "toRollNo",
			Reason: fmt.Sprintf("must be greater than fromRollNo (%d)", r.From),
			Err:    ErrInvalidRollNumber,
		}
	}
	return r, nil
}

// InRange reports whether rollNumber belongs to def.
func InRange(rollNumber int, def models.BatchDefinition) (bool, error) {
	r, err := ParseRange(def)
	if err != nil {
		return false, err
	}
	return r.Contains(rollNumber), nil
}

// MembersOf returns the people of population whose roll number falls in def,
// in input order. People without a numeric roll number are never members.
func MembersOf(def models.BatchDefinition, population []models.PersonRecord) ([]models.PersonRecord, error) {
	r, err := ParseRange(def)
	if err != nil {
		return nil, err
	}

	members := make([]models.PersonRecord, 0)
	for _, p := range population {
		roll, err := ParseRollNumber(p.RollNumber)
		if err != nil {
			continue
		}
		if r.Contains(roll) {
			members = append(members, p)
		}
	}
	return members, nil
}

// AvailableNames lists prefix1..prefix8 minus the names already taken.
// Names compare case-insensitively.
func AvailableNames(divisionPrefix string, existingNames []string) []string {
	taken := make(map[string]struct{}, len(existingNames))
	for _, name := range existingNames {
		taken[fold(strings.TrimSpace(name))] = struct{}{}
	}

	names := make([]string, 0, MaxBatchesPerDivision)
	for i := 1; i <= MaxBatchesPerDivision; i++ {
		name := divisionPrefix + strconv.Itoa(i)
		if _, ok := taken[fold(name)]; ok {
			continue
		}
		names = append(names, name)
	}
	return names
}
