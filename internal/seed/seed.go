// Package seed creates the bootstrap accounts of a fresh deployment.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/auth"
	"github.com/mamadbah2/campus/internal/domain/models"
)

// ErrMissingEmail is returned for an account that cannot be keyed.
var ErrMissingEmail = errors.New("seed account has no email")

// Store is the persistence the seeding job writes to.
type Store interface {
	EnsureIndexes(ctx context.Context) error
	UpsertPerson(ctx context.Context, person models.PersonRecord) (bool, error)
}

// Result counts what a run did.
type Result struct {
	Created  int
	Existing int
}

// Run creates every account whose email is not yet registered. Existing
// accounts are left untouched, so running it twice changes nothing.
func Run(ctx context.Context, store Store, accounts []models.SeedAccount, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := store.EnsureIndexes(ctx); err != nil {
		return Result{}, err
	}

	var res Result
	for _, acc := range accounts {
		person := acc.Person
		person.Email = strings.ToLower(strings.TrimSpace(person.Email))
		if person.Email == "" {
			return res, fmt.Errorf("%w: %q", ErrMissingEmail, person.Name)
		}

		hash, err := auth.HashPassword(acc.Password)
		if err != nil {
			return res, err
		}
		person.PasswordHash = hash

		created, err := store.UpsertPerson(ctx, person)
		if err != nil {
			return res, err
		}
		if created {
			res.Created++
			logger.Info("account created", zap.String("email", person.Email), zap.String("role", string(person.Role)))
		} else {
			res.Existing++
			logger.Debug("account already present", zap.String("email", person.Email))
		}
	}
	return res, nil
}

// DefaultAccounts is the administrator plus one head of department and one
// student, enough to sign in through every resolver.
func DefaultAccounts(adminEmail, adminPassword string) []models.SeedAccount {
	return []models.SeedAccount{
		{
			Person:   models.PersonRecord{Name: "Administrator", Email: adminEmail, Role: models.RoleAdmin},
			Password: adminPassword,
		},
		{
			Person: models.PersonRecord{
				Name:       "Head of Computer Engineering",
				Email:      "hod.computer@college.edu",
				Role:       models.RoleHOD,
				Department: "Computer",
				Gender:     "female",
			},
			Password: adminPassword,
		},
		{
			Person: models.PersonRecord{
				Name:       "Sample Student",
				Email:      "student.101@college.edu",
				Role:       models.RoleStudent,
				Department: "Computer",
				Gender:     "male",
				RollNumber: "101",
				Year:       "first",
				Div:        "A",
			},
			Password: adminPassword,
		},
	}
}
