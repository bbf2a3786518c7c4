package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/domain/models"
	"github.com/mamadbah2/campus/internal/repository/mongodb"
)

var (
	// ErrInvalidCredentials means no resolver accepted the credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotApplicable is returned by a resolver that does not handle the identifier shape.
	ErrNotApplicable = errors.New("resolver not applicable")
)

// Resolver turns credentials into an account using one strategy.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, creds models.Credentials) (models.PersonRecord, error)
}

// Chain tries resolvers in priority order and stops at the first success.
type Chain struct {
	resolvers []Resolver
	logger    *zap.Logger
}

// NewChain builds a chain; resolvers are tried in the order given.
func NewChain(logger *zap.Logger, resolvers ...Resolver) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{resolvers: resolvers, logger: logger}
}

// Authenticate returns the first account a resolver accepts. Lookup failures
// do not stop the chain; they are returned only when nothing succeeded.
func (c *Chain) Authenticate(ctx context.Context, creds models.Credentials) (models.PersonRecord, error) {
	creds.Identifier = strings.TrimSpace(creds.Identifier)
	if creds.Identifier == "" || creds.Password == "" {
		return models.PersonRecord{}, ErrInvalidCredentials
	}

	var lookupErr error
	for _, r := range c.resolvers {
		person, err := r.Resolve(ctx, creds)
		switch {
		case err == nil:
			c.logger.Info("login resolved", zap.String("resolver", r.Name()), zap.String("role", string(person.Role)))
			return person, nil
		case errors.Is(err, ErrNotApplicable), errors.Is(err, ErrInvalidCredentials):
			continue
		default:
			c.logger.Warn("credential resolver failed", zap.String("resolver", r.Name()), zap.Error(err))
			if lookupErr == nil {
				lookupErr = err
			}
		}
	}

	if lookupErr != nil {
		return models.PersonRecord{}, fmt.Errorf("authenticate: %w", lookupErr)
	}
	return models.PersonRecord{}, ErrInvalidCredentials
}

// EmailLookup finds accounts by email.
type EmailLookup interface {
	FindPersonByEmail(ctx context.Context, email string) (models.PersonRecord, error)
}

// RollLookup finds students by roll number.
type RollLookup interface {
	FindStudentByRoll(ctx context.Context, roll string) (models.PersonRecord, error)
}

// EmailPasswordResolver accepts an email address and a bcrypt-checked password.
type EmailPasswordResolver struct {
	Lookup EmailLookup
}

// Name implements Resolver.
func (EmailPasswordResolver) Name() string { return "email" }

// Resolve implements Resolver.
func (r EmailPasswordResolver) Resolve(ctx context.Context, creds models.Credentials) (models.PersonRecord, error) {
	if !strings.Contains(creds.Identifier, "@") {
		return models.PersonRecord{}, ErrNotApplicable
	}
	person, err := r.Lookup.FindPersonByEmail(ctx, strings.ToLower(creds.Identifier))
	return verify(person, err, creds.Password)
}

// RollNumberResolver lets students sign in with their roll number.
type RollNumberResolver struct {
	Lookup RollLookup
}

// Name implements Resolver.
func (RollNumberResolver) Name() string { return "roll-number" }

// Resolve implements Resolver.
func (r RollNumberResolver) Resolve(ctx context.Context, creds models.Credentials) (models.PersonRecord, error) {
	if _, err := academics.ParseRollNumber(creds.Identifier); err != nil {
		return models.PersonRecord{}, ErrNotApplicable
	}
	person, err := r.Lookup.FindStudentByRoll(ctx, creds.Identifier)
	return verify(person, err, creds.Password)
}

func verify(person models.PersonRecord, lookupErr error, password string) (models.PersonRecord, error) {
	if errors.Is(lookupErr, mongodb.ErrNotFound) {
		return models.PersonRecord{}, ErrInvalidCredentials
	}
	if lookupErr != nil {
		return models.PersonRecord{}, lookupErr
	}
	if person.PasswordHash == "" {
		return models.PersonRecord{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(password)); err != nil {
		return models.PersonRecord{}, ErrInvalidCredentials
	}
	person.PasswordHash = ""
	return person, nil
}

// HashPassword returns the bcrypt hash stored for an account.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
