package batches

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/domain/models"
)

// ErrInvalidBatch wraps every rejected batch definition.
var ErrInvalidBatch = errors.New("invalid batch definition")

// ErrDuplicateName indicates the batch name is already used in the division.
var ErrDuplicateName = errors.New("batch name already in use")

// Store is the persistence the batch service needs.
type Store interface {
	ListPeople(ctx context.Context) ([]models.PersonRecord, error)
	ListBatches(ctx context.Context) ([]models.BatchDefinition, error)
	GetBatch(ctx context.Context, id string) (models.BatchDefinition, error)
	InsertBatch(ctx context.Context, def models.BatchDefinition) (string, error)
	UpdateBatch(ctx context.Context, def models.BatchDefinition) error
	DeleteBatch(ctx context.Context, id string) error
}

// ValidationError lists the fields that made a batch unacceptable.
type ValidationError struct {
	Fields []academics.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidBatch, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidBatch }

// Membership is a batch with its resolved students.
type Membership struct {
	Batch   models.BatchDefinition `json:"batch"`
	Members []models.PersonRecord  `json:"members"`
}

// Service manages batch definitions and resolves their membership.
type Service struct {
	store    Store
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService constructs a batch service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	return &Service{store: store, validate: validate, logger: logger}
}

// List returns every batch definition.
func (s *Service) List(ctx context.Context) ([]models.BatchDefinition, error) {
	return s.store.ListBatches(ctx)
}

// Get returns one batch definition.
func (s *Service) Get(ctx context.Context, id string) (models.BatchDefinition, error) {
	return s.store.GetBatch(ctx, id)
}

// Create validates def and stores it.
func (s *Service) Create(ctx context.Context, def models.BatchDefinition) (models.BatchDefinition, error) {
	def = trim(def)
	if err := s.check(ctx, def, ""); err != nil {
		return models.BatchDefinition{}, err
	}

	id, err := s.store.InsertBatch(ctx, def)
	if err != nil {
		return models.BatchDefinition{}, err
	}
	def.ID = id

	s.logger.Info("batch created", zap.String("id", id), zap.String("batch", def.BatchName), zap.String("div", def.Div))
	return def, nil
}

// Update validates def and replaces the stored batch with the same id.
func (s *Service) Update(ctx context.Context, id string, def models.BatchDefinition) (models.BatchDefinition, error) {
	if _, err := s.store.GetBatch(ctx, id); err != nil {
		return models.BatchDefinition{}, err
	}

	def = trim(def)
	def.ID = id
	if err := s.check(ctx, def, id); err != nil {
		return models.BatchDefinition{}, err
	}

	if err := s.store.UpdateBatch(ctx, def); err != nil {
		return models.BatchDefinition{}, err
	}

	s.logger.Info("batch updated", zap.String("id", id), zap.String("batch", def.BatchName))
	return def, nil
}

// Delete removes a batch.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBatch(ctx, id); err != nil {
		return err
	}
	s.logger.Info("batch deleted", zap.String("id", id))
	return nil
}

// Members resolves the students of the stored batch id.
func (s *Service) Members(ctx context.Context, id string) (Membership, error) {
	def, err := s.store.GetBatch(ctx, id)
	if err != nil {
		return Membership{}, err
	}

	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return Membership{}, fmt.Errorf("load students: %w", err)
	}

	members, err := academics.MembersOf(def, academics.ScopeToBatch(def, students(people)))
	if err != nil {
		return Membership{}, fmt.Errorf("batch %s: %w", id, err)
	}
	return Membership{Batch: def, Members: members}, nil
}

// AvailableNames lists the unused batch names of a division. scope selects
// the division through its Year, Sem, Div and Department fields; prefix
// defaults to Div.
func (s *Service) AvailableNames(ctx context.Context, prefix string, scope models.BatchDefinition) ([]string, error) {
	if prefix == "" {
		prefix = strings.TrimSpace(scope.Div)
	}

	batches, err := s.store.ListBatches(ctx)
	if err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(batches))
	for _, b := range batches {
		if sameDivision(b, scope) {
			existing = append(existing, b.BatchName)
		}
	}
	return academics.AvailableNames(prefix, existing), nil
}

// Validate checks def without touching the store.
func (s *Service) Validate(def models.BatchDefinition) error {
	var fields []academics.FieldError

	if err := s.validate.Struct(def); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidBatch, err)
		}
		for _, fe := range verrs {
			fields = append(fields, academics.FieldError{Field: fe.Field(), Reason: reason(fe)})
		}
	}

	if len(fields) == 0 {
		if _, err := academics.ValidateRange(def); err != nil {
			var fieldErr *academics.FieldError
			if !errors.As(err, &fieldErr) {
				return fmt.Errorf("%w: %v", ErrInvalidBatch, err)
			}
			fields = append(fields, *fieldErr)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *Service) check(ctx context.Context, def models.BatchDefinition, selfID string) error {
	if err := s.Validate(def); err != nil {
		return err
	}

	batches, err := s.store.ListBatches(ctx)
	if err != nil {
		return err
	}
	for _, b := range batches {
		if b.ID == selfID && selfID != "" {
			continue
		}
		if sameDivision(b, def) && strings.EqualFold(strings.TrimSpace(b.BatchName), def.BatchName) {
			return fmt.Errorf("%w: %s", ErrDuplicateName, def.BatchName)
		}
	}
	return nil
}

func sameDivision(a, b models.BatchDefinition) bool {
	return strings.EqualFold(strings.TrimSpace(a.Year), strings.TrimSpace(b.Year)) &&
		strings.EqualFold(strings.TrimSpace(a.Sem), strings.TrimSpace(b.Sem)) &&
		strings.EqualFold(strings.TrimSpace(a.Div), strings.TrimSpace(b.Div)) &&
		strings.EqualFold(strings.TrimSpace(a.Department), strings.TrimSpace(b.Department))
}

func students(people []models.PersonRecord) []models.PersonRecord {
	out := make([]models.PersonRecord, 0, len(people))
	for _, p := range people {
		if p.Role == models.RoleStudent {
			out = append(out, p)
		}
	}
	return out
}

func trim(def models.BatchDefinition) models.BatchDefinition {
	def.BatchName = strings.TrimSpace(def.BatchName)
	def.FromRollNo = strings.TrimSpace(def.FromRollNo)
	def.ToRollNo = strings.TrimSpace(def.ToRollNo)
	def.Year = strings.TrimSpace(def.Year)
	def.Sem = strings.TrimSpace(def.Sem)
	def.Div = strings.TrimSpace(def.Div)
	def.Department = strings.TrimSpace(def.Department)
	return def
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must be a whole number"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
