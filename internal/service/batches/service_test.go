package batches

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/mamadbah2/campus/internal/academics"
	"github.com/mamadbah2/campus/internal/domain/models"
)

var errMissing = errors.New("missing")

type memoryStore struct {
	people  []models.PersonRecord
	batches []models.BatchDefinition
	nextID  int
}

func (m *memoryStore) ListPeople(context.Context) ([]models.PersonRecord, error) {
	return m.people, nil
}

func (m *memoryStore) ListBatches(context.Context) ([]models.BatchDefinition, error) {
	return append([]models.BatchDefinition(nil), m.batches...), nil
}

func (m *memoryStore) GetBatch(_ context.Context, id string) (models.BatchDefinition, error) {
	for _, b := range m.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return models.BatchDefinition{}, errMissing
}

func (m *memoryStore) InsertBatch(_ context.Context, def models.BatchDefinition) (string, error) {
	m.nextID++
	def.ID = "b" + strconv.Itoa(m.nextID)
	m.batches = append(m.batches, def)
	return def.ID, nil
}

func (m *memoryStore) UpdateBatch(_ context.Context, def models.BatchDefinition) error {
	for i, b := range m.batches {
		if b.ID == def.ID {
			m.batches[i] = def
			return nil
		}
	}
	return errMissing
}

func (m *memoryStore) DeleteBatch(_ context.Context, id string) error {
	for i, b := range m.batches {
		if b.ID == id {
			m.batches = append(m.batches[:i], m.batches[i+1:]...)
			return nil
		}
	}
	return errMissing
}

func batchA1() models.BatchDefinition {
	return models.BatchDefinition{
		BatchName: "A1", FromRollNo: "101", ToRollNo: "110",
		Year: "SE", Sem: "3", Div: "A", Department: "CSE",
	}
}

func TestCreateRejectsInvalidDefinitions(t *testing.T) {
	svc := NewService(&memoryStore{}, nil)

	cases := []struct {
		name  string
		edit  func(*models.BatchDefinition)
		field string
	}{
		{"missing name", func(d *models.BatchDefinition) { d.BatchName = " " }, "batchName"},
		{"non-numeric from", func(d *models.BatchDefinition) { d.FromRollNo = "1O1" }, "fromRollNo"},
		{"fractional to", func(d *models.BatchDefinition) { d.ToRollNo = "110.5" }, "toRollNo"},
		{"inverted", func(d *models.BatchDefinition) { d.FromRollNo, d.ToRollNo = "120", "110" }, "toRollNo"},
		{"equal bounds", func(d *models.BatchDefinition) { d.ToRollNo = "101" }, "toRollNo"},
		{"missing division", func(d *models.BatchDefinition) { d.Div = "" }, "div"},
	}

	for _, tc := range cases {
		def := batchA1()
		tc.edit(&def)

		_, err := svc.Create(context.Background(), def)
		if !errors.Is(err, ErrInvalidBatch) {
			t.Fatalf("%s: expected ErrInvalidBatch, got %v", tc.name, err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected a ValidationError, got %T", tc.name, err)
		}
		if verr.Fields[0].Field != tc.field {
			t.Fatalf("%s: expected field %s, got %+v", tc.name, tc.field, verr.Fields)
		}
	}
}

func TestCreateRejectsDuplicateNameInDivision(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store, nil)

	if _, err := svc.Create(context.Background(), batchA1()); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := batchA1()
	dup.FromRollNo, dup.ToRollNo = "111", "120"
	if _, err := svc.Create(context.Background(), dup); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	other := dup
	other.Div = "B"
	if _, err := svc.Create(context.Background(), other); err != nil {
		t.Fatalf("expected same name in another division to be accepted, got %v", err)
	}
}

func TestUpdateKeepsOwnName(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(store, nil)

	created, err := svc.Create(context.Background(), batchA1())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := batchA1()
	edit.ToRollNo = "115"
	updated, err := svc.Update(context.Background(), created.ID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || store.batches[0].ToRollNo != "115" {
		t.Fatalf("expected batch updated in place, got %+v", store.batches)
	}

	if _, err := svc.Update(context.Background(), "nope", edit); !errors.Is(err, errMissing) {
		t.Fatalf("expected store error for unknown batch, got %v", err)
	}
}

func TestMembers(t *testing.T) {
	store := &memoryStore{
		people: []models.PersonRecord{
			{ID: "1", Role: models.RoleStudent, RollNumber: "100", Department: "CSE", Div: "A"},
			{ID: "2", Role: models.RoleStudent, RollNumber: "101", Department: "CSE", Div: "A"},
			{ID: "3", Role: models.RoleStudent, RollNumber: "105", Department: "CSE", Div: "A"},
			{ID: "4", Role: models.RoleTeacher, RollNumber: "106", Department: "CSE"},
			{ID: "5", Role: models.RoleStudent, RollNumber: "110", Department: "CSE", Div: "A"},
			{ID: "6", Role: models.RoleStudent, RollNumber: "111", Department: "CSE", Div: "A"},
			{ID: "7", Role: models.RoleStudent, RollNumber: "107", Department: "ECE", Div: "A"},
		},
	}
	svc := NewService(store, nil)

	created, err := svc.Create(context.Background(), batchA1())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	m, err := svc.Members(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}

	ids := make([]string, 0, len(m.Members))
	for _, p := range m.Members {
		ids = append(ids, p.ID)
	}
	if want := []string{"2", "3", "5"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected members %v, got %v", want, ids)
	}
}

func TestAvailableNamesScopedToDivision(t *testing.T) {
	store := &memoryStore{batches: []models.BatchDefinition{
		{ID: "x", BatchName: "A1", Year: "SE", Sem: "3", Div: "A", Department: "CSE"},
		{ID: "y", BatchName: "A2", Year: "SE", Sem: "3", Div: "A", Department: "CSE"},
		{ID: "z", BatchName: "A3", Year: "TE", Sem: "5", Div: "A", Department: "CSE"},
	}}
	svc := NewService(store, nil)

	names, err := svc.AvailableNames(context.Background(), "", models.BatchDefinition{Year: "SE", Sem: "3", Div: "A", Department: "CSE"})
	if err != nil {
		t.Fatalf("available names: %v", err)
	}
	if want := []string{"A3", "A4", "A5", "A6", "A7", "A8"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestOfferedNamesCanBeCreated(t *testing.T) {
	existing := batchA1()
	existing.ID = "x"
	existing.BatchName = "a1"
	store := &memoryStore{batches: []models.BatchDefinition{existing}}
	svc := NewService(store, nil)

	scope := models.BatchDefinition{Year: "SE", Sem: "3", Div: "A", Department: "CSE"}
	names, err := svc.AvailableNames(context.Background(), "", scope)
	if err != nil {
		t.Fatalf("available names: %v", err)
	}
	if len(names) != academics.MaxBatchesPerDivision-1 || names[0] != "A2" {
		t.Fatalf("expected a1 to take A1, got %v", names)
	}

	def := batchA1()
	def.BatchName = names[0]
	def.FromRollNo, def.ToRollNo = "111", "120"
	if _, err := svc.Create(context.Background(), def); err != nil {
		t.Fatalf("expected offered name %s to be accepted, got %v", names[0], err)
	}
}
