package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/domain/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

const (
	usersCollection      = "users"
	leavesCollection     = "leaves"
	attendanceCollection = "attendance"
	batchesCollection    = "batches"
)

// Repository defines the document store operations used by the services.
type Repository interface {
	ListPeople(ctx context.Context) ([]models.PersonRecord, error)
	ListLeaves(ctx context.Context) ([]models.LeaveRecord, error)
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
	ListBatches(ctx context.Context) ([]models.BatchDefinition, error)
	GetBatch(ctx context.Context, id string) (models.BatchDefinition, error)
	InsertBatch(ctx context.Context, def models.BatchDefinition) (string, error)
	UpdateBatch(ctx context.Context, def models.BatchDefinition) error
	DeleteBatch(ctx context.Context, id string) error
	FindPersonByEmail(ctx context.Context, email string) (models.PersonRecord, error)
	FindStudentByRoll(ctx context.Context, roll string) (models.PersonRecord, error)
	UpsertPerson(ctx context.Context, person models.PersonRecord) (bool, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// ListPeople returns the whole user directory.
func (r *MongoDBRepository) ListPeople(ctx context.Context) ([]models.PersonRecord, error) {
	var people []models.PersonRecord
	if err := r.findAll(ctx, usersCollection, bson.M{}, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// ListLeaves returns every leave request.
func (r *MongoDBRepository) ListLeaves(ctx context.Context) ([]models.LeaveRecord, error) {
	var leaves []models.LeaveRecord
	if err := r.findAll(ctx, leavesCollection, bson.M{}, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

// ListAttendance returns every attendance mark.
func (r *MongoDBRepository) ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := r.findAll(ctx, attendanceCollection, bson.M{}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListBatches returns every batch definition.
func (r *MongoDBRepository) ListBatches(ctx context.Context) ([]models.BatchDefinition, error) {
	var batches []models.BatchDefinition
	opts := options.Find().SetSort(bson.D{{Key: "div", Value: 1}, {Key: "batchName", Value: 1}})
	if err := r.findAll(ctx, batchesCollection, bson.M{}, &batches, opts); err != nil {
		return nil, err
	}
	return batches, nil
}

// GetBatch loads one batch definition.
func (r *MongoDBRepository) GetBatch(ctx context.Context, id string) (models.BatchDefinition, error) {
	var def models.BatchDefinition
	err := r.db.Collection(batchesCollection).FindOne(ctx, idFilter(id)).Decode(&def)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return def, fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return def, fmt.Errorf("failed to load batch %s: %w", id, err)
	}
	return def, nil
}

// InsertBatch stores a new batch and returns its id.
func (r *MongoDBRepository) InsertBatch(ctx context.Context, def models.BatchDefinition) (string, error) {
	def.ID = ""
	res, err := r.db.Collection(batchesCollection).InsertOne(ctx, def)
	if err != nil {
		return "", fmt.Errorf("failed to insert batch: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// UpdateBatch replaces the stored definition with the same id.
func (r *MongoDBRepository) UpdateBatch(ctx context.Context, def models.BatchDefinition) error {
	id := def.ID
	def.ID = ""
	res, err := r.db.Collection(batchesCollection).ReplaceOne(ctx, idFilter(id), def)
	if err != nil {
		return fmt.Errorf("failed to update batch %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteBatch removes a batch.
func (r *MongoDBRepository) DeleteBatch(ctx context.Context, id string) error {
	res, err := r.db.Collection(batchesCollection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete batch %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindPersonByEmail looks a user up by login email.
func (r *MongoDBRepository) FindPersonByEmail(ctx context.Context, email string) (models.PersonRecord, error) {
	return r.findPerson(ctx, bson.M{"email": email})
}

// FindStudentByRoll looks a student up by roll number.
func (r *MongoDBRepository) FindStudentByRoll(ctx context.Context, roll string) (models.PersonRecord, error) {
	return r.findPerson(ctx, bson.M{"rollNumber": roll, "role": models.RoleStudent})
}

// UpsertPerson inserts person when no user with the same email exists. An
// existing user is left untouched. It reports whether a document was created.
func (r *MongoDBRepository) UpsertPerson(ctx context.Context, person models.PersonRecord) (bool, error) {
	person.ID = ""
	res, err := r.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"email": person.Email},
		bson.M{"$setOnInsert": person},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert user %s: %w", person.Email, err)
	}
	return res.UpsertedCount > 0, nil
}

// EnsureIndexes creates the unique login index on users.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findPerson(ctx context.Context, filter bson.M) (models.PersonRecord, error) {
	var person models.PersonRecord
	err := r.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&person)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return person, ErrNotFound
	}
	if err != nil {
		return person, fmt.Errorf("failed to load user: %w", err)
	}
	return person, nil
}

func (r *MongoDBRepository) findAll(ctx context.Context, collection string, filter bson.M, out any, opts ...*options.FindOptions) error {
	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts...)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			r.logger.Debug("cursor close failed", zap.String("collection", collection), zap.Error(err))
		}
	}()

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}
