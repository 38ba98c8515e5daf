// internal/repository/mongo/progress_log_repo.go
package mongo

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressLogCollectionName = "progress_logs"

// mongoProgressLogRepository implements repository.ProgressLogRepository
type mongoProgressLogRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressLogRepository creates a new ProgressLog repository.
func NewMongoProgressLogRepository(db *mongo.Database) repository.ProgressLogRepository {
	return &mongoProgressLogRepository{
		collection: db.Collection(progressLogCollectionName),
	}
}

// Create appends one log row (one completed set, or one rest-day entry).
func (r *mongoProgressLogRepository) Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error) {
	if log.ProgramID == primitive.NilObjectID || log.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("progress log requires programId and userId")
	}
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	if log.CompletedAt.IsZero() {
		log.CompletedAt = log.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted log ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single log row by its ID.
func (r *mongoProgressLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressLog, error) {
	var log domain.ProgressLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetByProgram retrieves log rows for a program, oldest first,
// optionally restricted to one week.
func (r *mongoProgressLogRepository) GetByProgram(ctx context.Context, programID primitive.ObjectID, weekID *primitive.ObjectID) ([]domain.ProgressLog, error) {
	filter := bson.M{"programId": programID}
	if weekID != nil {
		filter["weekId"] = *weekID
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.ProgressLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Update rewrites the client-editable fields of one log row. Structural
// refs (program/week/day) are immutable once written.
func (r *mongoProgressLogRepository) Update(ctx context.Context, log *domain.ProgressLog) error {
	if log.ID == primitive.NilObjectID {
		return errors.New("log ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"weight":          log.Weight,
			"reps":            log.Reps,
			"timeSeconds":     log.TimeSeconds,
			"rpe":             log.RPE,
			"workoutDuration": log.WorkoutDuration,
			"completedAt":     log.CompletedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": log.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureProgressLogIndexes creates necessary indexes. Call during startup.
func EnsureProgressLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "completedAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "weekId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
