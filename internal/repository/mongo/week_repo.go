// internal/repository/mongo/week_repo.go
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

const weekCollectionName = "weeks"

// mongoWeekRepository implements repository.WeekRepository
type mongoWeekRepository struct {
	collection *mongo.Collection
}

// NewMongoWeekRepository creates a new Week repository.
func NewMongoWeekRepository(db *mongo.Database) repository.WeekRepository {
	return &mongoWeekRepository{
		collection: db.Collection(weekCollectionName),
	}
}

// Create inserts a new week.
func (r *mongoWeekRepository) Create(ctx context.Context, week *domain.Week) (primitive.ObjectID, error) {
	if week.ProgramID == primitive.NilObjectID || week.Name == "" {
		return primitive.NilObjectID, errors.New("week requires programId and name")
	}
	week.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	week.CreatedAt = now
	week.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, week)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted week ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single week by its ID.
func (r *mongoWeekRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Week, error) {
	var week domain.Week
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&week)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &week, nil
}

// GetByProgramID retrieves all weeks of a program sorted by order.
func (r *mongoWeekRepository) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Week, error) {
	var weeks []domain.Week
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"programId": programID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &weeks); err != nil {
		return nil, err
	}
	return weeks, nil
}

// CountByProgramID counts the week children of a program.
func (r *mongoWeekRepository) CountByProgramID(ctx context.Context, programID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"programId": programID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Update persists the mutable week fields (name).
func (r *mongoWeekRepository) Update(ctx context.Context, week *domain.Week) error {
	if week.ID == primitive.NilObjectID {
		return errors.New("week ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      week.Name,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": week.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetOrder writes only the order field, used by resequencing.
func (r *mongoWeekRepository) SetOrder(ctx context.Context, weekID primitive.ObjectID, order int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": weekID},
		bson.M{"$set": bson.M{"order": order, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the week document. Days are cascaded by the caller.
func (r *mongoWeekRepository) Delete(ctx context.Context, weekID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": weekID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWeekIndexes creates necessary indexes. Call during startup.
func EnsureWeekIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "programId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
