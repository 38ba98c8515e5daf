// internal/repository/mongo/day_repo.go
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

const dayCollectionName = "days"

// mongoDayRepository implements repository.DayRepository
type mongoDayRepository struct {
	collection *mongo.Collection
}

// NewMongoDayRepository creates a new Day repository.
func NewMongoDayRepository(db *mongo.Database) repository.DayRepository {
	return &mongoDayRepository{
		collection: db.Collection(dayCollectionName),
	}
}

// Create inserts a new day with its embedded assignments, if any.
func (r *mongoDayRepository) Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error) {
	if day.WeekID == primitive.NilObjectID || day.ProgramID == primitive.NilObjectID || day.Name == "" {
		return primitive.NilObjectID, errors.New("day requires weekId, programId and name")
	}
	day.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, day)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted day ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single day by its ID.
func (r *mongoDayRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error) {
	var day domain.Day
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &day, nil
}

// GetByWeekID retrieves all days of a week sorted by order.
func (r *mongoDayRepository) GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Day, error) {
	var days []domain.Day
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"weekId": weekID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// CountByWeekID counts the day children of a week.
func (r *mongoDayRepository) CountByWeekID(ctx context.Context, weekID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"weekId": weekID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Update persists the mutable day fields (name).
func (r *mongoDayRepository) Update(ctx context.Context, day *domain.Day) error {
	if day.ID == primitive.NilObjectID {
		return errors.New("day ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      day.Name,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": day.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetOrder writes only the order field, used by resequencing.
func (r *mongoDayRepository) SetOrder(ctx context.Context, dayID primitive.ObjectID, order int) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": dayID},
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

// Delete removes the day document and with it the embedded assignments.
func (r *mongoDayRepository) Delete(ctx context.Context, dayID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": dayID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddAssignment appends an assignment to the day's embedded list.
func (r *mongoDayRepository) AddAssignment(ctx context.Context, dayID primitive.ObjectID, assignment *domain.Assignment) error {
	if assignment.ID == primitive.NilObjectID {
		assignment.ID = primitive.NewObjectID()
	}
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": dayID},
		bson.M{
			"$push": bson.M{"exercises": assignment},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateAssignment replaces one embedded assignment in place.
func (r *mongoDayRepository) UpdateAssignment(ctx context.Context, dayID primitive.ObjectID, assignment *domain.Assignment) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": dayID, "exercises._id": assignment.ID},
		bson.M{
			"$set": bson.M{
				"exercises.$": assignment,
				"updatedAt":   time.Now().UTC(),
			},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RemoveAssignment pulls one embedded assignment out of the day.
func (r *mongoDayRepository) RemoveAssignment(ctx context.Context, dayID, assignmentID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": dayID},
		bson.M{
			"$pull": bson.M{"exercises": bson.M{"_id": assignmentID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return repository.ErrNotFound // Day exists but the assignment did not
	}
	return nil
}

// ClearAssignments empties the day's assignment list. Used by the
// cascade path before the day itself is deleted.
func (r *mongoDayRepository) ClearAssignments(ctx context.Context, dayID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": dayID},
		bson.M{
			"$set": bson.M{"exercises": []domain.Assignment{}, "updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureDayIndexes creates necessary indexes. Call during startup.
func EnsureDayIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "weekId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
