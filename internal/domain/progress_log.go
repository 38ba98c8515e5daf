package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressLog is one immutable record of a single completed set, or of a
// rest day. One row per set; rows are never aggregated at write time and
// never touched by structural edits. Numeric fields are pointers: absent
// means the client did not record that dimension, which is distinct from
// zero when averaging.
type ProgressLog struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProgramID  primitive.ObjectID  `bson:"programId" json:"programId"`
	UserID     primitive.ObjectID  `bson:"userId" json:"userId"`
	ExerciseID *primitive.ObjectID `bson:"exerciseId,omitempty" json:"exerciseId,omitempty"` // nil for rest days
	WeekID     primitive.ObjectID  `bson:"weekId" json:"weekId"`
	DayID      primitive.ObjectID  `bson:"dayId" json:"dayId"`

	Weight          *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Reps            *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	TimeSeconds     *int     `bson:"timeSeconds,omitempty" json:"timeSeconds,omitempty"`
	RPE             *float64 `bson:"rpe,omitempty" json:"rpe,omitempty"`
	WorkoutDuration *int     `bson:"workoutDuration,omitempty" json:"workoutDuration,omitempty"` // seconds

	IsRestDay   bool      `bson:"isRestDay" json:"isRestDay"`
	CompletedAt time.Time `bson:"completedAt" json:"completedAt"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
