package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetType discriminates what an assignment asks the client to count.
type TargetType string

const (
	TargetReps TargetType = "reps"
	TargetTime TargetType = "time"
)

// MeasurementType discriminates how the load of a set is expressed.
type MeasurementType string

const (
	MeasurementRPE MeasurementType = "rpe"
	MeasurementKg  MeasurementType = "kg"
)

// Target is a tagged variant: the Type tag decides which of Reps/Seconds
// carries the value. Exactly one is meaningful, never both.
type Target struct {
	Type    TargetType `bson:"type" json:"type"`
	Reps    int        `bson:"reps,omitempty" json:"reps,omitempty"`
	Seconds int        `bson:"seconds,omitempty" json:"seconds,omitempty"`
}

// Measurement is the RPE-or-weight tag attached to an assignment.
type Measurement struct {
	Type  MeasurementType `bson:"type" json:"type"`
	Value float64         `bson:"value" json:"value"`
}

// Assignment attaches a catalog Exercise to a Day with concrete
// parameters. The exercise is referenced by id, never embedded: renaming
// the catalog entry is visible through every assignment that points at it.
type Assignment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets        int                `bson:"sets" json:"sets"`
	Target      Target             `bson:"target" json:"target"`
	Measurement Measurement        `bson:"measurement" json:"measurement"`
}

// InvalidAssignmentError reports which assignment field failed validation.
type InvalidAssignmentError struct {
	Field  string
	Reason string
}

func (e *InvalidAssignmentError) Error() string {
	return "invalid assignment: " + e.Field + ": " + e.Reason
}

// Validate checks the assignment parameters before they are written.
func (a *Assignment) Validate() error {
	if a.ExerciseID == primitive.NilObjectID {
		return &InvalidAssignmentError{Field: "exerciseId", Reason: "is required"}
	}
	if a.Sets < 1 {
		return &InvalidAssignmentError{Field: "sets", Reason: "must be at least 1"}
	}
	switch a.Target.Type {
	case TargetReps:
		if a.Target.Reps < 1 {
			return &InvalidAssignmentError{Field: "target.reps", Reason: "must be at least 1"}
		}
		if a.Target.Seconds != 0 {
			return &InvalidAssignmentError{Field: "target.seconds", Reason: "must be empty for a reps target"}
		}
	case TargetTime:
		if a.Target.Seconds < 1 {
			return &InvalidAssignmentError{Field: "target.seconds", Reason: "must be at least 1"}
		}
		if a.Target.Reps != 0 {
			return &InvalidAssignmentError{Field: "target.reps", Reason: "must be empty for a time target"}
		}
	default:
		return &InvalidAssignmentError{Field: "target.type", Reason: "must be reps or time"}
	}
	switch a.Measurement.Type {
	case MeasurementRPE, MeasurementKg:
		if a.Measurement.Value < 0 {
			return &InvalidAssignmentError{Field: "measurement.value", Reason: "must not be negative"}
		}
	default:
		return &InvalidAssignmentError{Field: "measurement.type", Reason: "must be rpe or kg"}
	}
	return nil
}

// Clone returns a copy with a fresh identity, for duplication flows.
// The exercise reference is shared, the parameters are copied.
func (a *Assignment) Clone() Assignment {
	dup := *a
	dup.ID = primitive.NewObjectID()
	return dup
}
