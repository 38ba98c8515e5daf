package domain_test

import (
	"testing"

	"alcyxob/coachplan/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validAssignment() domain.Assignment {
	return domain.Assignment{
		ID:          primitive.NewObjectID(),
		ExerciseID:  primitive.NewObjectID(),
		Sets:        3,
		Target:      domain.Target{Type: domain.TargetReps, Reps: 8},
		Measurement: domain.Measurement{Type: domain.MeasurementKg, Value: 60},
	}
}

func TestAssignmentValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.Assignment)
		wantField string
	}{
		{"valid reps target", func(a *domain.Assignment) {}, ""},
		{"valid time target", func(a *domain.Assignment) {
			a.Target = domain.Target{Type: domain.TargetTime, Seconds: 45}
		}, ""},
		{"valid rpe measurement", func(a *domain.Assignment) {
			a.Measurement = domain.Measurement{Type: domain.MeasurementRPE, Value: 8.5}
		}, ""},
		{"missing exercise", func(a *domain.Assignment) {
			a.ExerciseID = primitive.NilObjectID
		}, "exerciseId"},
		{"zero sets", func(a *domain.Assignment) {
			a.Sets = 0
		}, "sets"},
		{"reps target without reps", func(a *domain.Assignment) {
			a.Target = domain.Target{Type: domain.TargetReps}
		}, "target.reps"},
		{"reps target carrying seconds", func(a *domain.Assignment) {
			a.Target = domain.Target{Type: domain.TargetReps, Reps: 5, Seconds: 30}
		}, "target.seconds"},
		{"time target without seconds", func(a *domain.Assignment) {
			a.Target = domain.Target{Type: domain.TargetTime}
		}, "target.seconds"},
		{"time target carrying reps", func(a *domain.Assignment) {
			a.Target = domain.Target{Type: domain.TargetTime, Seconds: 30, Reps: 5}
		}, "target.reps"},
		{"unknown target type", func(a *domain.Assignment) {
			a.Target = domain.Target{Type: "distance", Reps: 5}
		}, "target.type"},
		{"unknown measurement type", func(a *domain.Assignment) {
			a.Measurement = domain.Measurement{Type: "lbs", Value: 100}
		}, "measurement.type"},
		{"negative measurement value", func(a *domain.Assignment) {
			a.Measurement = domain.Measurement{Type: domain.MeasurementKg, Value: -1}
		}, "measurement.value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAssignment()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var invalidErr *domain.InvalidAssignmentError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, tt.wantField, invalidErr.Field)
		})
	}
}

func TestAssignmentClone(t *testing.T) {
	source := validAssignment()
	dup := source.Clone()

	assert.NotEqual(t, source.ID, dup.ID, "clone gets a fresh identity")
	assert.Equal(t, source.ExerciseID, dup.ExerciseID)
	assert.Equal(t, source.Sets, dup.Sets)
	assert.Equal(t, source.Target, dup.Target)
	assert.Equal(t, source.Measurement, dup.Measurement)
}
