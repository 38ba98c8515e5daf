package service_test

import (
	"context"
	"testing"

	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogGetOrCreate_Deduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.catalog.GetOrCreate(ctx, "Bench Press", service.ExerciseDefaults{
		TargetType: domain.TargetReps,
		CreatedBy:  f.coach.ID,
	})
	require.NoError(t, err)

	// Same name again, different defaults: the existing entry wins.
	second, err := f.catalog.GetOrCreate(ctx, "Bench Press", service.ExerciseDefaults{
		TargetType:  domain.TargetTime,
		Description: "ignored",
		CreatedBy:   f.otherCoach.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.TargetReps, second.TargetType)
	assert.Len(t, f.exercises.exercises, 1)
}

func TestCatalogGetOrCreate_TrimsAndValidatesName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.catalog.GetOrCreate(ctx, "  Front Squat  ", service.ExerciseDefaults{CreatedBy: f.coach.ID})
	require.NoError(t, err)
	assert.Equal(t, "Front Squat", entry.Name)

	_, err = f.catalog.GetOrCreate(ctx, "   ", service.ExerciseDefaults{CreatedBy: f.coach.ID})
	assert.ErrorIs(t, err, service.ErrValidationFailed)
}

func TestCatalogUpdate_RenameIsSharedEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)
	day, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Buttlifts", repsAssignment(3, 10, 40)))
	require.NoError(t, err)
	exerciseID := day.Exercises[0].ExerciseID

	// Renaming via the catalog renames the concept, not one usage.
	_, err = f.catalog.Update(ctx, exerciseID, "Hip Thrust", "", "")
	require.NoError(t, err)

	seen, err := f.catalog.GetByID(ctx, exerciseID)
	require.NoError(t, err)
	assert.Equal(t, "Hip Thrust", seen.Name)

	// The assignment still references the same entry.
	stored, err := f.days.GetByID(ctx, day.ID)
	require.NoError(t, err)
	assert.Equal(t, exerciseID, stored.Exercises[0].ExerciseID)
}

func TestCatalogUpdate_DuplicateNameRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.GetOrCreate(ctx, "Deadlift", service.ExerciseDefaults{CreatedBy: f.coach.ID})
	require.NoError(t, err)
	entry, err := f.catalog.GetOrCreate(ctx, "Romanian Deadlift", service.ExerciseDefaults{CreatedBy: f.coach.ID})
	require.NoError(t, err)

	_, err = f.catalog.Update(ctx, entry.ID, "Deadlift", "", "")
	assert.ErrorIs(t, err, service.ErrExerciseNameTaken)
}

func TestCatalogGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.catalog.GetByID(context.Background(), f.coach.ID)
	assert.ErrorIs(t, err, service.ErrExerciseNotFound)
}
