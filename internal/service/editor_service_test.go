package service_test

import (
	"context"
	"testing"

	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repsAssignment(sets, reps int, kg float64) service.AssignmentParams {
	return service.AssignmentParams{
		Sets:        sets,
		Target:      domain.Target{Type: domain.TargetReps, Reps: reps},
		Measurement: domain.Measurement{Type: domain.MeasurementKg, Value: kg},
	}
}

func attachByName(name string, params service.AssignmentParams) service.AttachExerciseInput {
	return service.AttachExerciseInput{Name: name, Params: params}
}

func TestCreateProgram_CoachAuthorsForSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	program, err := f.editor.CreateProgram(ctx, f.coach, service.CreateProgramInput{
		Title:      "Hypertrophy Block",
		TotalWeeks: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, f.coach.ID, program.CoachID)
	assert.Equal(t, domain.ProgramActive, program.Status)
	assert.Equal(t, 8, program.TotalWeeks)
	assert.Nil(t, program.CurrentWeekID, "empty program starts with no position")
	assert.Nil(t, program.CurrentDayID)
}

func TestCreateProgram_RejectsInvalidCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.editor.CreateProgram(ctx, f.coach, service.CreateProgramInput{Title: "x", TotalWeeks: 0})
	assert.ErrorIs(t, err, service.ErrValidationFailed)

	_, err = f.editor.CreateProgram(ctx, f.coach, service.CreateProgramInput{Title: "x", TotalWeeks: domain.MaxTotalWeeks + 1})
	assert.ErrorIs(t, err, service.ErrValidationFailed)
}

func TestCreateProgram_ClientRoleRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.editor.CreateProgram(context.Background(), f.client, service.CreateProgramInput{
		Title:      "Self-coached",
		TotalWeeks: 4,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAddWeek_AssignsDenseOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 4)

	for i := 1; i <= 3; i++ {
		week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
		require.NoError(t, err)
		assert.Equal(t, i, week.Order)
	}

	weeks, err := f.weeks.GetByProgramID(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 3)
	for i := range weeks {
		assert.Equal(t, i+1, weeks[i].Order)
	}
}

func TestAddWeek_CapacityEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	_, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	_, err = f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)

	_, err = f.editor.AddWeek(ctx, f.coach, program.ID, "")
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Current)
	assert.Equal(t, 2, capErr.Limit)

	// The rejected insert left nothing behind.
	count, err := f.weeks.CountByProgramID(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddWeek_PromotesPositionOnFirstContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 4)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentWeekID)
	assert.Equal(t, week.ID, *stored.CurrentWeekID)
	assert.Nil(t, stored.CurrentDayID, "week has no days yet")

	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)

	stored, err = f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentDayID)
	assert.Equal(t, day.ID, *stored.CurrentDayID)
}

func TestAddWeek_ReactivatesCompletedProgram(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 6)

	w1, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 1")
	require.NoError(t, err)
	_, err = f.editor.AddDay(ctx, f.coach, program.ID, w1.ID, "Day 1")
	require.NoError(t, err)

	completed := domain.ProgramCompleted
	_, err = f.editor.UpdateProgram(ctx, f.coach, program.ID, service.UpdateProgramInput{Status: &completed})
	require.NoError(t, err)

	// Appending to a completed program resumes it at the new week.
	w2, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 2")
	require.NoError(t, err)

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgramActive, stored.Status)
	require.NotNil(t, stored.CurrentWeekID)
	assert.Equal(t, w2.ID, *stored.CurrentWeekID)
	assert.Nil(t, stored.CurrentDayID, "the fresh week is still empty")

	// The first day added to the fresh week completes the pointer.
	d2, err := f.editor.AddDay(ctx, f.coach, program.ID, w2.ID, "")
	require.NoError(t, err)
	stored, err = f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentDayID)
	assert.Equal(t, d2.ID, *stored.CurrentDayID)
}

func TestSetTotalWeeks_RejectsBelowCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 5)

	for i := 0; i < 3; i++ {
		_, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
		require.NoError(t, err)
	}

	_, err := f.editor.SetTotalWeeks(ctx, f.coach, program.ID, 2)
	var belowErr *domain.BelowCountError
	require.ErrorAs(t, err, &belowErr)
	assert.Equal(t, 2, belowErr.Requested)
	assert.Equal(t, 3, belowErr.Current)

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.TotalWeeks, "rejected resize must not change capacity")

	updated, err := f.editor.SetTotalWeeks(ctx, f.coach, program.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.TotalWeeks)
}

func TestRemoveWeek_ResequencesAndRepairsPosition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 5)

	w1, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 1")
	require.NoError(t, err)
	w2, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 2")
	require.NoError(t, err)
	w3, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 3")
	require.NoError(t, err)
	d2, err := f.editor.AddDay(ctx, f.coach, program.ID, w2.ID, "")
	require.NoError(t, err)

	// Position points at week 1.
	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentWeekID)
	require.Equal(t, w1.ID, *stored.CurrentWeekID)

	require.NoError(t, f.editor.RemoveWeek(ctx, f.coach, program.ID, w1.ID))

	weeks, err := f.weeks.GetByProgramID(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, w2.ID, weeks[0].ID)
	assert.Equal(t, 1, weeks[0].Order)
	assert.Equal(t, w3.ID, weeks[1].ID)
	assert.Equal(t, 2, weeks[1].Order)

	// Pointer fell back to the new first week and its first day.
	stored, err = f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentWeekID)
	assert.Equal(t, w2.ID, *stored.CurrentWeekID)
	require.NotNil(t, stored.CurrentDayID)
	assert.Equal(t, d2.ID, *stored.CurrentDayID)
}

func TestRemoveWeek_CascadesThroughDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)
	_, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Back Squat", repsAssignment(3, 5, 100)))
	require.NoError(t, err)

	require.NoError(t, f.editor.RemoveWeek(ctx, f.coach, program.ID, week.ID))

	assert.Empty(t, f.days.days)
	assert.Empty(t, f.weeks.weeks)
	// The catalog entry survives: it is shared, not part of the tree.
	assert.Len(t, f.exercises.exercises, 1)
}

func TestDuplicateWeek_CopyLandsAfterSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 6)

	w1, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 1")
	require.NoError(t, err)
	w2, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Week 2")
	require.NoError(t, err)

	copied, err := f.editor.DuplicateWeek(ctx, f.coach, program.ID, w1.ID)
	require.NoError(t, err)

	assert.Equal(t, "Week 1 (Copy)", copied.Name)
	assert.Equal(t, 2, copied.Order, "copy sits directly after its source")

	weeks, err := f.weeks.GetByProgramID(ctx, program.ID)
	require.NoError(t, err)
	require.Len(t, weeks, 3)
	assert.Equal(t, w1.ID, weeks[0].ID)
	assert.Equal(t, copied.ID, weeks[1].ID)
	assert.Equal(t, w2.ID, weeks[2].ID)
	assert.Equal(t, 3, weeks[2].Order, "later siblings shift down")
}

func TestDuplicateWeek_DeepCopiesDaysAndAssignments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 6)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "Heavy Week")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "Squat Day")
	require.NoError(t, err)
	day, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Back Squat", repsAssignment(5, 5, 120)))
	require.NoError(t, err)
	require.Len(t, day.Exercises, 1)
	sourceAssignment := day.Exercises[0]

	copied, err := f.editor.DuplicateWeek(ctx, f.coach, program.ID, week.ID)
	require.NoError(t, err)

	copiedDays, err := f.days.GetByWeekID(ctx, copied.ID)
	require.NoError(t, err)
	require.Len(t, copiedDays, 1)
	assert.Equal(t, "Squat Day", copiedDays[0].Name)
	require.Len(t, copiedDays[0].Exercises, 1)

	dup := copiedDays[0].Exercises[0]
	assert.NotEqual(t, sourceAssignment.ID, dup.ID, "assignments get fresh identities")
	assert.Equal(t, sourceAssignment.ExerciseID, dup.ExerciseID, "the catalog reference is shared")
	assert.Equal(t, sourceAssignment.Sets, dup.Sets)
	assert.Equal(t, sourceAssignment.Target, dup.Target)
	assert.Equal(t, sourceAssignment.Measurement, dup.Measurement)

	// The source week is untouched.
	sourceDays, err := f.days.GetByWeekID(ctx, week.ID)
	require.NoError(t, err)
	require.Len(t, sourceDays, 1)
	require.Len(t, sourceDays[0].Exercises, 1)
	assert.Equal(t, sourceAssignment.ID, sourceDays[0].Exercises[0].ID)
}

func TestDuplicateWeek_CapacityEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 1)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)

	_, err = f.editor.DuplicateWeek(ctx, f.coach, program.ID, week.ID)
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 1, capErr.Limit)

	count, err := f.weeks.CountByProgramID(ctx, program.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddDay_CapacityEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	for i := 0; i < domain.MaxDaysPerWeek; i++ {
		_, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
		require.NoError(t, err)
	}

	_, err = f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	var capErr *domain.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, domain.MaxDaysPerWeek, capErr.Limit)
}

func TestDuplicateDay_CopyLandsAfterSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	d1, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "Push")
	require.NoError(t, err)
	d2, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "Pull")
	require.NoError(t, err)

	copied, err := f.editor.DuplicateDay(ctx, f.coach, program.ID, d1.ID)
	require.NoError(t, err)

	days, err := f.days.GetByWeekID(ctx, week.ID)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, d1.ID, days[0].ID)
	assert.Equal(t, copied.ID, days[1].ID)
	assert.Equal(t, "Push (Copy)", days[1].Name)
	assert.Equal(t, d2.ID, days[2].ID)
	assert.Equal(t, 3, days[2].Order)
}

func TestWeekMembership_CrossProgramRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	programA := f.newProgram(t, 3)
	programB := f.newProgram(t, 3)

	weekB, err := f.editor.AddWeek(ctx, f.coach, programB.ID, "")
	require.NoError(t, err)

	_, err = f.editor.UpdateWeek(ctx, f.coach, programA.ID, weekB.ID, "Hijacked")
	assert.ErrorIs(t, err, domain.ErrStructuralMismatch)

	err = f.editor.RemoveWeek(ctx, f.coach, programA.ID, weekB.ID)
	assert.ErrorIs(t, err, domain.ErrStructuralMismatch)

	// The foreign week is untouched.
	stored, err := f.weeks.GetByID(ctx, weekB.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Hijacked", stored.Name)
}

func TestEditor_ForeignCoachRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	_, err := f.editor.AddWeek(ctx, f.otherCoach, program.ID, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.editor.UpdateProgram(ctx, f.otherCoach, program.ID, service.UpdateProgramInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Admins bypass ownership.
	_, err = f.editor.AddWeek(ctx, f.admin, program.ID, "")
	assert.NoError(t, err)
}

func TestGetProgram_AssignedClientMayRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	tree, err := f.editor.GetProgram(ctx, f.client, program.ID)
	require.NoError(t, err)
	assert.Equal(t, program.ID, tree.Program.ID)

	_, err = f.editor.GetProgram(ctx, f.otherClient, program.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAttachExercise_FirstOrCreateDeduplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)

	day, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Deadlift", repsAssignment(3, 5, 140)))
	require.NoError(t, err)
	day, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Deadlift", repsAssignment(1, 3, 160)))
	require.NoError(t, err)

	require.Len(t, day.Exercises, 2)
	assert.Equal(t, day.Exercises[0].ExerciseID, day.Exercises[1].ExerciseID, "same name resolves to the same entry")
	assert.Len(t, f.exercises.exercises, 1, "no duplicate catalog rows")
}

func TestAttachExercise_InvalidTargetRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)

	// A reps target must not carry seconds.
	_, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, service.AttachExerciseInput{
		Name: "Plank",
		Params: service.AssignmentParams{
			Sets:        3,
			Target:      domain.Target{Type: domain.TargetReps, Reps: 5, Seconds: 30},
			Measurement: domain.Measurement{Type: domain.MeasurementRPE, Value: 8},
		},
	})
	var invalidErr *domain.InvalidAssignmentError
	require.ErrorAs(t, err, &invalidErr)
	assert.Equal(t, "target.seconds", invalidErr.Field)

	stored, err := f.days.GetByID(ctx, day.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Exercises)
}

func TestUpdateAssignment_ReplacesParams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)
	day, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Row", repsAssignment(3, 8, 60)))
	require.NoError(t, err)
	assignmentID := day.Exercises[0].ID

	day, err = f.editor.UpdateAssignment(ctx, f.coach, program.ID, day.ID, assignmentID, service.AssignmentParams{
		Sets:        4,
		Target:      domain.Target{Type: domain.TargetTime, Seconds: 45},
		Measurement: domain.Measurement{Type: domain.MeasurementRPE, Value: 7},
	})
	require.NoError(t, err)

	updated := day.FindAssignment(assignmentID)
	require.NotNil(t, updated)
	assert.Equal(t, 4, updated.Sets)
	assert.Equal(t, domain.TargetTime, updated.Target.Type)
	assert.Equal(t, 45, updated.Target.Seconds)

	_, err = f.editor.UpdateAssignment(ctx, f.coach, program.ID, day.ID, f.coach.ID, repsAssignment(1, 1, 1))
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
}

func TestDetachExercise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 2)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)
	day, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Curl", repsAssignment(3, 12, 20)))
	require.NoError(t, err)
	assignmentID := day.Exercises[0].ID

	require.NoError(t, f.editor.DetachExercise(ctx, f.coach, program.ID, day.ID, assignmentID))

	stored, err := f.days.GetByID(ctx, day.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Exercises)

	err = f.editor.DetachExercise(ctx, f.coach, program.ID, day.ID, assignmentID)
	assert.ErrorIs(t, err, service.ErrAssignmentNotFound)
}

func TestDeleteProgram_CascadesWholeTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)
	_, err = f.editor.AttachExercise(ctx, f.coach, program.ID, day.ID, attachByName("Press", repsAssignment(3, 5, 60)))
	require.NoError(t, err)

	require.NoError(t, f.editor.DeleteProgram(ctx, f.coach, program.ID))

	_, err = f.editor.GetProgram(ctx, f.coach, program.ID)
	assert.ErrorIs(t, err, service.ErrProgramNotFound)
	assert.Empty(t, f.weeks.weeks)
	assert.Empty(t, f.days.days)
}
