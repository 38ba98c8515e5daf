package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeal_NoChangeWhenPointerValid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	day, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)

	changed, err := f.tracker.Heal(ctx, stored)
	require.NoError(t, err)
	assert.False(t, changed, "valid pointer must not be rewritten")
	assert.Equal(t, week.ID, *stored.CurrentWeekID)
	assert.Equal(t, day.ID, *stored.CurrentDayID)
}

func TestHeal_RepairsPointerAtDeletedWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 4)

	w1, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	w2, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	d2, err := f.editor.AddDay(ctx, f.coach, program.ID, w2.ID, "")
	require.NoError(t, err)

	// Simulate a stale pointer: the referenced week vanishes out from
	// under the stored program.
	require.NoError(t, f.weeks.Delete(ctx, w1.ID))

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	changed, err := f.tracker.Heal(ctx, stored)
	require.NoError(t, err)

	assert.True(t, changed)
	require.NotNil(t, stored.CurrentWeekID)
	assert.Equal(t, w2.ID, *stored.CurrentWeekID)
	require.NotNil(t, stored.CurrentDayID)
	assert.Equal(t, d2.ID, *stored.CurrentDayID)

	// The repair was persisted, not just applied in memory.
	reloaded, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CurrentWeekID)
	assert.Equal(t, w2.ID, *reloaded.CurrentWeekID)
}

func TestHeal_UnsetsPointerWhenTreeEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	require.NoError(t, f.weeks.Delete(ctx, week.ID))

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	changed, err := f.tracker.Heal(ctx, stored)
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Nil(t, stored.CurrentWeekID)
	assert.Nil(t, stored.CurrentDayID)
}

func TestPointTo_EmptyWeekLeavesDayUnset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)

	weekRow, err := f.weeks.GetByID(ctx, week.ID)
	require.NoError(t, err)
	require.NoError(t, f.tracker.PointTo(ctx, stored, weekRow))

	require.NotNil(t, stored.CurrentWeekID)
	assert.Equal(t, week.ID, *stored.CurrentWeekID)
	assert.Nil(t, stored.CurrentDayID)
}

func TestPointTo_PicksFirstDayByOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	program := f.newProgram(t, 3)

	week, err := f.editor.AddWeek(ctx, f.coach, program.ID, "")
	require.NoError(t, err)
	d1, err := f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)
	_, err = f.editor.AddDay(ctx, f.coach, program.ID, week.ID, "")
	require.NoError(t, err)

	stored, err := f.programs.GetByID(ctx, program.ID)
	require.NoError(t, err)
	weekRow, err := f.weeks.GetByID(ctx, week.ID)
	require.NoError(t, err)
	require.NoError(t, f.tracker.PointTo(ctx, stored, weekRow))

	require.NotNil(t, stored.CurrentDayID)
	assert.Equal(t, d1.ID, *stored.CurrentDayID)
}
