package domain_test

import (
	"testing"

	"alcyxob/coachplan/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercent(t *testing.T) {
	p := domain.Program{TotalWeeks: 8, CompletedWeeks: 2}
	assert.InDelta(t, 25.0, p.ProgressPercent(), 0.001)

	p = domain.Program{TotalWeeks: 0, CompletedWeeks: 3}
	assert.Zero(t, p.ProgressPercent())
}

func TestDayFindAssignment(t *testing.T) {
	a := validAssignment()
	day := domain.Day{Exercises: []domain.Assignment{a}}

	found := day.FindAssignment(a.ID)
	assert.NotNil(t, found)
	assert.Equal(t, a.ID, found.ID)

	assert.Nil(t, day.FindAssignment(a.ExerciseID))
}
