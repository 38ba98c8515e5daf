package service

import "errors"

// --- Error Definitions shared across services ---
var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrWeekNotFound       = errors.New("week not found")
	ErrDayNotFound        = errors.New("day not found")
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrLogNotFound        = errors.New("progress log not found")
	ErrValidationFailed   = errors.New("validation failed")
)
