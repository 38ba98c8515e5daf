package repository

import (
	"alcyxob/coachplan/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner executes fn inside a single storage transaction. Every write
// issued through the ctx handed to fn commits or rolls back atomically;
// concurrent edits to the same program serialize on the store, no
// in-process locking is involved.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
}

// ProgramRepository defines the interface for interacting with programs.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	// SetPosition writes only the current week/day pointer. Passing nil
	// clears that half of the pointer.
	SetPosition(ctx context.Context, programID primitive.ObjectID, weekID, dayID *primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WeekRepository defines the interface for interacting with weeks.
type WeekRepository interface {
	Create(ctx context.Context, week *domain.Week) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Week, error)
	// GetByProgramID returns the program's weeks sorted by order ascending.
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Week, error)
	CountByProgramID(ctx context.Context, programID primitive.ObjectID) (int, error)
	Update(ctx context.Context, week *domain.Week) error
	SetOrder(ctx context.Context, weekID primitive.ObjectID, order int) error
	Delete(ctx context.Context, weekID primitive.ObjectID) error
}

// DayRepository defines the interface for interacting with days and the
// assignments embedded in them.
type DayRepository interface {
	Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error)
	// GetByWeekID returns the week's days sorted by order ascending.
	GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Day, error)
	CountByWeekID(ctx context.Context, weekID primitive.ObjectID) (int, error)
	Update(ctx context.Context, day *domain.Day) error
	SetOrder(ctx context.Context, dayID primitive.ObjectID, order int) error
	Delete(ctx context.Context, dayID primitive.ObjectID) error

	AddAssignment(ctx context.Context, dayID primitive.ObjectID, assignment *domain.Assignment) error
	UpdateAssignment(ctx context.Context, dayID primitive.ObjectID, assignment *domain.Assignment) error
	RemoveAssignment(ctx context.Context, dayID, assignmentID primitive.ObjectID) error
	ClearAssignments(ctx context.Context, dayID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	// GetOrCreate returns the existing exercise with the given name, or
	// inserts the passed one. The boolean reports whether a row was created.
	GetOrCreate(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, bool, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
}

// ProgressLogRepository defines the interface for raw workout logs.
// Rows are append-only apart from client-owned edits.
type ProgressLogRepository interface {
	Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressLog, error)
	// GetByProgram returns logs for a program sorted by completedAt
	// ascending, optionally restricted to one week.
	GetByProgram(ctx context.Context, programID primitive.ObjectID, weekID *primitive.ObjectID) ([]domain.ProgressLog, error)
	Update(ctx context.Context, log *domain.ProgressLog) error
}
