package service

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/notifier"
	"alcyxob/coachplan/internal/ordering"
	"alcyxob/coachplan/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizeFunc decides whether an actor may mutate a program. It is
// supplied from the outside so the editor stays independent of how
// roles are sourced.
type AuthorizeFunc func(actor domain.Actor, program *domain.Program) bool

// DefaultAuthorize allows admins always, and coaches on their own
// programs.
func DefaultAuthorize(actor domain.Actor, program *domain.Program) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == domain.RoleCoach && program.CoachID == actor.ID
}

// --- Inputs ---

type CreateProgramInput struct {
	Title       string
	Description string
	CoachID     *primitive.ObjectID // admins may create on behalf of a coach
	ClientID    *primitive.ObjectID
	TotalWeeks  int
}

type UpdateProgramInput struct {
	Title          *string
	Description    *string
	Status         *domain.ProgramStatus
	ClientID       *primitive.ObjectID
	CompletedWeeks *int
}

// AssignmentParams are the per-assignment targets for one exercise.
type AssignmentParams struct {
	Sets        int
	Target      domain.Target
	Measurement domain.Measurement
}

// AttachExerciseInput attaches a catalog exercise to a day: either an
// existing entry by id, or first-or-create by name.
type AttachExerciseInput struct {
	ExerciseID  *primitive.ObjectID
	Name        string
	Description string
	VideoURL    string
	Params      AssignmentParams
}

// --- Read model ---

// WeekNode is a week with its ordered days (assignments embedded).
type WeekNode struct {
	Week domain.Week  `json:"week"`
	Days []domain.Day `json:"days"`
}

// ProgramTree is the full subtree of one program.
type ProgramTree struct {
	Program *domain.Program `json:"program"`
	Weeks   []WeekNode      `json:"weeks"`
}

// EditorService orchestrates structural edits on the program tree.
// Every mutation validates authorization and parent/child membership,
// then runs inside a single transaction: capacity checks, cascade
// deletes, resequencing and position repair commit or roll back
// together. There is no observable partial state.
type EditorService interface {
	CreateProgram(ctx context.Context, actor domain.Actor, input CreateProgramInput) (*domain.Program, error)
	GetProgram(ctx context.Context, actor domain.Actor, programID primitive.ObjectID) (*ProgramTree, error)
	GetCoachPrograms(ctx context.Context, actor domain.Actor, coachID primitive.ObjectID) ([]domain.Program, error)
	UpdateProgram(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, input UpdateProgramInput) (*domain.Program, error)
	SetTotalWeeks(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, totalWeeks int) (*domain.Program, error)
	DeleteProgram(ctx context.Context, actor domain.Actor, programID primitive.ObjectID) error

	AddWeek(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, name string) (*domain.Week, error)
	UpdateWeek(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID, name string) (*domain.Week, error)
	RemoveWeek(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID) error
	DuplicateWeek(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID) (*domain.Week, error)

	AddDay(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID, name string) (*domain.Day, error)
	UpdateDay(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID, name string) (*domain.Day, error)
	RemoveDay(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID) error
	DuplicateDay(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID) (*domain.Day, error)

	AttachExercise(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID, input AttachExerciseInput) (*domain.Day, error)
	UpdateAssignment(ctx context.Context, actor domain.Actor, programID, dayID, assignmentID primitive.ObjectID, params AssignmentParams) (*domain.Day, error)
	DetachExercise(ctx context.Context, actor domain.Actor, programID, dayID, assignmentID primitive.ObjectID) error
}

// editorService implements the EditorService interface.
type editorService struct {
	programRepo repository.ProgramRepository
	weekRepo    repository.WeekRepository
	dayRepo     repository.DayRepository
	userRepo    repository.UserRepository
	catalog     CatalogService
	tracker     PositionTracker
	tx          repository.TxRunner
	authorize   AuthorizeFunc
	notifier    notifier.Notifier
}

// NewEditorService creates a new instance of editorService.
func NewEditorService(
	programRepo repository.ProgramRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.DayRepository,
	userRepo repository.UserRepository,
	catalog CatalogService,
	tracker PositionTracker,
	tx repository.TxRunner,
	authorize AuthorizeFunc,
	mailer notifier.Notifier,
) EditorService {
	if authorize == nil {
		authorize = DefaultAuthorize
	}
	if mailer == nil {
		mailer = notifier.Noop{}
	}
	return &editorService{
		programRepo: programRepo,
		weekRepo:    weekRepo,
		dayRepo:     dayRepo,
		userRepo:    userRepo,
		catalog:     catalog,
		tracker:     tracker,
		tx:          tx,
		authorize:   authorize,
		notifier:    mailer,
	}
}

// === Programs ===

func (s *editorService) CreateProgram(ctx context.Context, actor domain.Actor, input CreateProgramInput) (*domain.Program, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if input.TotalWeeks < domain.MinTotalWeeks || input.TotalWeeks > domain.MaxTotalWeeks {
		return nil, fmt.Errorf("%w: total weeks must be between %d and %d",
			ErrValidationFailed, domain.MinTotalWeeks, domain.MaxTotalWeeks)
	}

	coachID := actor.ID
	switch actor.Role {
	case domain.RoleAdmin:
		if input.CoachID != nil {
			coachID = *input.CoachID
		}
	case domain.RoleCoach:
		// Coaches author for themselves only.
	default:
		return nil, domain.ErrUnauthorized
	}

	var client *domain.User
	if input.ClientID != nil {
		var err error
		client, err = s.userRepo.GetByID(ctx, *input.ClientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: client does not exist", ErrValidationFailed)
			}
			return nil, err
		}
		if !client.IsClient() {
			return nil, fmt.Errorf("%w: assigned user is not a client", ErrValidationFailed)
		}
	}

	program := &domain.Program{
		CoachID:     coachID,
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.ProgramActive,
		TotalWeeks:  input.TotalWeeks,
	}
	// The tree starts empty, so the current position starts unset; the
	// tracker promotes it once weeks and days exist.
	id, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, err
	}
	program.ID = id

	if client != nil {
		// Fire-and-forget: a failed email never fails the create.
		go func(email, name, title string) {
			if err := s.notifier.ProgramAssigned(context.Background(), email, name, title); err != nil {
				log.Printf("WARN: failed to send program assignment email to %s: %v", email, err)
			}
		}(client.Email, client.Name, program.Title)
	}
	return program, nil
}

func (s *editorService) GetProgram(ctx context.Context, actor domain.Actor, programID primitive.ObjectID) (*ProgramTree, error) {
	program, err := s.loadReadable(ctx, actor, programID)
	if err != nil {
		return nil, err
	}
	// Read-time self-healing: every surfaced pointer is valid or unset.
	if _, err := s.tracker.Heal(ctx, program); err != nil {
		return nil, err
	}

	weeks, err := s.weekRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, err
	}
	tree := &ProgramTree{Program: program, Weeks: make([]WeekNode, 0, len(weeks))}
	for i := range weeks {
		days, err := s.dayRepo.GetByWeekID(ctx, weeks[i].ID)
		if err != nil {
			return nil, err
		}
		tree.Weeks = append(tree.Weeks, WeekNode{Week: weeks[i], Days: days})
	}
	return tree, nil
}

func (s *editorService) GetCoachPrograms(ctx context.Context, actor domain.Actor, coachID primitive.ObjectID) ([]domain.Program, error) {
	if !actor.IsAdmin() && actor.ID != coachID {
		return nil, domain.ErrUnauthorized
	}
	programs, err := s.programRepo.GetByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range programs {
		if _, err := s.tracker.Heal(ctx, &programs[i]); err != nil {
			return nil, err
		}
	}
	return programs, nil
}

func (s *editorService) UpdateProgram(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, input UpdateProgramInput) (*domain.Program, error) {
	var program *domain.Program
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		program, err = s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}

		if input.Title != nil {
			if *input.Title == "" {
				return fmt.Errorf("%w: title cannot be empty", ErrValidationFailed)
			}
			program.Title = *input.Title
		}
		if input.Description != nil {
			program.Description = *input.Description
		}
		if input.Status != nil {
			switch *input.Status {
			case domain.ProgramActive, domain.ProgramCompleted, domain.ProgramCancelled:
				program.Status = *input.Status
			default:
				return fmt.Errorf("%w: unknown program status", ErrValidationFailed)
			}
		}
		if input.ClientID != nil {
			program.ClientID = input.ClientID
		}
		if input.CompletedWeeks != nil {
			// An independent counter, used for displayed percentages
			// only. Never derived from the position pointer.
			if *input.CompletedWeeks < 0 {
				return fmt.Errorf("%w: completed weeks cannot be negative", ErrValidationFailed)
			}
			program.CompletedWeeks = *input.CompletedWeeks
		}
		return s.programRepo.Update(ctx, program)
	})
	if err != nil {
		return nil, err
	}
	return program, nil
}

func (s *editorService) SetTotalWeeks(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, totalWeeks int) (*domain.Program, error) {
	var program *domain.Program
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		program, err = s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		if totalWeeks < domain.MinTotalWeeks || totalWeeks > domain.MaxTotalWeeks {
			return fmt.Errorf("%w: total weeks must be between %d and %d",
				ErrValidationFailed, domain.MinTotalWeeks, domain.MaxTotalWeeks)
		}
		count, err := s.weekRepo.CountByProgramID(ctx, programID)
		if err != nil {
			return err
		}
		if totalWeeks < count {
			return &domain.BelowCountError{Requested: totalWeeks, Current: count}
		}
		program.TotalWeeks = totalWeeks
		return s.programRepo.Update(ctx, program)
	})
	if err != nil {
		return nil, err
	}
	return program, nil
}

func (s *editorService) DeleteProgram(ctx context.Context, actor domain.Actor, programID primitive.ObjectID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadAuthorized(ctx, actor, programID); err != nil {
			return err
		}
		// Bottom-up cascade over the whole tree. Progress logs are kept:
		// they are the client's history, not program structure.
		weeks, err := s.weekRepo.GetByProgramID(ctx, programID)
		if err != nil {
			return err
		}
		for i := range weeks {
			days, err := s.dayRepo.GetByWeekID(ctx, weeks[i].ID)
			if err != nil {
				return err
			}
			for j := range days {
				if err := s.dayRepo.ClearAssignments(ctx, days[j].ID); err != nil {
					return err
				}
				if err := s.dayRepo.Delete(ctx, days[j].ID); err != nil {
					return err
				}
			}
			if err := s.weekRepo.Delete(ctx, weeks[i].ID); err != nil {
				return err
			}
		}
		return s.programRepo.Delete(ctx, programID)
	})
}

// === Weeks ===

func (s *editorService) AddWeek(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, name string) (*domain.Week, error) {
	var week *domain.Week
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		program, err := s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		count, err := s.weekRepo.CountByProgramID(ctx, programID)
		if err != nil {
			return err
		}
		if count >= program.TotalWeeks {
			return &domain.CapacityError{Node: "weeks", Current: count, Limit: program.TotalWeeks}
		}

		if name == "" {
			name = fmt.Sprintf("Week %d", count+1)
		}
		week = &domain.Week{ProgramID: programID, Name: name, Order: count + 1}
		if _, err := s.weekRepo.Create(ctx, week); err != nil {
			return err
		}

		// Appending a week to a completed program resumes it: status
		// flips back to active and the position is forced onto the
		// fresh content regardless of its prior value.
		if program.Status == domain.ProgramCompleted {
			program.Status = domain.ProgramActive
			if err := s.programRepo.Update(ctx, program); err != nil {
				return err
			}
			return s.tracker.PointTo(ctx, program, week)
		}
		_, err = s.tracker.Heal(ctx, program)
		return err
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

func (s *editorService) UpdateWeek(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID, name string) (*domain.Week, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: week name cannot be empty", ErrValidationFailed)
	}
	var week *domain.Week
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadAuthorized(ctx, actor, programID); err != nil {
			return err
		}
		var err error
		week, err = s.weekInProgram(ctx, programID, weekID)
		if err != nil {
			return err
		}
		week.Name = name
		return s.weekRepo.Update(ctx, week)
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

func (s *editorService) RemoveWeek(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		program, err := s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		week, err := s.weekInProgram(ctx, programID, weekID)
		if err != nil {
			return err
		}

		// Explicit bottom-up cascade: assignments, then days, then the
		// week itself. All inside the enclosing transaction, so partial
		// cascades are never observable.
		days, err := s.dayRepo.GetByWeekID(ctx, week.ID)
		if err != nil {
			return err
		}
		for i := range days {
			if err := s.dayRepo.ClearAssignments(ctx, days[i].ID); err != nil {
				return err
			}
			if err := s.dayRepo.Delete(ctx, days[i].ID); err != nil {
				return err
			}
		}
		if err := s.weekRepo.Delete(ctx, week.ID); err != nil {
			return err
		}

		if err := s.resequenceWeeks(ctx, programID); err != nil {
			return err
		}
		_, err = s.tracker.Heal(ctx, program)
		return err
	})
}

func (s *editorService) DuplicateWeek(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID) (*domain.Week, error) {
	var copy *domain.Week
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		program, err := s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		source, err := s.weekInProgram(ctx, programID, weekID)
		if err != nil {
			return err
		}
		// Duplication is an insert and runs the same capacity check.
		count, err := s.weekRepo.CountByProgramID(ctx, programID)
		if err != nil {
			return err
		}
		if count >= program.TotalWeeks {
			return &domain.CapacityError{Node: "weeks", Current: count, Limit: program.TotalWeeks}
		}

		// The copy takes its source's order value; the resequence pass
		// breaks the tie by creation time, which places it directly
		// after the source.
		copy = &domain.Week{
			ProgramID: programID,
			Name:      source.Name + " (Copy)",
			Order:     source.Order,
		}
		if _, err := s.weekRepo.Create(ctx, copy); err != nil {
			return err
		}

		days, err := s.dayRepo.GetByWeekID(ctx, source.ID)
		if err != nil {
			return err
		}
		for i := range days {
			dayCopy := &domain.Day{
				WeekID:    copy.ID,
				ProgramID: programID,
				Name:      days[i].Name,
				Order:     days[i].Order,
				Exercises: cloneAssignments(days[i].Exercises),
			}
			if _, err := s.dayRepo.Create(ctx, dayCopy); err != nil {
				return err
			}
		}

		if err := s.resequenceWeeks(ctx, programID); err != nil {
			return err
		}
		if copy, err = s.weekRepo.GetByID(ctx, copy.ID); err != nil {
			return err
		}
		_, err = s.tracker.Heal(ctx, program)
		return err
	})
	if err != nil {
		return nil, err
	}
	return copy, nil
}

// === Days ===

func (s *editorService) AddDay(ctx context.Context, actor domain.Actor, programID, weekID primitive.ObjectID, name string) (*domain.Day, error) {
	var day *domain.Day
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		program, err := s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		week, err := s.weekInProgram(ctx, programID, weekID)
		if err != nil {
			return err
		}
		count, err := s.dayRepo.CountByWeekID(ctx, week.ID)
		if err != nil {
			return err
		}
		if count >= domain.MaxDaysPerWeek {
			return &domain.CapacityError{Node: "days", Current: count, Limit: domain.MaxDaysPerWeek}
		}

		if name == "" {
			name = fmt.Sprintf("Day %d", count+1)
		}
		day = &domain.Day{WeekID: week.ID, ProgramID: programID, Name: name, Order: count + 1}
		if _, err := s.dayRepo.Create(ctx, day); err != nil {
			return err
		}
		// A day appearing under the current week may complete the
		// pointer's day half.
		_, err = s.tracker.Heal(ctx, program)
		return err
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *editorService) UpdateDay(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID, name string) (*domain.Day, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: day name cannot be empty", ErrValidationFailed)
	}
	var day *domain.Day
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadAuthorized(ctx, actor, programID); err != nil {
			return err
		}
		var err error
		day, err = s.dayInProgram(ctx, programID, dayID)
		if err != nil {
			return err
		}
		day.Name = name
		return s.dayRepo.Update(ctx, day)
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *editorService) RemoveDay(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		program, err := s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		day, err := s.dayInProgram(ctx, programID, dayID)
		if err != nil {
			return err
		}

		if err := s.dayRepo.ClearAssignments(ctx, day.ID); err != nil {
			return err
		}
		if err := s.dayRepo.Delete(ctx, day.ID); err != nil {
			return err
		}
		if err := s.resequenceDays(ctx, day.WeekID); err != nil {
			return err
		}
		_, err = s.tracker.Heal(ctx, program)
		return err
	})
}

func (s *editorService) DuplicateDay(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID) (*domain.Day, error) {
	var copy *domain.Day
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		program, err := s.loadAuthorized(ctx, actor, programID)
		if err != nil {
			return err
		}
		source, err := s.dayInProgram(ctx, programID, dayID)
		if err != nil {
			return err
		}
		count, err := s.dayRepo.CountByWeekID(ctx, source.WeekID)
		if err != nil {
			return err
		}
		if count >= domain.MaxDaysPerWeek {
			return &domain.CapacityError{Node: "days", Current: count, Limit: domain.MaxDaysPerWeek}
		}

		copy = &domain.Day{
			WeekID:    source.WeekID,
			ProgramID: programID,
			Name:      source.Name + " (Copy)",
			Order:     source.Order,
			Exercises: cloneAssignments(source.Exercises),
		}
		if _, err := s.dayRepo.Create(ctx, copy); err != nil {
			return err
		}

		if err := s.resequenceDays(ctx, source.WeekID); err != nil {
			return err
		}
		if copy, err = s.dayRepo.GetByID(ctx, copy.ID); err != nil {
			return err
		}
		_, err = s.tracker.Heal(ctx, program)
		return err
	})
	if err != nil {
		return nil, err
	}
	return copy, nil
}

// === Assignments ===

func (s *editorService) AttachExercise(ctx context.Context, actor domain.Actor, programID, dayID primitive.ObjectID, input AttachExerciseInput) (*domain.Day, error) {
	var day *domain.Day
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadAuthorized(ctx, actor, programID); err != nil {
			return err
		}
		var err error
		day, err = s.dayInProgram(ctx, programID, dayID)
		if err != nil {
			return err
		}

		var exercise *domain.Exercise
		if input.ExerciseID != nil {
			exercise, err = s.catalog.GetByID(ctx, *input.ExerciseID)
		} else {
			exercise, err = s.catalog.GetOrCreate(ctx, input.Name, ExerciseDefaults{
				TargetType:  input.Params.Target.Type,
				Description: input.Description,
				VideoURL:    input.VideoURL,
				CreatedBy:   actor.ID,
			})
		}
		if err != nil {
			return err
		}

		assignment := &domain.Assignment{
			ExerciseID:  exercise.ID,
			Sets:        input.Params.Sets,
			Target:      input.Params.Target,
			Measurement: input.Params.Measurement,
		}
		if err := assignment.Validate(); err != nil {
			return err
		}
		if err := s.dayRepo.AddAssignment(ctx, day.ID, assignment); err != nil {
			return err
		}
		day, err = s.dayRepo.GetByID(ctx, day.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *editorService) UpdateAssignment(ctx context.Context, actor domain.Actor, programID, dayID, assignmentID primitive.ObjectID, params AssignmentParams) (*domain.Day, error) {
	var day *domain.Day
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadAuthorized(ctx, actor, programID); err != nil {
			return err
		}
		var err error
		day, err = s.dayInProgram(ctx, programID, dayID)
		if err != nil {
			return err
		}
		existing := day.FindAssignment(assignmentID)
		if existing == nil {
			return ErrAssignmentNotFound
		}

		updated := &domain.Assignment{
			ID:          existing.ID,
			ExerciseID:  existing.ExerciseID,
			Sets:        params.Sets,
			Target:      params.Target,
			Measurement: params.Measurement,
		}
		if err := updated.Validate(); err != nil {
			return err
		}
		if err := s.dayRepo.UpdateAssignment(ctx, day.ID, updated); err != nil {
			return err
		}
		day, err = s.dayRepo.GetByID(ctx, day.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *editorService) DetachExercise(ctx context.Context, actor domain.Actor, programID, dayID, assignmentID primitive.ObjectID) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.loadAuthorized(ctx, actor, programID); err != nil {
			return err
		}
		day, err := s.dayInProgram(ctx, programID, dayID)
		if err != nil {
			return err
		}
		if err := s.dayRepo.RemoveAssignment(ctx, day.ID, assignmentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}
		return nil
	})
}

// === Helpers ===

// loadAuthorized fetches the program and gates the mutation on the
// authorization predicate before any further store access.
func (s *editorService) loadAuthorized(ctx context.Context, actor domain.Actor, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if !s.authorize(actor, program) {
		return nil, domain.ErrUnauthorized
	}
	return program, nil
}

// loadReadable additionally admits the assigned client, for read paths.
func (s *editorService) loadReadable(ctx context.Context, actor domain.Actor, programID primitive.ObjectID) (*domain.Program, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if s.authorize(actor, program) {
		return program, nil
	}
	if actor.Role == domain.RoleClient && program.ClientID != nil && *program.ClientID == actor.ID {
		return program, nil
	}
	return nil, domain.ErrUnauthorized
}

func (s *editorService) weekInProgram(ctx context.Context, programID, weekID primitive.ObjectID) (*domain.Week, error) {
	week, err := s.weekRepo.GetByID(ctx, weekID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWeekNotFound
		}
		return nil, err
	}
	if week.ProgramID != programID {
		return nil, domain.ErrStructuralMismatch
	}
	return week, nil
}

func (s *editorService) dayInProgram(ctx context.Context, programID, dayID primitive.ObjectID) (*domain.Day, error) {
	day, err := s.dayRepo.GetByID(ctx, dayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	if day.ProgramID != programID {
		return nil, domain.ErrStructuralMismatch
	}
	return day, nil
}

func (s *editorService) resequenceWeeks(ctx context.Context, programID primitive.ObjectID) error {
	weeks, err := s.weekRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return err
	}
	nodes := make([]*domain.Week, len(weeks))
	for i := range weeks {
		nodes[i] = &weeks[i]
	}
	for _, changed := range ordering.Resequence(nodes) {
		if err := s.weekRepo.SetOrder(ctx, changed.ID, changed.Order); err != nil {
			return err
		}
	}
	return nil
}

func (s *editorService) resequenceDays(ctx context.Context, weekID primitive.ObjectID) error {
	days, err := s.dayRepo.GetByWeekID(ctx, weekID)
	if err != nil {
		return err
	}
	nodes := make([]*domain.Day, len(days))
	for i := range days {
		nodes[i] = &days[i]
	}
	for _, changed := range ordering.Resequence(nodes) {
		if err := s.dayRepo.SetOrder(ctx, changed.ID, changed.Order); err != nil {
			return err
		}
	}
	return nil
}

func cloneAssignments(assignments []domain.Assignment) []domain.Assignment {
	if len(assignments) == 0 {
		return nil
	}
	clones := make([]domain.Assignment, len(assignments))
	for i := range assignments {
		clones[i] = assignments[i].Clone()
	}
	return clones
}
