package service

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/repository"
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LogEntry is one completed set (or one rest-day entry) submitted by a
// client. The mobile client keeps workout state locally and reconciles
// only here, at submission time.
type LogEntry struct {
	ExerciseID      *primitive.ObjectID
	WeekID          primitive.ObjectID
	DayID           primitive.ObjectID
	Weight          *float64
	Reps            *int
	TimeSeconds     *int
	RPE             *float64
	WorkoutDuration *int
	IsRestDay       bool
	CompletedAt     time.Time
}

// LogUpdate carries client-owned edits to an existing log row.
type LogUpdate struct {
	Weight      *float64
	Reps        *int
	TimeSeconds *int
	RPE         *float64
}

// --- Aggregation output ---

// ExerciseSummary folds all sets of one exercise within one day group.
// Averages cover only the sets where the field was recorded; a field
// absent in every set stays nil and is omitted from the JSON output.
type ExerciseSummary struct {
	ExerciseID   string   `json:"exerciseId"`
	ExerciseName string   `json:"exerciseName"`
	Sets         int      `json:"sets"`
	AvgWeight    *float64 `json:"avgWeight,omitempty"`
	AvgReps      *float64 `json:"avgReps,omitempty"`
	AvgTime      *float64 `json:"avgTimeSeconds,omitempty"`
	AvgRPE       *float64 `json:"avgRpe,omitempty"`
}

// DaySummary groups by (day, completion date): re-executing the same
// day on another calendar date produces a separate group.
type DaySummary struct {
	DayID         string            `json:"dayId"`
	DayName       string            `json:"dayName,omitempty"`
	Date          string            `json:"date"` // YYYY-MM-DD
	Exercises     []ExerciseSummary `json:"exercises,omitempty"`
	RestDay       bool              `json:"restDay,omitempty"`
	TotalDuration int               `json:"totalDurationSeconds,omitempty"`
}

type WeekSummary struct {
	WeekID   string       `json:"weekId"`
	WeekName string       `json:"weekName,omitempty"`
	Order    int          `json:"order,omitempty"`
	Days     []DaySummary `json:"days"`
}

type ProgramSummary struct {
	ProgramID string        `json:"programId"`
	Weeks     []WeekSummary `json:"weeks"`
}

// ProgressService writes raw workout logs and folds them into progress
// views. Aggregation is read-only: it never mutates log rows.
type ProgressService interface {
	LogWorkout(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, entries []LogEntry) ([]domain.ProgressLog, error)
	UpdateLog(ctx context.Context, actor domain.Actor, logID primitive.ObjectID, update LogUpdate) (*domain.ProgressLog, error)
	GetClientPrograms(ctx context.Context, actor domain.Actor, clientID primitive.ObjectID) ([]domain.Program, error)
	Summarize(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, weekID *primitive.ObjectID) (*ProgramSummary, error)
}

// progressService implements the ProgressService interface.
type progressService struct {
	programRepo  repository.ProgramRepository
	weekRepo     repository.WeekRepository
	dayRepo      repository.DayRepository
	logRepo      repository.ProgressLogRepository
	exerciseRepo repository.ExerciseRepository
	tracker      PositionTracker
	tx           repository.TxRunner
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	programRepo repository.ProgramRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.DayRepository,
	logRepo repository.ProgressLogRepository,
	exerciseRepo repository.ExerciseRepository,
	tracker PositionTracker,
	tx repository.TxRunner,
) ProgressService {
	return &progressService{
		programRepo:  programRepo,
		weekRepo:     weekRepo,
		dayRepo:      dayRepo,
		logRepo:      logRepo,
		exerciseRepo: exerciseRepo,
		tracker:      tracker,
		tx:           tx,
	}
}

// LogWorkout appends one log row per completed set. Log writes never
// touch the program's position bookkeeping; structural edits own it.
func (s *progressService) LogWorkout(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, entries []LogEntry) ([]domain.ProgressLog, error) {
	if len(entries) == 0 {
		return nil, ErrValidationFailed
	}
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	// Clients log only against their own program.
	if !actor.IsAdmin() {
		if actor.Role != domain.RoleClient || program.ClientID == nil || *program.ClientID != actor.ID {
			return nil, domain.ErrUnauthorized
		}
	}

	// The batch is one transaction: every row lands or none do.
	var logs []domain.ProgressLog
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		logs = make([]domain.ProgressLog, 0, len(entries))
		for _, entry := range entries {
			if !entry.IsRestDay && entry.ExerciseID == nil {
				return ErrValidationFailed
			}
			if entry.CompletedAt.IsZero() {
				entry.CompletedAt = time.Now()
			}
			// Reject stale structural references before writing.
			week, err := s.weekRepo.GetByID(ctx, entry.WeekID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrWeekNotFound
				}
				return err
			}
			if week.ProgramID != programID {
				return domain.ErrStructuralMismatch
			}
			day, err := s.dayRepo.GetByID(ctx, entry.DayID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrDayNotFound
				}
				return err
			}
			if day.WeekID != entry.WeekID {
				return domain.ErrStructuralMismatch
			}

			row := domain.ProgressLog{
				ProgramID:       programID,
				UserID:          actor.ID,
				ExerciseID:      entry.ExerciseID,
				WeekID:          entry.WeekID,
				DayID:           entry.DayID,
				Weight:          entry.Weight,
				Reps:            entry.Reps,
				TimeSeconds:     entry.TimeSeconds,
				RPE:             entry.RPE,
				WorkoutDuration: entry.WorkoutDuration,
				IsRestDay:       entry.IsRestDay,
				CompletedAt:     entry.CompletedAt,
			}
			id, err := s.logRepo.Create(ctx, &row)
			if err != nil {
				return err
			}
			row.ID = id
			logs = append(logs, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// UpdateLog applies client-owned edits to the client's own row.
func (s *progressService) UpdateLog(ctx context.Context, actor domain.Actor, logID primitive.ObjectID, update LogUpdate) (*domain.ProgressLog, error) {
	row, err := s.logRepo.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	if !actor.IsAdmin() && row.UserID != actor.ID {
		return nil, domain.ErrUnauthorized
	}

	if update.Weight != nil {
		row.Weight = update.Weight
	}
	if update.Reps != nil {
		row.Reps = update.Reps
	}
	if update.TimeSeconds != nil {
		row.TimeSeconds = update.TimeSeconds
	}
	if update.RPE != nil {
		row.RPE = update.RPE
	}
	if err := s.logRepo.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// GetClientPrograms lists a client's programs, each with a repaired
// current pointer. The repair write is best-effort and safe to race.
func (s *progressService) GetClientPrograms(ctx context.Context, actor domain.Actor, clientID primitive.ObjectID) ([]domain.Program, error) {
	if !actor.IsAdmin() && actor.ID != clientID {
		return nil, domain.ErrUnauthorized
	}
	programs, err := s.programRepo.GetByClientID(ctx, clientID)
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

// Summarize folds raw log rows into week → (day, date) → exercise
// groups, using the tree for labels. Pure read.
func (s *progressService) Summarize(ctx context.Context, actor domain.Actor, programID primitive.ObjectID, weekID *primitive.ObjectID) (*ProgramSummary, error) {
	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if !s.mayRead(actor, program) {
		return nil, domain.ErrUnauthorized
	}

	logs, err := s.logRepo.GetByProgram(ctx, programID, weekID)
	if err != nil {
		return nil, err
	}

	weekLabels, weekOrders, dayLabels, err := s.labels(ctx, programID)
	if err != nil {
		return nil, err
	}
	exerciseNames := map[primitive.ObjectID]string{}

	type dayKey struct {
		dayID primitive.ObjectID
		date  string
	}
	type dayGroup struct {
		key       dayKey
		first     time.Time
		exercises []primitive.ObjectID // appearance order
		sets      map[primitive.ObjectID][]domain.ProgressLog
		restRows  int
		duration  int
	}
	weekIDs := make([]primitive.ObjectID, 0)
	dayGroups := map[primitive.ObjectID][]*dayGroup{} // weekID -> groups in order

	for _, row := range logs {
		if _, seen := dayGroups[row.WeekID]; !seen {
			weekIDs = append(weekIDs, row.WeekID)
			dayGroups[row.WeekID] = nil
		}
		key := dayKey{dayID: row.DayID, date: row.CompletedAt.UTC().Format("2006-01-02")}

		var group *dayGroup
		for _, g := range dayGroups[row.WeekID] {
			if g.key == key {
				group = g
				break
			}
		}
		if group == nil {
			group = &dayGroup{
				key:   key,
				first: row.CompletedAt,
				sets:  map[primitive.ObjectID][]domain.ProgressLog{},
			}
			dayGroups[row.WeekID] = append(dayGroups[row.WeekID], group)
		}

		if row.WorkoutDuration != nil {
			group.duration += *row.WorkoutDuration
		}
		if row.IsRestDay || row.ExerciseID == nil {
			// Rest days are a category of their own, never folded into
			// exercise stats.
			group.restRows++
			continue
		}
		exID := *row.ExerciseID
		if _, seen := group.sets[exID]; !seen {
			group.exercises = append(group.exercises, exID)
		}
		group.sets[exID] = append(group.sets[exID], row)
	}

	// Order weeks by their structural order; weeks deleted since the
	// logs were written keep first-seen order at the end.
	sort.SliceStable(weekIDs, func(i, j int) bool {
		oi, iok := weekOrders[weekIDs[i]]
		oj, jok := weekOrders[weekIDs[j]]
		if iok && jok {
			return oi < oj
		}
		return iok && !jok
	})

	summary := &ProgramSummary{ProgramID: program.ID.Hex(), Weeks: make([]WeekSummary, 0, len(weekIDs))}
	for _, wid := range weekIDs {
		ws := WeekSummary{
			WeekID:   wid.Hex(),
			WeekName: weekLabels[wid],
			Order:    weekOrders[wid],
		}
		for _, group := range dayGroups[wid] {
			ds := DaySummary{
				DayID:         group.key.dayID.Hex(),
				DayName:       dayLabels[group.key.dayID],
				Date:          group.key.date,
				RestDay:       group.restRows > 0 && len(group.exercises) == 0,
				TotalDuration: group.duration,
			}
			for _, exID := range group.exercises {
				rows := group.sets[exID]
				name, err := s.exerciseName(ctx, exID, exerciseNames)
				if err != nil {
					return nil, err
				}
				ds.Exercises = append(ds.Exercises, summarizeExercise(exID, name, rows))
			}
			ws.Days = append(ws.Days, ds)
		}
		summary.Weeks = append(summary.Weeks, ws)
	}
	return summary, nil
}

func (s *progressService) mayRead(actor domain.Actor, program *domain.Program) bool {
	if DefaultAuthorize(actor, program) {
		return true
	}
	return actor.Role == domain.RoleClient && program.ClientID != nil && *program.ClientID == actor.ID
}

// labels loads week/day names for grouping output. Nodes deleted since
// the logs were written simply have no label.
func (s *progressService) labels(ctx context.Context, programID primitive.ObjectID) (map[primitive.ObjectID]string, map[primitive.ObjectID]int, map[primitive.ObjectID]string, error) {
	weekNames := map[primitive.ObjectID]string{}
	weekOrders := map[primitive.ObjectID]int{}
	dayNames := map[primitive.ObjectID]string{}

	weeks, err := s.weekRepo.GetByProgramID(ctx, programID)
	if err != nil {
		return nil, nil, nil, err
	}
	for i := range weeks {
		weekNames[weeks[i].ID] = weeks[i].Name
		weekOrders[weeks[i].ID] = weeks[i].Order
		days, err := s.dayRepo.GetByWeekID(ctx, weeks[i].ID)
		if err != nil {
			return nil, nil, nil, err
		}
		for j := range days {
			dayNames[days[j].ID] = days[j].Name
		}
	}
	return weekNames, weekOrders, dayNames, nil
}

func (s *progressService) exerciseName(ctx context.Context, id primitive.ObjectID, cache map[primitive.ObjectID]string) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			cache[id] = ""
			return "", nil
		}
		return "", err
	}
	cache[id] = exercise.Name
	return exercise.Name, nil
}

// summarizeExercise computes set count and per-field means. A mean
// covers only the sets where the field is present: {100, 105, absent}
// averages to 102.5, not a divide-by-three.
func summarizeExercise(id primitive.ObjectID, name string, rows []domain.ProgressLog) ExerciseSummary {
	es := ExerciseSummary{
		ExerciseID:   id.Hex(),
		ExerciseName: name,
		Sets:         len(rows),
	}

	var weightSum, rpeSum float64
	var repsSum, timeSum int
	var weightN, rpeN, repsN, timeN int
	for _, row := range rows {
		if row.Weight != nil {
			weightSum += *row.Weight
			weightN++
		}
		if row.RPE != nil {
			rpeSum += *row.RPE
			rpeN++
		}
		if row.Reps != nil {
			repsSum += *row.Reps
			repsN++
		}
		if row.TimeSeconds != nil {
			timeSum += *row.TimeSeconds
			timeN++
		}
	}
	if weightN > 0 {
		avg := weightSum / float64(weightN)
		es.AvgWeight = &avg
	}
	if rpeN > 0 {
		avg := rpeSum / float64(rpeN)
		es.AvgRPE = &avg
	}
	if repsN > 0 {
		avg := float64(repsSum) / float64(repsN)
		es.AvgReps = &avg
	}
	if timeN > 0 {
		avg := float64(timeSum) / float64(timeN)
		es.AvgTime = &avg
	}
	return es
}
