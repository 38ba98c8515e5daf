package service_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/repository"
	"alcyxob/coachplan/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes backing the service tests. They mirror the store
// contracts the services rely on: sorted sibling reads, strictly
// increasing creation times and not-found translation.

// fakeClock hands out strictly increasing timestamps so creation-time
// tie breaks are deterministic.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) next() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

// fakeTxRunner runs the function directly. Transactionality itself is
// the store's concern and is not under test here.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error {
	u, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	u.CoachID = &coachID
	return nil
}

func (r *fakeUserRepo) GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- Programs ---

type fakeProgramRepo struct {
	programs map[primitive.ObjectID]*domain.Program
	clock    *fakeClock
}

func newFakeProgramRepo(clock *fakeClock) *fakeProgramRepo {
	return &fakeProgramRepo{programs: map[primitive.ObjectID]*domain.Program{}, clock: clock}
}

func (r *fakeProgramRepo) Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error) {
	program.ID = primitive.NewObjectID()
	program.CreatedAt = r.clock.next()
	program.UpdatedAt = program.CreatedAt
	cp := *program
	r.programs[program.ID] = &cp
	return program.ID, nil
}

func (r *fakeProgramRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProgramRepo) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range r.programs {
		if p.CoachID == coachID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProgramRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Program, error) {
	var out []domain.Program
	for _, p := range r.programs {
		if p.ClientID != nil && *p.ClientID == clientID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeProgramRepo) Update(ctx context.Context, program *domain.Program) error {
	if _, ok := r.programs[program.ID]; !ok {
		return repository.ErrNotFound
	}
	program.UpdatedAt = r.clock.next()
	cp := *program
	r.programs[program.ID] = &cp
	return nil
}

func (r *fakeProgramRepo) SetPosition(ctx context.Context, programID primitive.ObjectID, weekID, dayID *primitive.ObjectID) error {
	p, ok := r.programs[programID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CurrentWeekID = weekID
	p.CurrentDayID = dayID
	return nil
}

func (r *fakeProgramRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.programs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.programs, id)
	return nil
}

// --- Weeks ---

type fakeWeekRepo struct {
	weeks map[primitive.ObjectID]*domain.Week
	clock *fakeClock
}

func newFakeWeekRepo(clock *fakeClock) *fakeWeekRepo {
	return &fakeWeekRepo{weeks: map[primitive.ObjectID]*domain.Week{}, clock: clock}
}

func (r *fakeWeekRepo) Create(ctx context.Context, week *domain.Week) (primitive.ObjectID, error) {
	week.ID = primitive.NewObjectID()
	week.CreatedAt = r.clock.next()
	week.UpdatedAt = week.CreatedAt
	cp := *week
	r.weeks[week.ID] = &cp
	return week.ID, nil
}

func (r *fakeWeekRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Week, error) {
	w, ok := r.weeks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWeekRepo) GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.Week, error) {
	var out []domain.Week
	for _, w := range r.weeks {
		if w.ProgramID == programID {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeWeekRepo) CountByProgramID(ctx context.Context, programID primitive.ObjectID) (int, error) {
	count := 0
	for _, w := range r.weeks {
		if w.ProgramID == programID {
			count++
		}
	}
	return count, nil
}

func (r *fakeWeekRepo) Update(ctx context.Context, week *domain.Week) error {
	if _, ok := r.weeks[week.ID]; !ok {
		return repository.ErrNotFound
	}
	week.UpdatedAt = r.clock.next()
	cp := *week
	r.weeks[week.ID] = &cp
	return nil
}

func (r *fakeWeekRepo) SetOrder(ctx context.Context, weekID primitive.ObjectID, order int) error {
	w, ok := r.weeks[weekID]
	if !ok {
		return repository.ErrNotFound
	}
	w.Order = order
	return nil
}

func (r *fakeWeekRepo) Delete(ctx context.Context, weekID primitive.ObjectID) error {
	if _, ok := r.weeks[weekID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.weeks, weekID)
	return nil
}

// --- Days ---

type fakeDayRepo struct {
	days  map[primitive.ObjectID]*domain.Day
	clock *fakeClock
}

func newFakeDayRepo(clock *fakeClock) *fakeDayRepo {
	return &fakeDayRepo{days: map[primitive.ObjectID]*domain.Day{}, clock: clock}
}

func copyDay(d *domain.Day) *domain.Day {
	cp := *d
	cp.Exercises = append([]domain.Assignment(nil), d.Exercises...)
	return &cp
}

func (r *fakeDayRepo) Create(ctx context.Context, day *domain.Day) (primitive.ObjectID, error) {
	day.ID = primitive.NewObjectID()
	day.CreatedAt = r.clock.next()
	day.UpdatedAt = day.CreatedAt
	r.days[day.ID] = copyDay(day)
	return day.ID, nil
}

func (r *fakeDayRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Day, error) {
	d, ok := r.days[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyDay(d), nil
}

func (r *fakeDayRepo) GetByWeekID(ctx context.Context, weekID primitive.ObjectID) ([]domain.Day, error) {
	var out []domain.Day
	for _, d := range r.days {
		if d.WeekID == weekID {
			out = append(out, *copyDay(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeDayRepo) CountByWeekID(ctx context.Context, weekID primitive.ObjectID) (int, error) {
	count := 0
	for _, d := range r.days {
		if d.WeekID == weekID {
			count++
		}
	}
	return count, nil
}

func (r *fakeDayRepo) Update(ctx context.Context, day *domain.Day) error {
	if _, ok := r.days[day.ID]; !ok {
		return repository.ErrNotFound
	}
	day.UpdatedAt = r.clock.next()
	r.days[day.ID] = copyDay(day)
	return nil
}

func (r *fakeDayRepo) SetOrder(ctx context.Context, dayID primitive.ObjectID, order int) error {
	d, ok := r.days[dayID]
	if !ok {
		return repository.ErrNotFound
	}
	d.Order = order
	return nil
}

func (r *fakeDayRepo) Delete(ctx context.Context, dayID primitive.ObjectID) error {
	if _, ok := r.days[dayID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.days, dayID)
	return nil
}

func (r *fakeDayRepo) AddAssignment(ctx context.Context, dayID primitive.ObjectID, assignment *domain.Assignment) error {
	d, ok := r.days[dayID]
	if !ok {
		return repository.ErrNotFound
	}
	if assignment.ID == primitive.NilObjectID {
		assignment.ID = primitive.NewObjectID()
	}
	d.Exercises = append(d.Exercises, *assignment)
	return nil
}

func (r *fakeDayRepo) UpdateAssignment(ctx context.Context, dayID primitive.ObjectID, assignment *domain.Assignment) error {
	d, ok := r.days[dayID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range d.Exercises {
		if d.Exercises[i].ID == assignment.ID {
			d.Exercises[i] = *assignment
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeDayRepo) RemoveAssignment(ctx context.Context, dayID, assignmentID primitive.ObjectID) error {
	d, ok := r.days[dayID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range d.Exercises {
		if d.Exercises[i].ID == assignmentID {
			d.Exercises = append(d.Exercises[:i], d.Exercises[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeDayRepo) ClearAssignments(ctx context.Context, dayID primitive.ObjectID) error {
	d, ok := r.days[dayID]
	if !ok {
		return repository.ErrNotFound
	}
	d.Exercises = nil
	return nil
}

// --- Exercises ---

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: map[primitive.ObjectID]*domain.Exercise{}}
}

func (r *fakeExerciseRepo) GetOrCreate(ctx context.Context, exercise *domain.Exercise) (*domain.Exercise, bool, error) {
	for _, e := range r.exercises {
		if e.Name == exercise.Name {
			cp := *e
			return &cp, false, nil
		}
	}
	exercise.ID = primitive.NewObjectID()
	cp := *exercise
	r.exercises[exercise.ID] = &cp
	out := cp
	return &out, true, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeExerciseRepo) List(ctx context.Context) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range r.exercises {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, e := range r.exercises {
		if id != exercise.ID && e.Name == exercise.Name {
			return repository.ErrDuplicateKey
		}
	}
	cp := *exercise
	r.exercises[exercise.ID] = &cp
	return nil
}

// --- Progress Logs ---

type fakeProgressLogRepo struct {
	logs  map[primitive.ObjectID]*domain.ProgressLog
	clock *fakeClock
}

func newFakeProgressLogRepo(clock *fakeClock) *fakeProgressLogRepo {
	return &fakeProgressLogRepo{logs: map[primitive.ObjectID]*domain.ProgressLog{}, clock: clock}
}

func (r *fakeProgressLogRepo) Create(ctx context.Context, log *domain.ProgressLog) (primitive.ObjectID, error) {
	log.ID = primitive.NewObjectID()
	log.CreatedAt = r.clock.next()
	cp := *log
	r.logs[log.ID] = &cp
	return log.ID, nil
}

func (r *fakeProgressLogRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressLog, error) {
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeProgressLogRepo) GetByProgram(ctx context.Context, programID primitive.ObjectID, weekID *primitive.ObjectID) ([]domain.ProgressLog, error) {
	var out []domain.ProgressLog
	for _, l := range r.logs {
		if l.ProgramID != programID {
			continue
		}
		if weekID != nil && l.WeekID != *weekID {
			continue
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.Before(out[j].CompletedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeProgressLogRepo) Update(ctx context.Context, log *domain.ProgressLog) error {
	if _, ok := r.logs[log.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *log
	r.logs[log.ID] = &cp
	return nil
}

// --- Fixture ---

type fixture struct {
	users     *fakeUserRepo
	programs  *fakeProgramRepo
	weeks     *fakeWeekRepo
	days      *fakeDayRepo
	exercises *fakeExerciseRepo
	logs      *fakeProgressLogRepo

	tracker  service.PositionTracker
	catalog  service.CatalogService
	editor   service.EditorService
	progress service.ProgressService

	coach       domain.Actor
	otherCoach  domain.Actor
	client      domain.Actor
	otherClient domain.Actor
	admin       domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newFakeClock()
	f := &fixture{
		users:     newFakeUserRepo(),
		programs:  newFakeProgramRepo(clock),
		weeks:     newFakeWeekRepo(clock),
		days:      newFakeDayRepo(clock),
		exercises: newFakeExerciseRepo(),
		logs:      newFakeProgressLogRepo(clock),
	}
	f.tracker = service.NewPositionTracker(f.programs, f.weeks, f.days)
	f.catalog = service.NewCatalogService(f.exercises)
	f.editor = service.NewEditorService(f.programs, f.weeks, f.days, f.users, f.catalog, f.tracker, fakeTxRunner{}, service.DefaultAuthorize, nil)
	f.progress = service.NewProgressService(f.programs, f.weeks, f.days, f.logs, f.exercises, f.tracker, fakeTxRunner{})

	f.coach = f.addUser(t, "coach@example.com", domain.RoleCoach)
	f.otherCoach = f.addUser(t, "other.coach@example.com", domain.RoleCoach)
	f.client = f.addUser(t, "client@example.com", domain.RoleClient)
	f.otherClient = f.addUser(t, "other.client@example.com", domain.RoleClient)
	f.admin = f.addUser(t, "admin@example.com", domain.RoleAdmin)
	return f
}

func (f *fixture) addUser(t *testing.T, email string, role domain.Role) domain.Actor {
	t.Helper()
	id, err := f.users.Create(context.Background(), &domain.User{Name: email, Email: email, Role: role})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return domain.Actor{ID: id, Role: role}
}

// newProgram creates a program owned by the fixture coach and assigned
// to the fixture client.
func (f *fixture) newProgram(t *testing.T, totalWeeks int) *domain.Program {
	t.Helper()
	program, err := f.editor.CreateProgram(context.Background(), f.coach, service.CreateProgramInput{
		Title:      "Strength Block",
		ClientID:   &f.client.ID,
		TotalWeeks: totalWeeks,
	})
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	return program
}
