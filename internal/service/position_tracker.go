package service

import (
	"alcyxob/coachplan/internal/domain"
	"alcyxob/coachplan/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PositionTracker keeps a program's current (week, day) pointer valid
// while the tree underneath it mutates. The pointer is a cached value:
// the editor repairs it eagerly after structural writes, and every read
// path that surfaces it repairs lazily, so "valid or unset" holds for
// any observer. Repairs are idempotent and safe to race: concurrent
// writers recompute the same first-week/first-day result.
type PositionTracker interface {
	// Heal re-validates the pointer against the live tree, repairs the
	// program in memory and persists the pointer if it changed.
	Heal(ctx context.Context, program *domain.Program) (bool, error)
	// PointTo force-sets the pointer at the given week and its first
	// day, regardless of the prior value. Used on reactivation.
	PointTo(ctx context.Context, program *domain.Program, week *domain.Week) error
}

type positionTracker struct {
	programRepo repository.ProgramRepository
	weekRepo    repository.WeekRepository
	dayRepo     repository.DayRepository
}

// NewPositionTracker creates a new PositionTracker instance.
func NewPositionTracker(
	programRepo repository.ProgramRepository,
	weekRepo repository.WeekRepository,
	dayRepo repository.DayRepository,
) PositionTracker {
	return &positionTracker{
		programRepo: programRepo,
		weekRepo:    weekRepo,
		dayRepo:     dayRepo,
	}
}

func (t *positionTracker) Heal(ctx context.Context, program *domain.Program) (bool, error) {
	weeks, err := t.weekRepo.GetByProgramID(ctx, program.ID)
	if err != nil {
		return false, err
	}

	var wantWeek *domain.Week
	if len(weeks) > 0 {
		// Keep the referenced week if it is still a live child,
		// otherwise fall back to the first week by order.
		wantWeek = &weeks[0]
		if program.CurrentWeekID != nil {
			for i := range weeks {
				if weeks[i].ID == *program.CurrentWeekID {
					wantWeek = &weeks[i]
					break
				}
			}
		}
	}

	var wantWeekID, wantDayID *primitive.ObjectID
	if wantWeek != nil {
		wantWeekID = &wantWeek.ID
		days, err := t.dayRepo.GetByWeekID(ctx, wantWeek.ID)
		if err != nil {
			return false, err
		}
		if len(days) > 0 {
			wantDayID = &days[0].ID
			if program.CurrentDayID != nil {
				for i := range days {
					if days[i].ID == *program.CurrentDayID {
						wantDayID = &days[i].ID
						break
					}
				}
			}
		}
	}

	if oidEqual(program.CurrentWeekID, wantWeekID) && oidEqual(program.CurrentDayID, wantDayID) {
		return false, nil
	}

	if err := t.programRepo.SetPosition(ctx, program.ID, wantWeekID, wantDayID); err != nil {
		return false, err
	}
	program.CurrentWeekID = wantWeekID
	program.CurrentDayID = wantDayID
	return true, nil
}

func (t *positionTracker) PointTo(ctx context.Context, program *domain.Program, week *domain.Week) error {
	days, err := t.dayRepo.GetByWeekID(ctx, week.ID)
	if err != nil {
		return err
	}
	var dayID *primitive.ObjectID
	if len(days) > 0 {
		dayID = &days[0].ID
	}

	if err := t.programRepo.SetPosition(ctx, program.ID, &week.ID, dayID); err != nil {
		return err
	}
	program.CurrentWeekID = &week.ID
	program.CurrentDayID = dayID
	return nil
}

func oidEqual(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
