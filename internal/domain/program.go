package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramStatus type for the program lifecycle
type ProgramStatus string

const (
	ProgramActive    ProgramStatus = "active"
	ProgramCompleted ProgramStatus = "completed"
	ProgramCancelled ProgramStatus = "cancelled"
)

// Capacity limits for the program tree.
const (
	MinTotalWeeks  = 1
	MaxTotalWeeks  = 52
	MaxDaysPerWeek = 7 // fixed weekly calendar
)

// Program is a coach-authored, multi-week training plan, optionally
// assigned to a client. Weeks/Days hang off it in separate collections.
type Program struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID  `bson:"coachId" json:"coachId"`
	ClientID    *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"` // Unassigned programs exist
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      ProgramStatus       `bson:"status" json:"status"`

	// TotalWeeks is the capacity: the number of Week children may never
	// exceed it. CompletedWeeks is an independent counter used only for
	// displayed percentages; it is set by explicit update, never derived.
	TotalWeeks     int `bson:"totalWeeks" json:"totalWeeks"`
	CompletedWeeks int `bson:"completedWeeks" json:"completedWeeks"`

	// Current position of the client inside the program. Both unset, or
	// pointing at a live (Week, Day) pair. Treated as a cached value:
	// repaired eagerly on structural writes and lazily on reads.
	CurrentWeekID *primitive.ObjectID `bson:"currentWeekId,omitempty" json:"currentWeekId,omitempty"`
	CurrentDayID  *primitive.ObjectID `bson:"currentDayId,omitempty" json:"currentDayId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ProgressPercent reports completed weeks against capacity.
func (p *Program) ProgressPercent() float64 {
	if p.TotalWeeks <= 0 {
		return 0
	}
	return float64(p.CompletedWeeks) / float64(p.TotalWeeks) * 100
}
