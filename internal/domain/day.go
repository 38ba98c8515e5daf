package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Day is an ordered training day within a Week. A week holds at most
// MaxDaysPerWeek days. Exercise assignments are embedded: they are never
// addressable outside their day.
type Day struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekID    primitive.ObjectID `bson:"weekId" json:"weekId"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"` // Denormalized for membership checks
	Name      string             `bson:"name" json:"name"`           // e.g., "Day 2: Squat + Accessories"
	Order     int                `bson:"order" json:"order"`
	Exercises []Assignment       `bson:"exercises,omitempty" json:"exercises,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (d *Day) SeqOrder() int           { return d.Order }
func (d *Day) SetSeqOrder(order int)   { d.Order = order }
func (d *Day) SeqCreatedAt() time.Time { return d.CreatedAt }

// FindAssignment returns the embedded assignment with the given id, or nil.
func (d *Day) FindAssignment(id primitive.ObjectID) *Assignment {
	for i := range d.Exercises {
		if d.Exercises[i].ID == id {
			return &d.Exercises[i]
		}
	}
	return nil
}
