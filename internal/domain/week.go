package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Week is an ordered structural container within a Program.
// Order is 1-based, dense and unique among the siblings of one program.
type Week struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	Name      string             `bson:"name" json:"name"` // e.g., "Week 1: Accumulation"
	Order     int                `bson:"order" json:"order"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Sequencing hooks for the ordering utility.

func (w *Week) SeqOrder() int           { return w.Order }
func (w *Week) SetSeqOrder(order int)   { w.Order = order }
func (w *Week) SeqCreatedAt() time.Time { return w.CreatedAt }
