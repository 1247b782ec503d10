package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket represents a purchased combination of five numbers tied to one
// account. Tickets are immutable after purchase except for the settlement
// fields, which are written exactly once when a draw closes.
type Ticket struct {
	ID           int64              `bson:"_id" json:"id"`
	Username     string             `bson:"username" json:"username"`
	Numbers      []int              `bson:"numbers" json:"numbers"`
	PurchaseTime time.Time          `bson:"purchaseTime" json:"purchaseTime"`
	Settled      bool               `bson:"settled" json:"settled"`
	Won          bool               `bson:"won" json:"won"`
	Prize        float64            `bson:"prize" json:"prize"`
	DrawID       primitive.ObjectID `bson:"drawId,omitempty" json:"drawId,omitempty"`
}

// MatchCount returns how many of the ticket's five slots hold the winning
// number. Duplicate numbers are permitted on a ticket, so each matching slot
// counts separately.
func (t *Ticket) MatchCount(winningNumber int) int {
	count := 0
	for _, n := range t.Numbers {
		if n == winningNumber {
			count++
		}
	}
	return count
}
