package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a registered participant with a currency balance.
// Balance is mutated only by ticket purchase (debit) and settlement (credit)
// and never goes negative.
type Account struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	Balance      float64            `bson:"balance" json:"balance"`
	TicketIDs    []int64            `bson:"ticketIds" json:"ticketIds"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
