package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the status of a draw
type DrawStatus string

const (
	DrawStatusOpen   DrawStatus = "OPEN"
	DrawStatusClosed DrawStatus = "CLOSED"
)

// Draw represents the current admin-set winning number and its lifecycle.
// At most one draw is open at a time; setting a winner while a draw is open
// overwrites its number in place, and announcing results closes it for good.
type Draw struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	WinningNumber int                `bson:"winningNumber" json:"winningNumber"`
	Status        DrawStatus         `bson:"status" json:"status"`
	SetTime       time.Time          `bson:"setTime" json:"setTime"`
	ClosedTime    time.Time          `bson:"closedTime,omitempty" json:"closedTime,omitempty"`
}

// SettledTicket is the per-ticket outcome reported by a settlement run.
type SettledTicket struct {
	TicketID int64   `json:"ticketId"`
	Username string  `json:"username"`
	Won      bool    `json:"won"`
	Prize    float64 `json:"prize"`
}
