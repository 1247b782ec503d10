package repositories

import (
	"context"

	"github.com/lotterysystem/lottery-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerRepository defines the interface for account and ticket persistence.
// It is the only stateful component: balances and tickets are mutated through
// the two atomic operations below and nowhere else.
type LedgerRepository interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccount(ctx context.Context, username string) (*models.Account, error)
	FindAllAccounts(ctx context.Context) ([]*models.Account, error)

	FindTicket(ctx context.Context, id int64) (*models.Ticket, error)
	FindTicketsByUsername(ctx context.Context, username string) ([]*models.Ticket, error)
	FindAllTickets(ctx context.Context) ([]*models.Ticket, error)
	FindUnsettledTickets(ctx context.Context) ([]*models.Ticket, error)

	// NextTicketID assigns the next monotonic ticket identifier.
	NextTicketID(ctx context.Context) (int64, error)

	// PurchaseTicket debits price from the account, inserts the ticket and
	// links its id into the account's owned set as one unit. The write is
	// guarded by a compare-and-write on expectedBalance: if the balance
	// changed concurrently the whole unit fails with ErrConflict and no
	// partial state is left behind.
	PurchaseTicket(ctx context.Context, username string, expectedBalance, price float64, ticket *models.Ticket) error

	// SettleTicket writes the settlement outcome exactly once and credits the
	// prize to the owning account as one unit. Returns false without error
	// when the ticket was already settled, which makes settlement runs safe
	// to repeat.
	SettleTicket(ctx context.Context, ticketID int64, username string, drawID primitive.ObjectID, won bool, prize float64) (bool, error)
}

// DrawRepository defines the interface for the singleton draw record.
type DrawRepository interface {
	// FindOpen returns the currently open draw, or ErrNotFound if none is open.
	FindOpen(ctx context.Context) (*models.Draw, error)

	// SetWinningNumber opens a draw with the given number, overwriting the
	// number of an already-open draw in place. Closed draws are never touched.
	SetWinningNumber(ctx context.Context, number int) (*models.Draw, error)

	// Close transitions an open draw to closed.
	Close(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
}
