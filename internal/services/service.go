package services

import (
	"context"

	"github.com/lotterysystem/lottery-backend/internal/models"
)

// AuthService defines the interface for authentication and account operations
type AuthService interface {
	// Register creates an account with the starting balance and returns it
	// with a signed user token.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, string, error)

	// Login verifies credentials and returns the account with a signed token.
	Login(ctx context.Context, req *models.LoginRequest) (*models.Account, string, error)

	// AdminLogin exchanges the admin password for an admin-role token.
	AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (string, error)

	// ListAccounts returns the roster of accounts for the admin view.
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}

// TicketService defines the interface for ticket issuance and lookups
type TicketService interface {
	// BuyTicket validates the account and its balance, draws five numbers and
	// applies the debit-plus-ticket unit atomically, retrying bounded times on
	// optimistic-concurrency conflicts. Returns the ticket and the post-debit
	// balance.
	BuyTicket(ctx context.Context, username string) (*models.Ticket, float64, error)

	// CheckResults returns all tickets owned by the caller with their current
	// settlement outcome.
	CheckResults(ctx context.Context, username string) ([]*models.Ticket, error)

	// ViewAllTickets returns every ticket (admin-only; role enforced upstream).
	ViewAllTickets(ctx context.Context) ([]*models.Ticket, error)

	// GetBalance returns the account's current balance.
	GetBalance(ctx context.Context, username string) (float64, error)
}

// DrawService defines the interface for draw administration and settlement
type DrawService interface {
	// SetWinningNumber opens a draw with the number, or overwrites the number
	// of the currently open draw.
	SetWinningNumber(ctx context.Context, number int) (*models.Draw, error)

	// AnnounceResults settles every unsettled ticket against the open draw,
	// closes the draw and broadcasts the announcement. Each ticket settles as
	// an independent atomic unit, so a failed run leaves only unsettled
	// tickets pending and is safe to repeat.
	AnnounceResults(ctx context.Context) ([]models.SettledTicket, error)
}

// ResultsNotifier pushes settlement announcements to connected display
// clients. The WebSocket hub implements it; tests plug in a recorder.
type ResultsNotifier interface {
	ResultsAnnounced(winningNumber int, settledCount int)
}
