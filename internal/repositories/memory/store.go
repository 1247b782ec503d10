// Package memory provides in-memory repository implementations. They back
// the service tests and are handy for running the server without a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time checks
var (
	_ repositories.LedgerRepository = (*Store)(nil)
	_ repositories.DrawRepository   = (*Store)(nil)
)

// Store is a mutex-guarded in-memory ledger and draw store.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*models.Account
	tickets      map[int64]*models.Ticket
	nextTicketID int64
	openDraw     *models.Draw
	closedDraws  []*models.Draw
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*models.Account),
		tickets:      make(map[int64]*models.Ticket),
		nextTicketID: 1000,
	}
}

// CreateAccount inserts a new account
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.Username]; exists {
		return fmt.Errorf("account %q already exists: %w", account.Username, apperrors.ErrConflict)
	}
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	if account.TicketIDs == nil {
		account.TicketIDs = []int64{}
	}
	clone := *account
	s.accounts[account.Username] = &clone
	return nil
}

// FindAccount finds an account by username
func (s *Store) FindAccount(ctx context.Context, username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[username]
	if !exists {
		return nil, fmt.Errorf("account %q: %w", username, apperrors.ErrNotFound)
	}
	clone := *account
	clone.TicketIDs = append([]int64(nil), account.TicketIDs...)
	return &clone, nil
}

// FindAllAccounts retrieves all accounts, sorted by username
func (s *Store) FindAllAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		clone := *account
		clone.TicketIDs = append([]int64(nil), account.TicketIDs...)
		accounts = append(accounts, &clone)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}

// FindTicket finds a ticket by id
func (s *Store) FindTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, exists := s.tickets[id]
	if !exists {
		return nil, fmt.Errorf("ticket %d: %w", id, apperrors.ErrNotFound)
	}
	clone := *ticket
	return &clone, nil
}

// FindTicketsByUsername retrieves the tickets owned by an account
func (s *Store) FindTicketsByUsername(ctx context.Context, username string) ([]*models.Ticket, error) {
	return s.findTickets(func(t *models.Ticket) bool { return t.Username == username })
}

// FindAllTickets retrieves every ticket
func (s *Store) FindAllTickets(ctx context.Context) ([]*models.Ticket, error) {
	return s.findTickets(func(*models.Ticket) bool { return true })
}

// FindUnsettledTickets retrieves tickets with no settlement outcome yet
func (s *Store) FindUnsettledTickets(ctx context.Context) ([]*models.Ticket, error) {
	return s.findTickets(func(t *models.Ticket) bool { return !t.Settled })
}

func (s *Store) findTickets(match func(*models.Ticket) bool) ([]*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := make([]*models.Ticket, 0)
	for _, ticket := range s.tickets {
		if match(ticket) {
			clone := *ticket
			clone.Numbers = append([]int(nil), ticket.Numbers...)
			tickets = append(tickets, &clone)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

// NextTicketID assigns the next monotonic ticket id
func (s *Store) NextTicketID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTicketID++
	return s.nextTicketID, nil
}

// PurchaseTicket debits the account and stores the ticket as one unit,
// guarded by a compare-and-write on the balance the caller read.
func (s *Store) PurchaseTicket(ctx context.Context, username string, expectedBalance, price float64, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.accounts[username]
	if !exists {
		return fmt.Errorf("account %q: %w", username, apperrors.ErrNotFound)
	}
	if account.Balance != expectedBalance {
		return fmt.Errorf("balance of %q changed concurrently: %w", username, apperrors.ErrConflict)
	}

	account.Balance -= price
	account.TicketIDs = append(account.TicketIDs, ticket.ID)
	account.UpdatedAt = time.Now()

	clone := *ticket
	clone.Numbers = append([]int(nil), ticket.Numbers...)
	s.tickets[ticket.ID] = &clone
	return nil
}

// SettleTicket writes the outcome once and credits the prize as one unit
func (s *Store) SettleTicket(ctx context.Context, ticketID int64, username string, drawID primitive.ObjectID, won bool, prize float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, exists := s.tickets[ticketID]
	if !exists {
		return false, fmt.Errorf("ticket %d: %w", ticketID, apperrors.ErrNotFound)
	}
	if ticket.Settled {
		return false, nil
	}

	ticket.Settled = true
	ticket.Won = won
	ticket.Prize = prize
	ticket.DrawID = drawID

	if prize > 0 {
		if account, ok := s.accounts[username]; ok {
			account.Balance += prize
			account.UpdatedAt = time.Now()
		}
	}
	return true, nil
}

// FindOpen returns the open draw, or ErrNotFound if none is open
func (s *Store) FindOpen(ctx context.Context) (*models.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openDraw == nil {
		return nil, fmt.Errorf("open draw: %w", apperrors.ErrNotFound)
	}
	clone := *s.openDraw
	return &clone, nil
}

// SetWinningNumber opens a draw or overwrites the number of the open one
func (s *Store) SetWinningNumber(ctx context.Context, number int) (*models.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openDraw == nil {
		s.openDraw = &models.Draw{
			ID:     primitive.NewObjectID(),
			Status: models.DrawStatusOpen,
		}
	}
	s.openDraw.WinningNumber = number
	s.openDraw.SetTime = time.Now()
	clone := *s.openDraw
	return &clone, nil
}

// Close transitions the open draw to closed
func (s *Store) Close(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openDraw == nil || s.openDraw.ID != id {
		return nil, fmt.Errorf("open draw %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	s.openDraw.Status = models.DrawStatusClosed
	s.openDraw.ClosedTime = time.Now()
	closed := s.openDraw
	s.closedDraws = append(s.closedDraws, closed)
	s.openDraw = nil
	clone := *closed
	return &clone, nil
}
