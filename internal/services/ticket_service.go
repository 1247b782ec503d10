package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/config"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/repositories"
)

// maxPurchaseAttempts bounds the optimistic-concurrency retry loop. Exceeding
// it surfaces the conflict to the caller instead of retrying forever.
const maxPurchaseAttempts = 3

// retryBackoff is the base delay between purchase attempts.
const retryBackoff = 10 * time.Millisecond

type ticketService struct {
	ledger repositories.LedgerRepository
	cfg    config.LotteryConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTicketService creates a new TicketService implementation
func NewTicketService(ledger repositories.LedgerRepository, cfg config.LotteryConfig) TicketService {
	return &ticketService{
		ledger: ledger,
		cfg:    cfg,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuyTicket implements the purchase algorithm: validate, draw numbers, apply
// the debit-plus-ticket unit, and retry the whole thing on conflict with the
// preconditions re-validated each attempt.
func (s *ticketService) BuyTicket(ctx context.Context, username string) (*models.Ticket, float64, error) {
	for attempt := 1; attempt <= maxPurchaseAttempts; attempt++ {
		account, err := s.ledger.FindAccount(ctx, username)
		if err != nil {
			return nil, 0, err
		}
		if account.Balance < s.cfg.TicketPrice {
			return nil, 0, fmt.Errorf("balance %.2f is below the ticket price %.2f: %w",
				account.Balance, s.cfg.TicketPrice, apperrors.ErrInsufficientBalance)
		}

		id, err := s.ledger.NextTicketID(ctx)
		if err != nil {
			return nil, 0, err
		}
		ticket := &models.Ticket{
			ID:           id,
			Username:     username,
			Numbers:      s.drawNumbers(),
			PurchaseTime: time.Now(),
		}

		err = s.ledger.PurchaseTicket(ctx, username, account.Balance, s.cfg.TicketPrice, ticket)
		if err == nil {
			return ticket, account.Balance - s.cfg.TicketPrice, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, 0, err
		}

		logger.Infof("purchase conflict for %q, attempt %d/%d", username, attempt, maxPurchaseAttempts)
		if attempt < maxPurchaseAttempts {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}
	}
	return nil, 0, fmt.Errorf("purchase for %q not applied after %d attempts: %w",
		username, maxPurchaseAttempts, apperrors.ErrConflict)
}

// drawNumbers samples the configured count of numbers by independent uniform
// draws. Duplicates are permitted; the payout rule is defined over matching
// slots, so repeated numbers stay meaningful.
func (s *ticketService) drawNumbers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := s.cfg.NumberMax - s.cfg.NumberMin + 1
	numbers := make([]int, s.cfg.NumbersPerTicket)
	for i := range numbers {
		numbers[i] = s.cfg.NumberMin + s.rnd.Intn(span)
	}
	return numbers
}

// CheckResults returns the caller's tickets with their settlement state
func (s *ticketService) CheckResults(ctx context.Context, username string) ([]*models.Ticket, error) {
	if _, err := s.ledger.FindAccount(ctx, username); err != nil {
		return nil, err
	}
	return s.ledger.FindTicketsByUsername(ctx, username)
}

// ViewAllTickets returns every ticket in the store
func (s *ticketService) ViewAllTickets(ctx context.Context) ([]*models.Ticket, error) {
	return s.ledger.FindAllTickets(ctx)
}

// GetBalance returns the account's current balance
func (s *ticketService) GetBalance(ctx context.Context, username string) (float64, error) {
	account, err := s.ledger.FindAccount(ctx, username)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}
