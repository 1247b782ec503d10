package services

import (
	"context"
	"errors"
	"testing"

	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/repositories/memory"
)

// recorderNotifier captures announcement broadcasts for assertions.
type recorderNotifier struct {
	winningNumbers []int
	settledCounts  []int
}

func (r *recorderNotifier) ResultsAnnounced(winningNumber, settledCount int) {
	r.winningNumbers = append(r.winningNumbers, winningNumber)
	r.settledCounts = append(r.settledCounts, settledCount)
}

// addTicket buys a ticket with fixed numbers straight through the store so
// settlement tests control the match outcome.
func addTicket(t *testing.T, store *memory.Store, username string, numbers []int) *models.Ticket {
	t.Helper()
	ctx := context.Background()

	account, err := store.FindAccount(ctx, username)
	if err != nil {
		t.Fatalf("FindAccount failed: %v", err)
	}
	id, err := store.NextTicketID(ctx)
	if err != nil {
		t.Fatalf("NextTicketID failed: %v", err)
	}
	ticket := &models.Ticket{ID: id, Username: username, Numbers: numbers}
	if err := store.PurchaseTicket(ctx, username, account.Balance, 10, ticket); err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}
	return ticket
}

func TestDrawService_SetWinningNumber(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewDrawService(store, store, nil, nil)

	t.Run("rejects out-of-range numbers", func(t *testing.T) {
		for _, n := range []int{0, -1, 101, 150} {
			if _, err := svc.SetWinningNumber(ctx, n); !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Errorf("SetWinningNumber(%d): expected ErrInvalidArgument, got %v", n, err)
			}
		}
		if _, err := store.FindOpen(ctx); !errors.Is(err, apperrors.ErrNotFound) {
			t.Error("rejected numbers must not open a draw")
		}
	})

	t.Run("opens a draw and overwrites it while open", func(t *testing.T) {
		first, err := svc.SetWinningNumber(ctx, 10)
		if err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}
		second, err := svc.SetWinningNumber(ctx, 20)
		if err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}
		if second.ID != first.ID {
			t.Error("overwriting an open draw must not create a new one")
		}
		if second.WinningNumber != 20 {
			t.Errorf("expected winning number 20, got %d", second.WinningNumber)
		}
	})
}

func TestDrawService_AnnounceResults(t *testing.T) {
	ctx := context.Background()

	t.Run("fails with NoActiveDraw when nothing is open", func(t *testing.T) {
		store := memory.NewStore()
		svc := NewDrawService(store, store, nil, nil)

		_, err := svc.AnnounceResults(ctx)
		if !errors.Is(err, apperrors.ErrNoActiveDraw) {
			t.Fatalf("expected ErrNoActiveDraw, got %v", err)
		}
	})

	t.Run("settles winners and losers and credits prizes", func(t *testing.T) {
		store := memory.NewStore()
		notifier := &recorderNotifier{}
		svc := NewDrawService(store, store, nil, notifier)

		newTestAccount(t, store, "alice", 100)
		newTestAccount(t, store, "bob", 100)
		winning := addTicket(t, store, "alice", []int{42, 7, 13, 99, 1})
		losing := addTicket(t, store, "bob", []int{1, 2, 3, 4, 5})

		if _, err := svc.SetWinningNumber(ctx, 42); err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}
		settled, err := svc.AnnounceResults(ctx)
		if err != nil {
			t.Fatalf("AnnounceResults failed: %v", err)
		}
		if len(settled) != 2 {
			t.Fatalf("expected 2 settled tickets, got %d", len(settled))
		}

		aliceTicket, _ := store.FindTicket(ctx, winning.ID)
		if !aliceTicket.Settled || !aliceTicket.Won {
			t.Errorf("ticket containing the winning number must win, got %+v", aliceTicket)
		}
		if aliceTicket.Prize != 50 {
			t.Errorf("one matching slot pays 50, got %.2f", aliceTicket.Prize)
		}
		bobTicket, _ := store.FindTicket(ctx, losing.ID)
		if !bobTicket.Settled || bobTicket.Won {
			t.Errorf("ticket without the winning number must lose, got %+v", bobTicket)
		}
		if bobTicket.Prize != 0 {
			t.Errorf("losing ticket pays nothing, got %.2f", bobTicket.Prize)
		}

		alice, _ := store.FindAccount(ctx, "alice")
		if alice.Balance != 140 { // 100 - 10 + 50
			t.Errorf("expected alice balance 140, got %.2f", alice.Balance)
		}
		bob, _ := store.FindAccount(ctx, "bob")
		if bob.Balance != 90 {
			t.Errorf("expected bob balance 90, got %.2f", bob.Balance)
		}

		if _, err := store.FindOpen(ctx); !errors.Is(err, apperrors.ErrNotFound) {
			t.Error("announcing must close the draw")
		}
		if len(notifier.winningNumbers) != 1 || notifier.winningNumbers[0] != 42 {
			t.Errorf("expected one broadcast with number 42, got %v", notifier.winningNumbers)
		}
		if notifier.settledCounts[0] != 2 {
			t.Errorf("expected broadcast of 2 settled tickets, got %d", notifier.settledCounts[0])
		}
	})

	t.Run("duplicate matching slots each pay", func(t *testing.T) {
		store := memory.NewStore()
		svc := NewDrawService(store, store, nil, nil)

		newTestAccount(t, store, "carol", 100)
		doubled := addTicket(t, store, "carol", []int{42, 42, 3, 4, 5})

		if _, err := svc.SetWinningNumber(ctx, 42); err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}
		if _, err := svc.AnnounceResults(ctx); err != nil {
			t.Fatalf("AnnounceResults failed: %v", err)
		}

		ticket, _ := store.FindTicket(ctx, doubled.ID)
		if ticket.Prize != 100 {
			t.Errorf("two matching slots pay 100, got %.2f", ticket.Prize)
		}
	})

	t.Run("never double-credits on repeated runs", func(t *testing.T) {
		store := memory.NewStore()
		svc := NewDrawService(store, store, nil, nil)

		newTestAccount(t, store, "alice", 100)
		ticket := addTicket(t, store, "alice", []int{42, 7, 13, 99, 1})

		draw, err := svc.SetWinningNumber(ctx, 42)
		if err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}

		// Simulate an earlier run that settled this ticket but died before
		// closing the draw.
		applied, err := store.SettleTicket(ctx, ticket.ID, "alice", draw.ID, true, 50)
		if err != nil || !applied {
			t.Fatalf("seeding settlement failed: applied=%v err=%v", applied, err)
		}

		settled, err := svc.AnnounceResults(ctx)
		if err != nil {
			t.Fatalf("AnnounceResults failed: %v", err)
		}
		if len(settled) != 0 {
			t.Errorf("already-settled tickets must be skipped, got %d", len(settled))
		}

		alice, _ := store.FindAccount(ctx, "alice")
		if alice.Balance != 140 {
			t.Errorf("repeated settlement must not double-credit, balance %.2f", alice.Balance)
		}

		// The draw is now closed; a second announce reports NoActiveDraw and
		// changes nothing.
		if _, err := svc.AnnounceResults(ctx); !errors.Is(err, apperrors.ErrNoActiveDraw) {
			t.Fatalf("expected ErrNoActiveDraw on second announce, got %v", err)
		}
		alice, _ = store.FindAccount(ctx, "alice")
		if alice.Balance != 140 {
			t.Errorf("second announce must not change balances, got %.2f", alice.Balance)
		}
	})

	t.Run("a fresh draw settles only new tickets", func(t *testing.T) {
		store := memory.NewStore()
		svc := NewDrawService(store, store, nil, nil)

		newTestAccount(t, store, "alice", 100)
		addTicket(t, store, "alice", []int{1, 2, 3, 4, 5})

		if _, err := svc.SetWinningNumber(ctx, 7); err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}
		if _, err := svc.AnnounceResults(ctx); err != nil {
			t.Fatalf("AnnounceResults failed: %v", err)
		}

		fresh := addTicket(t, store, "alice", []int{7, 8, 9, 10, 11})
		if _, err := svc.SetWinningNumber(ctx, 7); err != nil {
			t.Fatalf("SetWinningNumber failed: %v", err)
		}
		settled, err := svc.AnnounceResults(ctx)
		if err != nil {
			t.Fatalf("AnnounceResults failed: %v", err)
		}
		if len(settled) != 1 || settled[0].TicketID != fresh.ID {
			t.Fatalf("expected only the fresh ticket settled, got %v", settled)
		}
		if !settled[0].Won || settled[0].Prize != 50 {
			t.Errorf("fresh ticket should win 50, got %+v", settled[0])
		}
	})
}
