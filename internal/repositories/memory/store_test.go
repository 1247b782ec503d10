package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_PurchaseTicket(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.CreateAccount(ctx, &models.Account{Username: "alice", Balance: 100})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	t.Run("compare-and-write rejects a stale balance", func(t *testing.T) {
		id, _ := store.NextTicketID(ctx)
		ticket := &models.Ticket{ID: id, Username: "alice", Numbers: []int{1, 2, 3, 4, 5}}
		err := store.PurchaseTicket(ctx, "alice", 90, 10, ticket) // actual balance is 100
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("expected ErrConflict for a stale balance, got %v", err)
		}
		if _, err := store.FindTicket(ctx, id); !errors.Is(err, apperrors.ErrNotFound) {
			t.Error("a conflicted purchase must not leave a ticket behind")
		}
	})

	t.Run("matching balance applies the whole unit", func(t *testing.T) {
		id, _ := store.NextTicketID(ctx)
		ticket := &models.Ticket{ID: id, Username: "alice", Numbers: []int{1, 2, 3, 4, 5}}
		if err := store.PurchaseTicket(ctx, "alice", 100, 10, ticket); err != nil {
			t.Fatalf("PurchaseTicket failed: %v", err)
		}
		account, _ := store.FindAccount(ctx, "alice")
		if account.Balance != 90 {
			t.Errorf("expected balance 90, got %.2f", account.Balance)
		}
		if len(account.TicketIDs) != 1 || account.TicketIDs[0] != id {
			t.Errorf("expected ticket %d linked, got %v", id, account.TicketIDs)
		}
	})

	t.Run("unknown account fails with NotFound", func(t *testing.T) {
		err := store.PurchaseTicket(ctx, "nobody", 100, 10, &models.Ticket{ID: 1})
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStore_SettleTicket(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.CreateAccount(ctx, &models.Account{Username: "alice", Balance: 90}); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	id, _ := store.NextTicketID(ctx)
	ticket := &models.Ticket{ID: id, Username: "alice", Numbers: []int{42, 2, 3, 4, 5}}
	if err := store.PurchaseTicket(ctx, "alice", 90, 10, ticket); err != nil {
		t.Fatalf("PurchaseTicket failed: %v", err)
	}

	drawID := primitive.NewObjectID()

	applied, err := store.SettleTicket(ctx, id, "alice", drawID, true, 50)
	if err != nil || !applied {
		t.Fatalf("first settlement must apply: applied=%v err=%v", applied, err)
	}
	account, _ := store.FindAccount(ctx, "alice")
	if account.Balance != 130 { // 80 after purchase + 50 prize
		t.Errorf("expected balance 130, got %.2f", account.Balance)
	}

	applied, err = store.SettleTicket(ctx, id, "alice", drawID, true, 50)
	if err != nil {
		t.Fatalf("repeated settlement errored: %v", err)
	}
	if applied {
		t.Error("repeated settlement must be a no-op")
	}
	account, _ = store.FindAccount(ctx, "alice")
	if account.Balance != 130 {
		t.Errorf("repeated settlement must not credit again, got %.2f", account.Balance)
	}

	if _, err := store.SettleTicket(ctx, 9999, "alice", drawID, false, 0); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown ticket, got %v", err)
	}
}

func TestStore_TicketIDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	last, _ := store.NextTicketID(ctx)
	if last != 1001 {
		t.Errorf("first assigned id should be 1001, got %d", last)
	}
	for i := 0; i < 10; i++ {
		id, err := store.NextTicketID(ctx)
		if err != nil {
			t.Fatalf("NextTicketID failed: %v", err)
		}
		if id <= last {
			t.Fatalf("ids must be strictly increasing: %d after %d", id, last)
		}
		last = id
	}
}
