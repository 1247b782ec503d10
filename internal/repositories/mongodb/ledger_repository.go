package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lotterysystem/lottery-backend/internal/apperrors"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure LedgerRepository implements the interface
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// ticketIDBase keeps assigned ticket ids in the range the original system
// used (first ticket is 1001).
const ticketIDBase = 1000

// LedgerRepository handles MongoDB operations for accounts and tickets
type LedgerRepository struct {
	db       *mongo.Database
	accounts *mongo.Collection
	tickets  *mongo.Collection
	counters *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		db:       db,
		accounts: db.Collection("accounts"),
		tickets:  db.Collection("tickets"),
		counters: db.Collection("counters"),
	}
}

// CreateAccount inserts a new account. Fails with ErrConflict if the username
// is already taken (the collection carries a unique index on username).
func (r *LedgerRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	if account.TicketIDs == nil {
		account.TicketIDs = []int64{}
	}
	_, err := r.accounts.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("account %q already exists: %w", account.Username, apperrors.ErrConflict)
	}
	return err
}

// FindAccount finds an account by username
func (r *LedgerRepository) FindAccount(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.accounts.FindOne(ctx, bson.M{"username": username}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("account %q: %w", username, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindAllAccounts retrieves all accounts
func (r *LedgerRepository) FindAllAccounts(ctx context.Context) ([]*models.Account, error) {
	cursor, err := r.accounts.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []*models.Account
	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	return accounts, nil
}

// FindTicket finds a ticket by its identifier
func (r *LedgerRepository) FindTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.tickets.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("ticket %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// FindTicketsByUsername retrieves all tickets owned by an account, newest first
func (r *LedgerRepository) FindTicketsByUsername(ctx context.Context, username string) ([]*models.Ticket, error) {
	opts := options.Find().SetSort(bson.M{"purchaseTime": -1})
	cursor, err := r.tickets.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}

// FindAllTickets retrieves every ticket (admin view; access control is the caller's job)
func (r *LedgerRepository) FindAllTickets(ctx context.Context) ([]*models.Ticket, error) {
	return r.findTickets(ctx, bson.M{})
}

// FindUnsettledTickets retrieves tickets whose settlement outcome is still unset
func (r *LedgerRepository) FindUnsettledTickets(ctx context.Context) ([]*models.Ticket, error) {
	return r.findTickets(ctx, bson.M{"settled": false})
}

func (r *LedgerRepository) findTickets(ctx context.Context, filter bson.M) ([]*models.Ticket, error) {
	cursor, err := r.tickets.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*models.Ticket
	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}
	return tickets, nil
}

// NextTicketID assigns the next ticket id from the counters collection
func (r *LedgerRepository) NextTicketID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "ticketId"},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return ticketIDBase + counter.Seq, nil
}

// PurchaseTicket debits the account and inserts the ticket inside one
// transaction. The account update filter includes the balance the caller
// read, so a concurrent debit makes the update match nothing and the unit
// fails with ErrConflict.
func (r *LedgerRepository) PurchaseTicket(ctx context.Context, username string, expectedBalance, price float64, ticket *models.Ticket) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.accounts.UpdateOne(sc,
			bson.M{"username": username, "balance": expectedBalance},
			bson.M{
				"$inc":  bson.M{"balance": -price},
				"$push": bson.M{"ticketIds": ticket.ID},
				"$set":  bson.M{"updatedAt": time.Now()},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			n, err := r.accounts.CountDocuments(sc, bson.M{"username": username})
			if err != nil {
				return nil, err
			}
			if n == 0 {
				return nil, fmt.Errorf("account %q: %w", username, apperrors.ErrNotFound)
			}
			return nil, fmt.Errorf("balance of %q changed concurrently: %w", username, apperrors.ErrConflict)
		}
		if _, err := r.tickets.InsertOne(sc, ticket); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// SettleTicket writes the settlement outcome and credits the prize inside one
// transaction. The settled:false filter makes the write first-run-only, so
// repeating a settlement pass never double-credits.
func (r *LedgerRepository) SettleTicket(ctx context.Context, ticketID int64, username string, drawID primitive.ObjectID, won bool, prize float64) (bool, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(ctx)

	applied, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.tickets.UpdateOne(sc,
			bson.M{"_id": ticketID, "settled": false},
			bson.M{"$set": bson.M{
				"settled": true,
				"won":     won,
				"prize":   prize,
				"drawId":  drawID,
			}},
		)
		if err != nil {
			return false, err
		}
		if res.MatchedCount == 0 {
			n, err := r.tickets.CountDocuments(sc, bson.M{"_id": ticketID})
			if err != nil {
				return false, err
			}
			if n == 0 {
				return false, fmt.Errorf("ticket %d: %w", ticketID, apperrors.ErrNotFound)
			}
			// Already settled by an earlier run.
			return false, nil
		}
		if prize > 0 {
			_, err = r.accounts.UpdateOne(sc,
				bson.M{"username": username},
				bson.M{
					"$inc": bson.M{"balance": prize},
					"$set": bson.M{"updatedAt": time.Now()},
				},
			)
			if err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return applied.(bool), nil
}

// EnsureIndexes creates the unique username index the purchase path relies on
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}
