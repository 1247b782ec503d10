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

// Compile-time check to ensure DrawRepository implements the interface
var _ repositories.DrawRepository = (*DrawRepository)(nil)

// DrawRepository handles MongoDB operations for draws
type DrawRepository struct {
	collection *mongo.Collection
}

// NewDrawRepository creates a new DrawRepository
func NewDrawRepository(db *mongo.Database) *DrawRepository {
	return &DrawRepository{
		collection: db.Collection("draws"),
	}
}

// FindOpen returns the currently open draw
func (r *DrawRepository) FindOpen(ctx context.Context) (*models.Draw, error) {
	var draw models.Draw
	err := r.collection.FindOne(ctx, bson.M{"status": models.DrawStatusOpen}).Decode(&draw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("open draw: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// SetWinningNumber opens a draw with the given number. If a draw is already
// open its number is overwritten in place; closed draws are never modified.
func (r *DrawRepository) SetWinningNumber(ctx context.Context, number int) (*models.Draw, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var draw models.Draw
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"status": models.DrawStatusOpen},
		bson.M{"$set": bson.M{
			"winningNumber": number,
			"status":        models.DrawStatusOpen,
			"setTime":       time.Now(),
		}},
		opts,
	).Decode(&draw)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// Close transitions an open draw to closed. The status filter keeps the
// winning number of an already-closed draw immutable.
func (r *DrawRepository) Close(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var draw models.Draw
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.DrawStatusOpen},
		bson.M{"$set": bson.M{
			"status":     models.DrawStatusClosed,
			"closedTime": time.Now(),
		}},
		opts,
	).Decode(&draw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("open draw %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &draw, nil
}
