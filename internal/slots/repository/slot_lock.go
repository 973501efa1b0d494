package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	slotserrors "github.com/thisisgagangupta/dev-kiosk/internal/slots/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

const CollectionName = "slot_locks"

// SlotLockRepository owns SlotLock records. The unique _id insert is
// the conditional-create primitive; there is no update path.
type SlotLockRepository interface {
	Create(ctx context.Context, lock *model.SlotLock) error
	Find(ctx context.Context, lockID string) (*model.SlotLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection(CollectionName),
	}
}

// Create inserts the lock record. A duplicate key means another writer
// holds the slot; that is surfaced as ErrLockExists, never as a raw
// driver error.
func (r *mongoSlotLockRepository) Create(ctx context.Context, lock *model.SlotLock) error {
	lock.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return slotserrors.ErrLockExists
		}
		return fmt.Errorf("failed to create slot lock: %w", err)
	}
	return nil
}

func (r *mongoSlotLockRepository) Find(ctx context.Context, lockID string) (*model.SlotLock, error) {
	var lock model.SlotLock
	err := r.collection.FindOne(ctx, bson.M{"_id": lockID}).Decode(&lock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, slotserrors.ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to find slot lock: %w", err)
	}
	return &lock, nil
}

// Delete removes the lock. Deleting a missing lock is not an error so
// repeated cancellations stay idempotent.
func (r *mongoSlotLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to delete slot lock: %w", err)
	}
	return nil
}
