package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

const CounterCollectionName = "sequence_counters"

// SequenceRepository allocates monotonically increasing integers per
// (day, lane) partition using the store's atomic increment. Values are
// never reused and never decrease; this is the only writer of
// SequenceCounter documents.
type SequenceRepository interface {
	Next(ctx context.Context, day, lane string) (int64, error)
}

type mongoSequenceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSequenceRepository(cfg *config.Config) SequenceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSequenceRepository{
		cfg:        cfg,
		collection: db.Collection(CounterCollectionName),
	}
}

// Next increments the partition counter and returns the new value.
// The increment is a single-document atomic operation; concurrent
// callers each observe a distinct value. A counter that does not exist
// yet is seeded with 1. Two first callers racing on a brand-new
// partition can both observe the missing counter and both receive 1;
// that cosmetic duplicate on the very first token of a day/lane is a
// documented limitation, so the losing insert is logged and tolerated
// rather than retried.
func (r *mongoSequenceRepository) Next(ctx context.Context, day, lane string) (int64, error) {
	counterID := model.CounterID(day, lane)

	var counter model.SequenceCounter
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&counter)
	if err == nil {
		return counter.Seq, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to increment sequence counter %s: %w", counterID, err)
	}

	// First allocation for this (day, lane): seed the counter.
	_, err = r.collection.InsertOne(ctx, model.SequenceCounter{
		CounterID: counterID,
		Seq:       1,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.cfg.Log.Warn("Lost first-allocation race, issuing duplicate initial sequence",
				"counter_id", counterID,
			)
			return 1, nil
		}
		return 0, fmt.Errorf("failed to seed sequence counter %s: %w", counterID, err)
	}
	return 1, nil
}
