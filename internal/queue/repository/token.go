package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	queueerrors "github.com/thisisgagangupta/dev-kiosk/internal/queue/errors"
	"github.com/thisisgagangupta/dev-kiosk/pkg/config"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

const TokenCollectionName = "tokens"

// TokenRepository owns all Token reads and writes. Tokens are never
// deleted; cancellation is a status change.
type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	FindByID(ctx context.Context, tokenID string) (*model.Token, error)
	FindByAppointmentID(ctx context.Context, appointmentID string) (*model.Token, error)
	FindByTokenNo(ctx context.Context, tokenNo string) (*model.Token, error)
	UpdateStatus(ctx context.Context, tokenID, status string) error
	CountAhead(ctx context.Context, date, lane string, seq int64) (int64, error)
	FindActiveByLane(ctx context.Context, date, lane string, limit int) ([]*model.Token, error)
}

type mongoTokenRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTokenRepository(cfg *config.Config) TokenRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTokenRepository{
		cfg:        cfg,
		collection: db.Collection(TokenCollectionName),
	}
}

// EnsureTokenIndexes creates the secondary indexes the lookup paths
// rely on: by appointment (idempotency check), by token number
// (status queries) and by partition order (ahead counts, wallboard).
func EnsureTokenIndexes(ctx context.Context, cfg *config.Config) error {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(TokenCollectionName)

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "appointment_id", Value: 1}, {Key: "issued_at", Value: -1}}},
		{Keys: bson.D{{Key: "token_no", Value: 1}, {Key: "issued_at", Value: -1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "lane", Value: 1}, {Key: "seq", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create token indexes: %w", err)
	}
	return nil
}

func (r *mongoTokenRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTokenRepository) Create(ctx context.Context, token *model.Token) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if token.IssuedAt.IsZero() {
		token.IssuedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := r.collection.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (r *mongoTokenRepository) FindByID(ctx context.Context, tokenID string) (*model.Token, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": tokenID}, nil)
}

// FindByAppointmentID returns the latest token issued for the
// appointment. This is the idempotency lookup: a repeated check-in
// must see the already-issued token.
func (r *mongoTokenRepository) FindByAppointmentID(ctx context.Context, appointmentID string) (*model.Token, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "issued_at", Value: -1}})
	return r.findOne(ctx, bson.M{"appointment_id": appointmentID}, opts)
}

// FindByTokenNo returns the latest token with this number. Token
// numbers repeat across days, so the most recently issued one wins.
func (r *mongoTokenRepository) FindByTokenNo(ctx context.Context, tokenNo string) (*model.Token, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "issued_at", Value: -1}})
	return r.findOne(ctx, bson.M{"token_no": tokenNo}, opts)
}

func (r *mongoTokenRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*model.Token, error) {
	var token model.Token

	var err error
	if opts != nil {
		err = r.collection.FindOne(ctx, filter, opts).Decode(&token)
	} else {
		err = r.collection.FindOne(ctx, filter).Decode(&token)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, queueerrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &token, nil
}

func (r *mongoTokenRepository) UpdateStatus(ctx context.Context, tokenID, status string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": tokenID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update token status: %w", err)
	}
	if result.MatchedCount == 0 {
		return queueerrors.ErrTokenNotFound
	}
	return nil
}

// CountAhead counts still-active tokens ordered before seq in the
// (date, lane) partition. Always computed fresh; statuses change
// asynchronously and must never be served from a cache.
func (r *mongoTokenRepository) CountAhead(ctx context.Context, date, lane string, seq int64) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"lane":   lane,
		"seq":    bson.M{"$lt": seq},
		"status": bson.M{"$in": []string{model.StatusWaiting, model.StatusCalled, model.StatusRoomed}},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tokens ahead: %w", err)
	}
	return count, nil
}

// FindActiveByLane returns the partition's active tokens in seq order
// for the wallboard projection.
func (r *mongoTokenRepository) FindActiveByLane(ctx context.Context, date, lane string, limit int) ([]*model.Token, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"date":   date,
		"lane":   lane,
		"status": bson.M{"$in": []string{model.StatusWaiting, model.StatusCalled, model.StatusRoomed}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find lane tokens: %w", err)
	}
	defer cursor.Close(ctx)

	var tokens []*model.Token
	if err := cursor.All(ctx, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decode lane tokens: %w", err)
	}
	return tokens, nil
}
