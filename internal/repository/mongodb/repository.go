package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Mimoh123/saleTracker/internal/config"
	"github.com/Mimoh123/saleTracker/internal/domain/models"
)

const (
	serverSelectionTimeout = 10 * time.Second
	connectTimeout         = 10 * time.Second
	maxPoolSize            = 5
)

// SaleRepository is the MongoDB-backed entry store. The underlying client is
// created once, lazily, on first use and shared by all operations for the
// process lifetime. mongo.Connect does not dial eagerly, so a store that is
// down at startup starts working as soon as it comes up; connectivity
// failures surface per operation instead.
type SaleRepository struct {
	cfg    config.MongoDBConfig
	logger *zap.Logger

	initOnce sync.Once
	client   *mongo.Client
	initErr  error
}

// NewSaleRepository builds a repository around the given MongoDB settings.
// No connection is attempted here.
func NewSaleRepository(cfg config.MongoDBConfig, logger *zap.Logger) *SaleRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleRepository{cfg: cfg, logger: logger}
}

func (r *SaleRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	r.initOnce.Do(func() {
		opts := options.Client().
			ApplyURI(r.cfg.URI).
			SetServerSelectionTimeout(serverSelectionTimeout).
			SetConnectTimeout(connectTimeout).
			SetMaxPoolSize(maxPoolSize)

		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			r.initErr = fmt.Errorf("failed to create mongodb client: %w", err)
			return
		}

		r.client = client
		r.logger.Info("mongodb client initialized",
			zap.String("db", r.cfg.DBName),
			zap.String("collection", r.cfg.Collection))
	})

	if r.initErr != nil {
		return nil, r.initErr
	}
	if r.client == nil {
		return nil, errors.New("mongodb client is closed")
	}
	return r.client.Database(r.cfg.DBName).Collection(r.cfg.Collection), nil
}

// FindAll returns every sale sorted by createdAt descending. Individual
// records that fail to decode are normalized field by field rather than
// failing the whole listing.
func (r *SaleRepository) FindAll(ctx context.Context) ([]models.SaleEntry, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, classify(err)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query sales: %w", err))
	}
	defer cursor.Close(ctx)

	entries := make([]models.SaleEntry, 0)
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("skipping undecodable sale document", zap.Error(err))
			continue
		}
		entries = append(entries, models.EntryFromDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to read sales cursor: %w", err))
	}

	return entries, nil
}

// Insert stores one new sale document.
func (r *SaleRepository) Insert(ctx context.Context, entry models.SaleEntry) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return classify(err)
	}

	if _, err := coll.InsertOne(ctx, entry); err != nil {
		return classify(fmt.Errorf("failed to insert sale: %w", err))
	}
	return nil
}

// Update sets only the mutable fields of the sale matching id. A missing id
// is not an error; date and createdAt are never touched.
func (r *SaleRepository) Update(ctx context.Context, id, productName string, amount float64, paymentType models.PaymentType) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return classify(err)
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "productName", Value: productName},
		{Key: "amount", Value: amount},
		{Key: "paymentType", Value: paymentType},
	}}}
	if _, err := coll.UpdateOne(ctx, bson.D{{Key: "id", Value: id}}, update); err != nil {
		return classify(fmt.Errorf("failed to update sale: %w", err))
	}
	return nil
}

// Delete removes the sale matching id. Deleting an absent id is a no-op.
func (r *SaleRepository) Delete(ctx context.Context, id string) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return classify(err)
	}

	if _, err := coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}}); err != nil {
		return classify(fmt.Errorf("failed to delete sale: %w", err))
	}
	return nil
}

// Close disconnects the client if one was ever created. It shares the init
// guard, so a first use racing shutdown cannot be missed; once closed the
// repository rejects further operations instead of reconnecting.
func (r *SaleRepository) Close(ctx context.Context) error {
	r.initOnce.Do(func() {})

	client := r.client
	r.client = nil
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// classify wraps connectivity-style failures with models.ErrStoreUnreachable
// so the action layer can emit an actionable message, and passes everything
// else through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isUnreachable(err) {
		return fmt.Errorf("%w: %v", models.ErrStoreUnreachable, err)
	}
	return err
}

func isUnreachable(err error) bool {
	if mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "server selection error") ||
		strings.Contains(msg, "no reachable servers")
}
