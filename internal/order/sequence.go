package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cbcshop/backend/internal/store"
)

const (
	orderIDPrefix = "CBC"
	orderIDWidth  = 5

	counterID = "orderId"
)

// Allocator produces the next order identifier. Implementations must be safe
// under concurrent allocation: two calls never return the same id.
type Allocator interface {
	Next(ctx context.Context) (string, error)
}

// FormatOrderID renders a sequence number as CBC00001, CBC00002, ...
// Numbers wider than the pad keep growing without truncation.
func FormatOrderID(n int64) string {
	return fmt.Sprintf("%s%0*d", orderIDPrefix, orderIDWidth, n)
}

// ParseOrderNumber extracts the numeric suffix of an order id.
func ParseOrderNumber(orderID string) (int64, error) {
	if !strings.HasPrefix(orderID, orderIDPrefix) {
		return 0, fmt.Errorf("order id %q does not start with %q", orderID, orderIDPrefix)
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(orderID, orderIDPrefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("order id %q has a non-numeric suffix", orderID)
	}
	return n, nil
}

// Sequence allocates order ids from a counter document using an atomic
// increment-and-fetch. Reading the newest order and incrementing in
// application code would hand the same id to concurrent placements; the
// single-document $inc makes allocation a total order on its own.
type Sequence struct {
	counters *mongo.Collection
	orders   *mongo.Collection
}

func NewSequence(db *mongo.Database) *Sequence {
	return &Sequence{
		counters: db.Collection(store.CollCounters),
		orders:   db.Collection(store.CollOrders),
	}
}

// Init seeds the counter from pre-existing orders exactly once, so a
// deployment that already has CBC-numbered orders continues the sequence
// instead of restarting at CBC00001. Safe to call on every startup.
func (s *Sequence) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.counters.FindOne(ctx, bson.M{"_id": counterID}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	var last struct {
		OrderID string `bson:"orderId"`
	}
	var seed int64
	err = s.orders.FindOne(ctx, bson.M{},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&last)
	switch {
	case err == nil:
		n, perr := ParseOrderNumber(last.OrderID)
		if perr != nil {
			return perr
		}
		seed = n
	case errors.Is(err, mongo.ErrNoDocuments):
		seed = 0
	default:
		return err
	}

	_, err = s.counters.InsertOne(ctx, bson.M{"_id": counterID, "seq": seed})
	if mongo.IsDuplicateKeyError(err) {
		// another instance seeded first
		return nil
	}
	return err
}

// Next returns the next id in sequence via a single atomic $inc.
func (s *Sequence) Next(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("allocate order id: %w", err)
	}
	return FormatOrderID(doc.Seq), nil
}
