package order

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cbcshop/backend/internal/store"
)

// Scope restricts a listing to what the requester may see. Privileged callers
// get everything; everyone else only their own orders.
type Scope struct {
	All   bool
	Email string
}

func ScopeAll() Scope { return Scope{All: true} }
func ScopeOwnedBy(email string) Scope { return Scope{Email: email} }

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	GetByOrderID(ctx context.Context, orderID string) (*Order, error)
	List(ctx context.Context, scope Scope) ([]Order, error)
	Update(ctx context.Context, orderID string, upd UpdateOrderRequest) (*Order, error)
	Delete(ctx context.Context, orderID string) (*Order, error)
}

type MongoRepo struct{ coll *mongo.Collection }

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(store.CollOrders)}
}

// Insert persists the order. The unique index on orderId is the uniqueness
// backstop: a duplicate id surfaces as ErrConflict and the caller re-allocates.
func (r *MongoRepo) Insert(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, o)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (r *MongoRepo) GetByOrderID(ctx context.Context, orderID string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *MongoRepo) List(ctx context.Context, scope Scope) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if !scope.All {
		filter["email"] = scope.Email
	}
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	var out []Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update mutates status and/or notes only; every other order field is
// write-once at creation.
func (r *MongoRepo) Update(ctx context.Context, orderID string, upd UpdateOrderRequest) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Notes != nil {
		set["notes"] = *upd.Notes
	}

	if len(set) == 0 {
		return r.GetByOrderID(ctx, orderID)
	}

	var o Order
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *MongoRepo) Delete(ctx context.Context, orderID string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.coll.FindOneAndDelete(ctx, bson.M{"orderId": orderID}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
