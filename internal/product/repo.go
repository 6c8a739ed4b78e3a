// Package product provides the repository interface and MongoDB implementation
// for managing catalog entries.
package product

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cbcshop/backend/internal/store"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrAlreadyExist = errors.New("product id already exists")
)

type Query struct {
	Sort  string // comma-separated field list, "-" prefix for descending
	Limit int
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindByProductID(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, q Query, includeHidden bool) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	BestSellers(ctx context.Context, limit int) ([]Product, error)
	Update(ctx context.Context, productID string, upd UpdateProductRequest) error
	Delete(ctx context.Context, productID string) (bool, error)
	IncSalesCount(ctx context.Context, productID string, delta int) error
}

type MongoRepo struct{ coll *mongo.Collection }

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(store.CollProducts)}
}

func (r *MongoRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExist
	}
	return err
}

func (r *MongoRepo) FindByProductID(ctx context.Context, productID string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.coll.FindOne(ctx, bson.M{"productId": productID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// parseSort turns "salesCount,-price" into a mongo sort document. Unknown
// input falls back to newest-first.
func parseSort(s string) bson.D {
	var sort bson.D
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		dir := 1
		if strings.HasPrefix(field, "-") {
			dir = -1
			field = field[1:]
		}
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	return sort
}

func (r *MongoRepo) List(ctx context.Context, q Query, includeHidden bool) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if !includeHidden {
		filter["isAvailable"] = true
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().SetSort(parseSort(q.Sort)).SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) Search(ctx context.Context, query string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$or": bson.A{
			bson.M{"name": re},
			bson.M{"altNames": re},
			bson.M{"description": re},
		},
		"isAvailable": true,
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var out []Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) BestSellers(ctx context.Context, limit int) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "salesCount", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"isAvailable": true}, opts)
	if err != nil {
		return nil, err
	}
	var out []Product
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) Update(ctx context.Context, productID string, upd UpdateProductRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.AltNames != nil {
		set["altNames"] = *upd.AltNames
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Images != nil {
		set["images"] = *upd.Images
	}
	if upd.LabelledPrice != nil {
		set["labelledPrice"] = *upd.LabelledPrice
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.IsAvailable != nil {
		set["isAvailable"] = *upd.IsAvailable
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"productId": productID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, productID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"productId": productID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// IncSalesCount bumps the per-product sales counter atomically. Concurrent
// orders for the same product must never lose an increment, so this is a
// single $inc, not read-modify-write.
func (r *MongoRepo) IncSalesCount(ctx context.Context, productID string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"productId": productID},
		bson.M{"$inc": bson.M{"salesCount": delta}},
	)
	return err
}
