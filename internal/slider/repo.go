package slider

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cbcshop/backend/internal/store"
)

var (
	ErrNotFound     = errors.New("slider not found")
	ErrAlreadyExist = errors.New("slider id already exists")
)

type Repository interface {
	Create(ctx context.Context, s *Slider) error
	FindBySliderID(ctx context.Context, sliderID string) (*Slider, error)
	List(ctx context.Context, includeInactive bool) ([]Slider, error)
	Update(ctx context.Context, sliderID string, upd UpdateSliderRequest) error
	Delete(ctx context.Context, sliderID string) (bool, error)
}

type MongoRepo struct{ coll *mongo.Collection }

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(store.CollSliders)}
}

func (r *MongoRepo) Create(ctx context.Context, s *Slider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExist
	}
	return err
}

func (r *MongoRepo) FindBySliderID(ctx context.Context, sliderID string) (*Slider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Slider
	err := r.coll.FindOne(ctx, bson.M{"sliderId": sliderID}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *MongoRepo) List(ctx context.Context, includeInactive bool) ([]Slider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if !includeInactive {
		filter["isActive"] = true
	}
	cursor, err := r.coll.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	var out []Slider
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) Update(ctx context.Context, sliderID string, upd UpdateSliderRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Subtitle != nil {
		set["subtitle"] = *upd.Subtitle
	}
	if upd.ImageURL != nil {
		set["imageUrl"] = *upd.ImageURL
	}
	if upd.Link != nil {
		set["link"] = *upd.Link
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	if upd.Order != nil {
		set["order"] = *upd.Order
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"sliderId": sliderID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Delete(ctx context.Context, sliderID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"sliderId": sliderID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
