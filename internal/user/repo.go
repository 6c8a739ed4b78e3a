package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cbcshop/backend/internal/store"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("email already exists")
	ErrOTPNotFound  = errors.New("invalid or expired otp")
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type OTPRepository interface {
	Save(ctx context.Context, otp *OTP) error
	Find(ctx context.Context, email string, code int) (*OTP, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type MongoRepo struct{ coll *mongo.Collection }

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(store.CollUsers)}
}

func (r *MongoRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExist
	}
	return err
}

func (r *MongoRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *MongoRepo) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []User
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": passwordHash}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoOTPRepo struct{ coll *mongo.Collection }

func NewMongoOTPRepo(db *mongo.Database) *MongoOTPRepo {
	return &MongoOTPRepo{coll: db.Collection(store.CollOTPs)}
}

// Save replaces any outstanding code for the email; only the latest OTP is
// ever valid.
func (r *MongoOTPRepo) Save(ctx context.Context, otp *OTP) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"email": otp.Email}); err != nil {
		return err
	}
	_, err := r.coll.InsertOne(ctx, otp)
	return err
}

func (r *MongoOTPRepo) Find(ctx context.Context, email string, code int) (*OTP, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var otp OTP
	err := r.coll.FindOne(ctx, bson.M{"email": email, "otp": code}).Decode(&otp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}
	return &otp, nil
}

func (r *MongoOTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{"email": email})
	return err
}
