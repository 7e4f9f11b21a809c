package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	usererrors "docportal/internal/users/errors"
	"docportal/pkg/config"
	"docportal/pkg/model"
)

const CollectionName = "users"

type UserRepository interface {
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) (*model.InsertResult, error)
	PromoteToAdmin(ctx context.Context, id string) (*model.UpdateResult, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// FindByEmail returns ErrNotFound when no record exists; callers must
// pattern-match on it rather than inspecting a zero-value user.
func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usererrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) (*model.InsertResult, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, usererrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	insert := &model.InsertResult{Acknowledged: true}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		insert.InsertedID = oid.Hex()
		user.ID = oid.Hex()
	}
	return insert, nil
}

// PromoteToAdmin sets role=admin with upsert semantics, matching the
// portal's original promotion behavior.
func (r *mongoUserRepository) PromoteToAdmin(ctx context.Context, id string) (*model.UpdateResult, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", usererrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"role": model.RoleAdmin}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	out := &model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}
	if oid, ok := result.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = oid.Hex()
	}
	return out, nil
}
