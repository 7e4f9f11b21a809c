package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	doctorerrors "docportal/internal/doctors/errors"
	"docportal/pkg/config"
	"docportal/pkg/model"
)

const CollectionName = "doctors"

type DoctorRepository interface {
	FindAll(ctx context.Context) ([]*model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) (*model.InsertResult, error)
	Delete(ctx context.Context, id string) (*model.DeleteResult, error)
}

type mongoDoctorRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDoctorRepository(cfg *config.Config) DoctorRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDoctorRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDoctorRepository) FindAll(ctx context.Context) ([]*model.Doctor, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []*model.Doctor{}
	if err = cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}

	return doctors, nil
}

func (r *mongoDoctorRepository) Create(ctx context.Context, doctor *model.Doctor) (*model.InsertResult, error) {
	result, err := r.collection.InsertOne(ctx, doctor)
	if err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	insert := &model.InsertResult{Acknowledged: true}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		insert.InsertedID = oid.Hex()
		doctor.ID = oid.Hex()
	}
	return insert, nil
}

func (r *mongoDoctorRepository) Delete(ctx context.Context, id string) (*model.DeleteResult, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", doctorerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, fmt.Errorf("failed to delete doctor: %w", err)
	}
	if result.DeletedCount == 0 {
		return nil, doctorerrors.ErrNotFound
	}

	return &model.DeleteResult{
		Acknowledged: true,
		DeletedCount: result.DeletedCount,
	}, nil
}
