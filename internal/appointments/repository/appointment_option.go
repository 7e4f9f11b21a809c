package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingsrepo "docportal/internal/bookings/repository"
	"docportal/pkg/config"
	"docportal/pkg/model"
)

const CollectionName = "appointmentOptions"

type AppointmentOptionRepository interface {
	FindAll(ctx context.Context) ([]*model.AppointmentOption, error)
	FindNames(ctx context.Context) ([]*model.OptionName, error)
	AvailableByDate(ctx context.Context, date string) ([]*model.AppointmentOption, error)
}

type mongoAppointmentOptionRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAppointmentOptionRepository(cfg *config.Config) AppointmentOptionRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentOptionRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAppointmentOptionRepository) FindAll(ctx context.Context) ([]*model.AppointmentOption, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find appointment options: %w", err)
	}
	defer cursor.Close(ctx)

	catalog := []*model.AppointmentOption{}
	if err = cursor.All(ctx, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode appointment options: %w", err)
	}

	return catalog, nil
}

func (r *mongoAppointmentOptionRepository) FindNames(ctx context.Context) ([]*model.OptionName, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find specialty names: %w", err)
	}
	defer cursor.Close(ctx)

	names := []*model.OptionName{}
	if err = cursor.All(ctx, &names); err != nil {
		return nil, fmt.Errorf("failed to decode specialty names: %w", err)
	}

	return names, nil
}

// AvailableByDate pushes the availability join into the store: one
// aggregation joins same-date bookings onto each option and filters its
// slot list down to the unbooked remainder. Results are identical to the
// host-side strategy, including slot order.
func (r *mongoAppointmentOptionRepository) AvailableByDate(ctx context.Context, date string) ([]*model.AppointmentOption, error) {
	cursor, err := r.collection.Aggregate(ctx, BuildAvailabilityPipeline(date))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate availability: %w", err)
	}
	defer cursor.Close(ctx)

	catalog := []*model.AppointmentOption{}
	if err = cursor.All(ctx, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}

	return catalog, nil
}

// BuildAvailabilityPipeline constructs the store-side availability query.
// $filter is used for the set difference rather than $setDifference because
// $filter keeps the catalog's original slot order, which the two resolver
// strategies must agree on.
func BuildAvailabilityPipeline(date string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: bookingsrepo.CollectionName},
			{Key: "localField", Value: "name"},
			{Key: "foreignField", Value: "treatment"},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{
					{Key: "$expr", Value: bson.D{
						{Key: "$eq", Value: bson.A{"$appointmentDate", date}},
					}},
				}}},
			}},
			{Key: "as", Value: "booked"},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "price", Value: 1},
			{Key: "slots", Value: 1},
			{Key: "booked", Value: bson.D{
				{Key: "$map", Value: bson.D{
					{Key: "input", Value: "$booked"},
					{Key: "as", Value: "book"},
					{Key: "in", Value: "$$book.slot"},
				}},
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "price", Value: 1},
			{Key: "slots", Value: bson.D{
				{Key: "$filter", Value: bson.D{
					{Key: "input", Value: "$slots"},
					{Key: "as", Value: "slot"},
					{Key: "cond", Value: bson.D{
						{Key: "$not", Value: bson.A{
							bson.D{{Key: "$in", Value: bson.A{"$$slot", "$booked"}}},
						}},
					}},
				}},
			}},
		}}},
	}
}
