package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docportal/internal/migrations/mongo/validators"
)

var (
	AppointmentOptionIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	// BookingIndexes carries the index that upholds the one-booking-per
	// (email, date, treatment) invariant at the store, closing the race
	// window left open by the application-level pre-check.
	BookingIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "email", Value: 1},
				{Key: "appointmentDate", Value: 1},
				{Key: "treatment", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "appointmentDate", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	UserIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	DoctorIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "specialty", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, databaseName string) error {
	db := client.Database(databaseName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"appointmentOptions": {
			Indexes:   AppointmentOptionIndexes,
			Validator: validators.AppointmentOptionValidator,
		},
		"bookings": {
			Indexes:   BookingIndexes,
			Validator: validators.BookingValidator,
		},
		"users": {
			Indexes:   UserIndexes,
			Validator: validators.UserValidator,
		},
		"doctors": {
			Indexes:   DoctorIndexes,
			Validator: validators.DoctorValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if len(names) == 0 {
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	}

	if validator != nil {
		cmd := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
			{Key: "validationLevel", Value: "moderate"},
		}
		if err := db.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("failed to update validator: %w", err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}

	_, err := db.Collection(name).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
