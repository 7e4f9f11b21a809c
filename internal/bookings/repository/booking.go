package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "docportal/internal/bookings/errors"
	"docportal/pkg/config"
	"docportal/pkg/model"
)

const CollectionName = "bookings"

type BookingRepository interface {
	FindByEmail(ctx context.Context, email string) ([]*model.Booking, error)
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByDate(ctx context.Context, date string) ([]*model.Booking, error)
	FindConflicts(ctx context.Context, booking *model.Booking) ([]*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) (string, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) FindByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"email": email})
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindByDate matches appointmentDate verbatim. An unparseable or absent
// date simply matches nothing, which the resolver treats as fully open.
func (r *mongoBookingRepository) FindByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"appointmentDate": date})
}

// FindConflicts returns bookings sharing the submission's email, date and
// treatment. The slot is deliberately not part of the key.
func (r *mongoBookingRepository) FindConflicts(ctx context.Context, booking *model.Booking) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{
		"appointmentDate": booking.AppointmentDate,
		"email":           booking.Email,
		"treatment":       booking.Treatment,
	})
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) (string, error) {
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.ErrDuplicate
		}
		return "", fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return booking.ID, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}
