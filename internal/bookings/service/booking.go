package service

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "docportal/internal/bookings/errors"
	"docportal/internal/bookings/repository"
	"docportal/internal/bookings/validator"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/kafka"
	"docportal/pkg/model"
)

type BookingService interface {
	Submit(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	producer  *kafka.Producer
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	producer *kafka.Producer,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		producer:  producer,
		cfg:       cfg,
	}
}

// Submit is the conflict guard. The fast path queries for an existing
// booking with the same (email, appointmentDate, treatment) and rejects
// with a friendly message; the store's unique index on the same key backs
// it up when two submissions interleave, so the first insert wins and the
// loser gets the identical rejection.
func (s *bookingService) Submit(ctx context.Context, booking *model.Booking) (*model.BookingReceipt, error) {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindConflicts(ctx, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to check existing bookings", "error", err)
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}
	if len(existing) > 0 {
		return s.reject(booking), nil
	}

	id, err := s.repo.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrDuplicate) {
			// A concurrent submission slipped in between the check and
			// the insert; the unique index upholds the invariant.
			s.cfg.Log.Info("Booking lost conflict race",
				"email", booking.Email,
				"treatment", booking.Treatment,
				"date", booking.AppointmentDate,
			)
			return s.reject(booking), nil
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", id,
		"email", booking.Email,
		"treatment", booking.Treatment,
		"date", booking.AppointmentDate,
		"slot", booking.Slot,
	)
	s.publishAccepted(ctx, booking)

	return &model.BookingReceipt{
		Acknowledged: true,
		InsertedID:   id,
	}, nil
}

func (s *bookingService) ListByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) reject(booking *model.Booking) *model.BookingReceipt {
	return &model.BookingReceipt{
		Acknowledged: false,
		Message:      fmt.Sprintf("You already have a booking on %s", booking.AppointmentDate),
	}
}
