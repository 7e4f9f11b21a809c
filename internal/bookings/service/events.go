package service

import (
	"context"

	"docportal/pkg/kafka"
	"docportal/pkg/model"
)

const EventBookingAccepted = "booking.accepted"

// BookingAcceptedEvent is the payload emitted after an accepted booking.
type BookingAcceptedEvent struct {
	BookingID       string `json:"bookingId"`
	Email           string `json:"email"`
	Treatment       string `json:"treatment"`
	AppointmentDate string `json:"appointmentDate"`
	Slot            string `json:"slot"`
}

// publishAccepted emits a booking.accepted event, best effort: a broker
// failure is logged and never rolls back the stored booking.
func (s *bookingService) publishAccepted(ctx context.Context, booking *model.Booking) {
	if s.producer == nil {
		return
	}

	msg, err := kafka.NewEvent(EventBookingAccepted, booking.Email, BookingAcceptedEvent{
		BookingID:       booking.ID,
		Email:           booking.Email,
		Treatment:       booking.Treatment,
		AppointmentDate: booking.AppointmentDate,
		Slot:            booking.Slot,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to build booking event", "error", err)
		return
	}

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
