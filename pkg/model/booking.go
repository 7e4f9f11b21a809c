package model

import "time"

// Booking reserves one slot of one treatment for one email on one date.
// AppointmentDate is matched verbatim against the date the caller supplies
// when resolving availability; no parsing or normalization happens anywhere.
type Booking struct {
	ID              string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Email           string    `json:"email" bson:"email" validate:"required,email"`
	Treatment       string    `json:"treatment" bson:"treatment" validate:"required,min=2,max=100"`
	AppointmentDate string    `json:"appointmentDate" bson:"appointmentDate" validate:"required"`
	Slot            string    `json:"slot" bson:"slot" validate:"required"`
	Patient         string    `json:"patient,omitempty" bson:"patient,omitempty"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}

// BookingReceipt is the outcome of submitting a booking. A rejected
// duplicate is a normal response, not an error: Acknowledged is false and
// Message names the conflicting date.
type BookingReceipt struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId,omitempty"`
	Message      string `json:"message,omitempty"`
}
