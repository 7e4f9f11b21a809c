package service

import (
	"context"

	"docportal/internal/appointments/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
)

// BookingSource is the slice of the bookings repository the resolver needs:
// every booking recorded for a verbatim appointment date.
type BookingSource interface {
	FindByDate(ctx context.Context, date string) ([]*model.Booking, error)
}

type AppointmentService interface {
	Available(ctx context.Context, date string) ([]*model.AppointmentOption, error)
	AvailableAggregated(ctx context.Context, date string) ([]*model.AppointmentOption, error)
	Specialties(ctx context.Context) ([]*model.OptionName, error)
}

type appointmentService struct {
	repo     repository.AppointmentOptionRepository
	bookings BookingSource
	cfg      *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentOptionRepository,
	bookings BookingSource,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:     repo,
		bookings: bookings,
		cfg:      cfg,
	}
}

// Available resolves remaining slots host-side: the full catalog and the
// date's bookings are fetched separately and subtracted in memory. A date
// matching no bookings (including a missing or malformed one) leaves every
// slot open; the endpoint deliberately fails open rather than erroring.
func (s *appointmentService) Available(ctx context.Context, date string) ([]*model.AppointmentOption, error) {
	catalog, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load treatment catalog", "error", err)
		return nil, apperrors.Internal("Failed to load treatment catalog", err)
	}

	booked, err := s.bookings.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to load bookings", err)
	}

	return subtractBooked(catalog, booked), nil
}

// AvailableAggregated is the store-side strategy: one aggregation returns
// the pre-filtered catalog. Exists purely for throughput under large
// booking volumes; output is identical to Available for the same data.
func (s *appointmentService) AvailableAggregated(ctx context.Context, date string) ([]*model.AppointmentOption, error) {
	catalog, err := s.repo.AvailableByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to aggregate availability", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to resolve availability", err)
	}
	return catalog, nil
}

func (s *appointmentService) Specialties(ctx context.Context) ([]*model.OptionName, error) {
	names, err := s.repo.FindNames(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load specialties", "error", err)
		return nil, apperrors.Internal("Failed to load specialties", err)
	}
	return names, nil
}

// subtractBooked removes each option's already-booked slots for the
// requested date. Catalog order and the relative order of surviving slots
// are preserved, and no slot is ever introduced that the catalog does not
// contain.
func subtractBooked(catalog []*model.AppointmentOption, booked []*model.Booking) []*model.AppointmentOption {
	bookedSlots := make(map[string]map[string]struct{}, len(catalog))
	for _, b := range booked {
		slots, ok := bookedSlots[b.Treatment]
		if !ok {
			slots = make(map[string]struct{})
			bookedSlots[b.Treatment] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	resolved := make([]*model.AppointmentOption, 0, len(catalog))
	for _, option := range catalog {
		remaining := option.Slots
		if taken, ok := bookedSlots[option.Name]; ok {
			remaining = make([]string, 0, len(option.Slots))
			for _, slot := range option.Slots {
				if _, gone := taken[slot]; !gone {
					remaining = append(remaining, slot)
				}
			}
		}
		resolved = append(resolved, &model.AppointmentOption{
			ID:    option.ID,
			Name:  option.Name,
			Price: option.Price,
			Slots: remaining,
		})
	}

	return resolved
}
