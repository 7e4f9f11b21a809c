package service

import (
	"context"
	"reflect"
	"testing"
	"time"

	"docportal/pkg/config"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

// Mock repository and booking source for testing

type mockOptionRepository struct {
	findAllFunc         func(ctx context.Context) ([]*model.AppointmentOption, error)
	findNamesFunc       func(ctx context.Context) ([]*model.OptionName, error)
	availableByDateFunc func(ctx context.Context, date string) ([]*model.AppointmentOption, error)
}

func (m *mockOptionRepository) FindAll(ctx context.Context) ([]*model.AppointmentOption, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.AppointmentOption{}, nil
}

func (m *mockOptionRepository) FindNames(ctx context.Context) ([]*model.OptionName, error) {
	if m.findNamesFunc != nil {
		return m.findNamesFunc(ctx)
	}
	return []*model.OptionName{}, nil
}

func (m *mockOptionRepository) AvailableByDate(ctx context.Context, date string) ([]*model.AppointmentOption, error) {
	if m.availableByDateFunc != nil {
		return m.availableByDateFunc(ctx, date)
	}
	return []*model.AppointmentOption{}, nil
}

type mockBookingSource struct {
	findByDateFunc func(ctx context.Context, date string) ([]*model.Booking, error)
}

func (m *mockBookingSource) FindByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, date)
	}
	return []*model.Booking{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Service: "test",
		}),
	}
}

func fixtureCatalog() []*model.AppointmentOption {
	return []*model.AppointmentOption{
		{Name: "Braces", Price: 300, Slots: []string{"9AM", "10AM", "11AM"}},
		{Name: "Teeth Cleaning", Price: 80, Slots: []string{"9AM", "10AM"}},
		{Name: "Cavity Protection", Price: 120, Slots: []string{"1PM", "2PM", "3PM"}},
	}
}

func newTestService(catalog []*model.AppointmentOption, bookings []*model.Booking) AppointmentService {
	repo := &mockOptionRepository{
		findAllFunc: func(ctx context.Context) ([]*model.AppointmentOption, error) {
			return catalog, nil
		},
	}
	source := &mockBookingSource{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.Booking, error) {
			matched := []*model.Booking{}
			for _, b := range bookings {
				if b.AppointmentDate == date {
					matched = append(matched, b)
				}
			}
			return matched, nil
		},
	}
	return NewAppointmentService(repo, source, testConfig())
}

func TestAvailable_RemovesBookedSlots(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	resolved, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resolved) != 3 {
		t.Fatalf("expected 3 options, got %d", len(resolved))
	}

	want := []string{"9AM", "11AM"}
	if !reflect.DeepEqual(resolved[0].Slots, want) {
		t.Errorf("Braces slots = %v, want %v", resolved[0].Slots, want)
	}
}

func TestAvailable_BookedSlotIsScopedToItsTreatment(t *testing.T) {
	// 9AM is booked for Braces only; Teeth Cleaning keeps its own 9AM.
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "9AM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	resolved, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(resolved[1].Slots, []string{"9AM", "10AM"}) {
		t.Errorf("Teeth Cleaning slots = %v, want all slots open", resolved[1].Slots)
	}
}

func TestAvailable_OutputIsSubsetOfCatalog(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
		{Email: "b@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "noon"}, // not in catalog
	}
	service := newTestService(fixtureCatalog(), bookings)

	resolved, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	catalog := fixtureCatalog()
	for i, option := range resolved {
		allowed := make(map[string]bool)
		for _, slot := range catalog[i].Slots {
			allowed[slot] = true
		}
		for _, slot := range option.Slots {
			if !allowed[slot] {
				t.Errorf("option %s reports slot %q absent from catalog", option.Name, slot)
			}
		}
	}
}

func TestAvailable_PreservesCatalogAndSlotOrder(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Cavity Protection", AppointmentDate: "Jan 1, 2024", Slot: "2PM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	resolved, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNames := []string{"Braces", "Teeth Cleaning", "Cavity Protection"}
	for i, option := range resolved {
		if option.Name != wantNames[i] {
			t.Errorf("option %d = %s, want %s", i, option.Name, wantNames[i])
		}
	}

	if !reflect.DeepEqual(resolved[2].Slots, []string{"1PM", "3PM"}) {
		t.Errorf("Cavity Protection slots = %v, want [1PM 3PM] in original order", resolved[2].Slots)
	}
}

func TestAvailable_UnmatchedDateFailsOpen(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	// An empty date matches no bookings, so every slot stays open.
	resolved, err := service.Available(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	catalog := fixtureCatalog()
	for i, option := range resolved {
		if !reflect.DeepEqual(option.Slots, catalog[i].Slots) {
			t.Errorf("option %s slots = %v, want full catalog %v", option.Name, option.Slots, catalog[i].Slots)
		}
	}
}

func TestAvailable_Idempotent(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
		{Email: "b@x.com", Treatment: "Teeth Cleaning", AppointmentDate: "Jan 1, 2024", Slot: "9AM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	first, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolving the same snapshot twice diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAvailable_FullyBookedTreatmentHasNoSlots(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Teeth Cleaning", AppointmentDate: "Jan 1, 2024", Slot: "9AM"},
		{Email: "b@x.com", Treatment: "Teeth Cleaning", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	resolved, err := service.Available(context.Background(), "Jan 1, 2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resolved[1].Slots) != 0 {
		t.Errorf("expected no remaining slots, got %v", resolved[1].Slots)
	}
	// The treatment itself stays in the catalog output.
	if resolved[1].Name != "Teeth Cleaning" {
		t.Errorf("fully booked treatment dropped from output")
	}
}

func TestAvailable_DoesNotMutateCatalog(t *testing.T) {
	catalog := fixtureCatalog()
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
	}
	service := newTestService(catalog, bookings)

	if _, err := service.Available(context.Background(), "Jan 1, 2024"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(catalog[0].Slots, []string{"9AM", "10AM", "11AM"}) {
		t.Errorf("catalog mutated in place: %v", catalog[0].Slots)
	}
}

func TestSubtractBooked_MatchesAggregatedStrategy(t *testing.T) {
	// Host-side subtraction and the store-side pipeline must agree. The
	// pipeline's semantics (join on treatment+date, order-preserving
	// filter) are emulated here over the same fixtures.
	catalog := fixtureCatalog()
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
		{Email: "b@x.com", Treatment: "Cavity Protection", AppointmentDate: "Jan 1, 2024", Slot: "1PM"},
		{Email: "c@x.com", Treatment: "Braces", AppointmentDate: "Jan 2, 2024", Slot: "9AM"}, // other date
	}

	date := "Jan 1, 2024"
	sameDate := []*model.Booking{}
	for _, b := range bookings {
		if b.AppointmentDate == date {
			sameDate = append(sameDate, b)
		}
	}

	hostSide := subtractBooked(catalog, sameDate)

	storeSide := make([]*model.AppointmentOption, 0, len(catalog))
	for _, option := range catalog {
		joined := []string{}
		for _, b := range sameDate {
			if b.Treatment == option.Name {
				joined = append(joined, b.Slot)
			}
		}
		remaining := []string{}
		for _, slot := range option.Slots {
			taken := false
			for _, booked := range joined {
				if slot == booked {
					taken = true
					break
				}
			}
			if !taken {
				remaining = append(remaining, slot)
			}
		}
		storeSide = append(storeSide, &model.AppointmentOption{
			Name:  option.Name,
			Price: option.Price,
			Slots: remaining,
		})
	}

	if len(hostSide) != len(storeSide) {
		t.Fatalf("strategy outputs differ in length: %d vs %d", len(hostSide), len(storeSide))
	}
	for i := range hostSide {
		if hostSide[i].Name != storeSide[i].Name ||
			hostSide[i].Price != storeSide[i].Price ||
			!reflect.DeepEqual(hostSide[i].Slots, storeSide[i].Slots) {
			t.Errorf("strategies diverge at option %d:\nhost:  %+v\nstore: %+v",
				i, hostSide[i], storeSide[i])
		}
	}
}

func TestSpecialties_ProjectsNamesOnly(t *testing.T) {
	repo := &mockOptionRepository{
		findNamesFunc: func(ctx context.Context) ([]*model.OptionName, error) {
			return []*model.OptionName{
				{Name: "Braces"},
				{Name: "Teeth Cleaning"},
			}, nil
		},
	}
	service := NewAppointmentService(repo, &mockBookingSource{}, testConfig())

	names, err := service.Specialties(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 2 || names[0].Name != "Braces" {
		t.Errorf("unexpected specialties: %+v", names)
	}
}

func TestAvailable_ConcurrentResolution(t *testing.T) {
	bookings := []*model.Booking{
		{Email: "a@x.com", Treatment: "Braces", AppointmentDate: "Jan 1, 2024", Slot: "10AM"},
	}
	service := newTestService(fixtureCatalog(), bookings)

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			resolved, err := service.Available(context.Background(), "Jan 1, 2024")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if !reflect.DeepEqual(resolved[0].Slots, []string{"9AM", "11AM"}) {
				t.Errorf("unexpected slots under concurrency: %v", resolved[0].Slots)
			}
		}()
	}

	timeout := time.After(5 * time.Second)
	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-timeout:
			t.Fatal("concurrent resolution timed out")
		}
	}
}
