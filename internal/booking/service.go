package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carhive/carhive/internal/downstream"
	"github.com/carhive/carhive/internal/notification"
)

// ErrCarUnavailable reports that the car cannot be booked for the requested
// date range.
var ErrCarUnavailable = errors.New("car not available for specified dates")

// ErrValidation reports missing booking input.
var ErrValidation = errors.New("validation")

// Service orchestrates a reservation: an availability check against the car
// service strictly precedes the create call to the booking service. The two
// calls are not transactional; the booking service owns final consistency.
type Service struct {
	cars     downstream.CarInventory
	bookings downstream.BookingStore
	notifier notification.Notifier
}

// NewService constructs a booking service.
func NewService(cars downstream.CarInventory, bookings downstream.BookingStore, notifier notification.Notifier) *Service {
	return &Service{cars: cars, bookings: bookings, notifier: notifier}
}

// BookInput captures the data needed to reserve a car for a user.
type BookInput struct {
	UserID    string
	CarID     string
	StartDate string
	EndDate   string
	Bearer    string
}

// Book checks availability and, only if the car is free, creates the
// reservation downstream. It returns the booking service's representation.
func (s *Service) Book(ctx context.Context, input BookInput) (json.RawMessage, error) {
	if input.CarID == "" || input.StartDate == "" || input.EndDate == "" {
		return nil, fmt.Errorf("%w: car_id, start_date and end_date are required", ErrValidation)
	}

	available, err := s.cars.Availability(ctx, input.CarID, input.StartDate, input.EndDate, input.Bearer)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrCarUnavailable
	}

	created, err := s.bookings.Create(ctx, downstream.CreateBookingInput{
		UserID:    input.UserID,
		CarID:     input.CarID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindBookingConfirmed,
			Destination: input.UserID,
			Body:        fmt.Sprintf("Car %s booked from %s to %s", input.CarID, input.StartDate, input.EndDate),
		})
	}

	return created, nil
}
