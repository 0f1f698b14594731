package entity

import (
	"context"
	"fmt"
)

// TravelBooking ties together the three bookings of one travel package.
// The taxi and hotel bookings belong to their own services, so only their
// ids are stored; the flight booking is kept as a snapshot.
type TravelBooking struct {
	TravelBookingID string   `json:"travel_booking_id"`
	Customer        Customer `json:"customer"`
	FlightBooking   Booking  `json:"flight_booking"`
	TaxiBookingID   string   `json:"taxi_booking_id"`
	HotelBookingID  string   `json:"hotel_booking_id"`
}

func NewTravelBooking(
	customer Customer,
	flightBooking Booking,
	taxiBookingID string,
	hotelBookingID string,
) (*TravelBooking, error) {
	if customer.Email == "" {
		return nil, fmt.Errorf("customer email must be set")
	}
	if flightBooking.BookingID == "" {
		return nil, fmt.Errorf("flight booking id must be set")
	}
	if taxiBookingID == "" {
		return nil, fmt.Errorf("taxi booking id must be set")
	}
	if hotelBookingID == "" {
		return nil, fmt.Errorf("hotel booking id must be set")
	}

	return &TravelBooking{
		Customer:       customer,
		FlightBooking:  flightBooking,
		TaxiBookingID:  taxiBookingID,
		HotelBookingID: hotelBookingID,
	}, nil
}

type TravelBookingRepository interface {
	Create(ctx context.Context, travelBooking TravelBooking) (TravelBooking, error)
	FindByID(ctx context.Context, travelBookingID string) (TravelBooking, error)
	FindAll(ctx context.Context) ([]TravelBooking, error)
	Delete(ctx context.Context, travelBookingID string) error
}
