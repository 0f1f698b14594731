package entity

import "time"

type Booking struct {
	BookingID  string    `json:"booking_id" db:"booking_id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	FlightID   string    `json:"flight_id" db:"flight_id"`
	Date       time.Time `json:"date" db:"flight_date"`
}

// BookingRequest is the payload sent to a booking service to create a booking.
// Each service enforces its own flight+date uniqueness rule on it.
type BookingRequest struct {
	CustomerID string    `json:"customer_id"`
	FlightID   string    `json:"flight_id"`
	Date       time.Time `json:"date"`
}
