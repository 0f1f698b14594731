package entity

type TravelBookingCreated_v1 struct {
	Header EventHeader `json:"header"`

	TravelBookingID string `json:"travel_booking_id"`
	CustomerEmail   string `json:"customer_email"`
	FlightBookingID string `json:"flight_booking_id"`
	TaxiBookingID   string `json:"taxi_booking_id"`
	HotelBookingID  string `json:"hotel_booking_id"`
}

type TravelBookingCreationFailed_v1 struct {
	Header EventHeader `json:"header"`

	CustomerEmail string `json:"customer_email"`
	FailedLeg     string `json:"failed_leg"`
	Compensated   bool   `json:"compensated"`

	// OrphanedBookingIDs lists remote bookings a compensating delete could
	// not remove. Non-empty only when Compensated is false.
	OrphanedBookingIDs []string `json:"orphaned_booking_ids"`
}

type TravelBookingDeleted_v1 struct {
	Header EventHeader `json:"header"`

	TravelBookingID string `json:"travel_booking_id"`
	CustomerEmail   string `json:"customer_email"`
}
