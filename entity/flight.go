package entity

type Flight struct {
	FlightID    string `json:"flight_id" db:"flight_id"`
	Number      string `json:"number" db:"number"`
	Departure   string `json:"departure" db:"departure"`
	Destination string `json:"destination" db:"destination"`
}
