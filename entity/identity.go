package entity

// TravelAgentIdentity is the customer profile the service registers in the
// taxi and hotel services so it has an actor to book on behalf of. It is
// shared infrastructure, not per-traveller state.
func TravelAgentIdentity() Customer {
	return Customer{
		Name:        "TravelAgent",
		Email:       "travel-agent@travelagent.io",
		PhoneNumber: "01234567890",
	}
}
