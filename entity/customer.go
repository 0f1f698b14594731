package entity

type Customer struct {
	CustomerID  string `json:"customer_id" db:"customer_id"`
	Name        string `json:"name" db:"name"`
	Email       string `json:"email" db:"email"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`
}
