package domain

// Customer details are free-form and carried through to confirmation unchanged.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
