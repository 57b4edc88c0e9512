package domain

import "time"

// Customer is resolved from the customer directory; orders reference it by id
// and never own or cascade it.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
