package domain

import "time"

// Store is a physical outlet with its own catalog
type Store struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	HasPassword  bool   `json:"hasPassword"`
	PasswordHash string `json:"-"`
}

// Customer is a buyer that can be attached to A/B tickets
type Customer struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	CUIT      string    `json:"cuit"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
