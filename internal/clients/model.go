// Package clients manages the companies and persons that contract projects.
package clients

import "time"

// Client is a company or person that contracts projects.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	Country   string    `json:"country" db:"country"`
	Contact   string    `json:"contact" db:"contact"`
	TaxID     string    `json:"tax_id" db:"tax_id"`
	Notes     string    `json:"notes" db:"notes"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
