package clients

// CreateClientRequest is the payload for registering a client.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Address string `json:"address" validate:"max=300"`
	City    string `json:"city" validate:"max=120"`
	Country string `json:"country" validate:"max=120"`
	Contact string `json:"contact" validate:"max=200"`
	TaxID   string `json:"tax_id" validate:"max=40"`
	Notes   string `json:"notes" validate:"max=2000"`
}

// UpdateClientRequest is the payload for editing a client.
type UpdateClientRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Address string `json:"address" validate:"max=300"`
	City    string `json:"city" validate:"max=120"`
	Country string `json:"country" validate:"max=120"`
	Contact string `json:"contact" validate:"max=200"`
	TaxID   string `json:"tax_id" validate:"max=40"`
	Notes   string `json:"notes" validate:"max=2000"`
	Active  bool   `json:"active"`
}

// ListFilter narrows client listings.
type ListFilter struct {
	Search     string
	OnlyActive bool
}
