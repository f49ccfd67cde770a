package users

// CreateUserRequest is the payload for registering a new account.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=120"`
	LastName  string `json:"last_name" validate:"max=120"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Admin     bool   `json:"admin"`
}

// UpdateUserRequest is the payload for editing an account.
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,max=120"`
	LastName  string `json:"last_name" validate:"max=120"`
	Admin     bool   `json:"admin"`
	Active    bool   `json:"active"`
}

// ChangePasswordRequest replaces an account's password.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}
