package domain

// User is the record stored in the users collection, keyed by phone number.
// PasswordHash is persisted but must never reach a caller: services zero it
// before returning and the transport layer serializes a hash-free view.
type User struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"passwordHash"`
	TOSAgreement bool   `json:"tosAgreement"`
}

type CreateUserRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Phone        string `json:"phone" validate:"required,len=10,number"`
	Password     string `json:"password" validate:"required"`
	TOSAgreement bool   `json:"tosAgreement" validate:"eq=true"`
}

// UpdateUserRequest carries the optional fields of a user update.
// At least one must be set; the service enforces that.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1"`
	Password  *string `json:"password" validate:"omitempty,min=1"`
}
