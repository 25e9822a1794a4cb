package domain

import "time"

// TokenIDLength is the exact length of a token id. Ids are drawn from the
// lowercase alphanumeric alphabet, so the id doubles as a safe storage key.
const TokenIDLength = 20

// Token is the record stored in the tokens collection, keyed by ID.
// Phone is a non-owning back-reference: a token may outlive its user.
// A token is valid only while Expires is strictly in the future.
type Token struct {
	ID      string    `json:"id"`
	Phone   string    `json:"phone"`
	Expires time.Time `json:"expires"`
}

type CreateTokenRequest struct {
	Phone    string `json:"phone" validate:"required,len=10,number"`
	Password string `json:"password" validate:"required"`
}

// ExtendTokenRequest requires an explicit intent flag so a bare PUT cannot
// silently push a token's expiry forward.
type ExtendTokenRequest struct {
	ID     string `json:"id" validate:"required,len=20,alphanum"`
	Extend bool   `json:"extend" validate:"eq=true"`
}
