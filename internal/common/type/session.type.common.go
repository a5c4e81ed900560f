package types

// AdminWithAuth is the identity carried by an admin settings token.
type AdminWithAuth struct {
	Subject string `json:"sub" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=admin"`
}
