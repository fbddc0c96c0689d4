package models

// LoginRequest is the body for /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body for /auth/register. The register endpoint
// takes the bare role name, without the ROLE_ prefix the JWT claims use.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"required,user_role"`
}
