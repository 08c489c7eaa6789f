package models

// Operator is a dashboard user allowed to call the admin endpoints.
type Operator struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type OperatorResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (o *Operator) ToOperatorResponse() OperatorResponse {
	return OperatorResponse{
		ID:    o.ID,
		Email: o.Email,
		Name:  o.Name,
		Role:  o.Role,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  OperatorResponse `json:"user"`
}
