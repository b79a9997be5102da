package handler

import "github.com/wperaltaarriaga/songs-api/internal/core/domain"

// Request/response types for the users endpoints. Structural checks live in
// the validate tags; domain rules (email blocklist, age floor, role set)
// are enforced by the service so API and service agree on one message shape.

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Age      int    `json:"age"      validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateUserRequest is body-addressed: the target id travels in the payload.
// Pointer fields distinguish "not supplied" from a zero value.
type updateUserRequest struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      *int   `json:"age"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool  `json:"is_active"`
}

func (r updateUserRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Age:      r.Age,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

type updateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
	Total int            `json:"total"`
}

type messageResponse struct {
	Message string `json:"message"`
}
