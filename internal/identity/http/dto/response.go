package dto

import "github.com/allisson/rememberme/internal/identity/domain"

// PrincipalResponse describes the identity a request carries.
type PrincipalResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Source string `json:"source"`
}

// MapPrincipalToResponse converts a principal. The session id is never echoed back.
func MapPrincipalToResponse(principal *domain.Principal) PrincipalResponse {
	return PrincipalResponse{
		UserID: principal.UserID.String(),
		Email:  principal.Email,
		Name:   principal.Name,
		Role:   string(principal.Role),
		Source: string(principal.Source),
	}
}
