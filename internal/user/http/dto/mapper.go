package dto

import (
	"github.com/allisson/rememberme/internal/httputil"
	"github.com/allisson/rememberme/internal/user/domain"
	"github.com/allisson/rememberme/internal/user/usecase"
	appValidation "github.com/allisson/rememberme/internal/validation"
)

// ToRegisterUserInput converts a registration request into use case input. Public
// registration always produces a regular user.
func ToRegisterUserInput(req RegisterUserRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		Phone:          req.Phone,
		Birthday:       req.Birthday,
		Password:       req.Password,
		PasswordRetype: req.PasswordRetype,
		Role:           domain.RoleUser,
	}
}

// ToUpdateProfileInput converts a profile request into use case input.
func ToUpdateProfileInput(req UpdateProfileRequest) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
		Birthday: req.Birthday,
	}
}

// ToUserResponse converts a domain user into its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	response := UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Surname:   user.Surname,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Birthday != nil {
		response.Birthday = user.Birthday.Format(appValidation.DateLayout)
	}
	return response
}

// ToListUsersResponse converts the users returned for page.
func ToListUsersResponse(users []*domain.User, page httputil.Page) ListUsersResponse {
	data := make([]UserResponse, 0, len(users))
	for _, user := range users {
		data = append(data, ToUserResponse(user))
	}

	response := ListUsersResponse{Data: data, Page: page}
	if page.Limit > 0 && len(users) == page.Limit {
		next := page.Next()
		response.Next = &next
	}
	return response
}
