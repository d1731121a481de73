// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/rememberme/internal/validation"
)

// RegisterUserRequest is the body of POST /register.
type RegisterUserRequest struct {
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Birthday       string `json:"birthday"`
	Password       string `json:"password"`
	PasswordRetype string `json:"password_retype"`
}

// Validate checks that required fields are present. Format and strength rules run in the use case.
func (r *RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
		validation.Field(&r.PasswordRetype,
			validation.Required.Error("password confirmation is required"),
		),
	)
}

// UpdateProfileRequest is the body of PUT /profile.
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	Birthday string `json:"birthday"`
}

// Validate checks that the name is present.
func (r *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
		),
	)
}
