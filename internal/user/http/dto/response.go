package dto

import (
	"time"

	"github.com/allisson/rememberme/internal/httputil"
)

// UserResponse is the external representation of a user. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Birthday  string    `json:"birthday,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse wraps a page of users. Next is set only when the page came back full.
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
	Page httputil.Page  `json:"page"`
	Next *httputil.Page `json:"next,omitempty"`
}
