package auth

import (
	"github.com/adityakhanna/trendora-backend/internal/users"
)

// CheckRequest carries the mobile number presented at sign-in.
type CheckRequest struct {
	Mobile string `json:"mobile" validate:"required,min=8,max=16"`
}

// RegisterRequest captures the payload for creating a new customer account.
type RegisterRequest struct {
	Mobile string `json:"mobile" validate:"required,min=8,max=16"`
	Name   string `json:"name" validate:"required,min=1,max=120"`
}

// AdminLoginRequest captures the back-office credentials.
type AdminLoginRequest struct {
	Mobile   string `json:"mobile" validate:"required,min=8,max=16"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest rotates an expired access token using its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionResponse contains the token pair and user returned by every
// successful authentication.
type SessionResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	User         *users.UserDTO `json:"user"`
}

// CheckResponse reports whether the mobile number is registered; when it
// is, the session is established in the same round trip.
type CheckResponse struct {
	Exists  bool             `json:"exists"`
	Session *SessionResponse `json:"session,omitempty"`
}
