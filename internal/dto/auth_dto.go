package dto

import "github.com/Snorakx/loyalty-admin-panel/internal/auth"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type VerifyPasswordRequest struct {
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         auth.User `json:"user"`
}

type MeResponse struct {
	User        auth.User        `json:"user"`
	Permissions auth.Permissions `json:"permissions"`
}
