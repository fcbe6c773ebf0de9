package dto

import (
	"strings"

	userDTO "kelasku_backend/internals/features/users/user/dto"
)

type RegisterRequest struct {
	UserName     string `json:"user_name" validate:"required,min=2,max=100"`
	UserEmail    string `json:"user_email" validate:"required,email"`
	UserPassword string `json:"user_password" validate:"required,min=8,max=72"`
}

func (r *RegisterRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.UserEmail = strings.ToLower(strings.TrimSpace(r.UserEmail))
}

type LoginRequest struct {
	UserEmail    string `json:"user_email" validate:"required,email"`
	UserPassword string `json:"user_password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.UserEmail = strings.ToLower(strings.TrimSpace(r.UserEmail))
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken string           `json:"access_token"`
	User        userDTO.UserResp `json:"user"`
}
