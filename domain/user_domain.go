package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "login successful"
	MessageSuccessSendVerify     = "verification email sent successfully"
	MessageSuccessVerifyEmail    = "email verified successfully"
	MessageSuccessGetProfile     = "profile retrieved successfully"
	MessageSuccessUpdateUser     = "profile updated successfully"

	MessageFailedRegister    = "failed to register user"
	MessageFailedLogin       = "failed to login"
	MessageFailedSendVerify  = "failed to send verification email"
	MessageFailedVerifyEmail = "failed to verify email"
	MessageFailedGetProfile  = "failed to retrieve profile"
	MessageFailedUpdateUser  = "failed to update profile"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrWrongCredentials   = errors.New("wrong email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAlreadyVerified    = errors.New("email already verified")
)

type (
	RegisterRequest struct {
		FullName string `json:"full_name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	SendVerifyRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	UpdateUserRequest struct {
		FullName string `json:"full_name" validate:"omitempty"`
		Password string `json:"password" validate:"omitempty,min=8"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		FullName  string    `json:"full_name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		Verified  bool      `json:"verified"`
		CreatedAt time.Time `json:"created_at"`
	}
)
