package authValidator

import (
	"github.com/gofiber/fiber/v2"

	"trainr/validators"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=STUDENT INSTRUCTOR"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return validators.Body("validatedUser", &SignupRequest{})
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body("validatedLogin", &LoginRequest{})
}
