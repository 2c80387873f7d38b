package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// LoginInput carries the login verb's arguments.
type LoginInput struct {
	Email    string
	Password string
}

func (i LoginInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required),
	)
}

// FirstLoginInput completes a NEW_PASSWORD_REQUIRED challenge.
type FirstLoginInput struct {
	Email        string
	TempPassword string
	NewPassword  string
}

func (i FirstLoginInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.TempPassword, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// RegisterInput creates a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func (i RegisterInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&i.Name, validation.Required, validation.Length(1, 200)),
	)
}

// ResetRequestInput starts the forgot-password flow.
type ResetRequestInput struct {
	Email string
}

func (i ResetRequestInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
	)
}

// ResetConfirmInput redeems a dispatched reset code.
type ResetConfirmInput struct {
	Email       string
	Code        string
	NewPassword string
}

func (i ResetConfirmInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Code, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}
