package auth

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dcorreia/accounthub/internal/types"
)

// LoginRequest is the expected JSON body for the login route.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries the signed access token and the authenticated
// user's default profile projection.
type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	User        *types.UserProfile `json:"user"`
}

// ChangePasswordRequest is the expected JSON body for the password route.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 0)),
		validation.Field(&r.ConfirmNewPassword, validation.Required, validation.In(r.NewPassword).Error("must match new password")),
	)
}
