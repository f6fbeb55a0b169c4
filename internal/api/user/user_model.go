package user

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dcorreia/accounthub/internal/types"
)

// InsertUserRecord is the fully-resolved record handed to the store on
// account creation: password already hashed, preference defaults applied.
type InsertUserRecord struct {
	Email         string
	PasswordHash  string
	Title         string
	FirstName     string
	LastName      string
	Role          types.Role
	ProfilePic    string
	Theme         types.Theme
	Notifications bool
	Language      types.Language
	Permission    string
}

// UpdateUserRecord is the store-facing partial update. The service
// translates a plaintext Password into PasswordHash before it gets here.
type UpdateUserRecord struct {
	Title        *string
	FirstName    *string
	LastName     *string
	Email        *string
	Role         *types.Role
	PasswordHash *string
	ProfilePic   *string
}

// CreateUserRequest is the expected JSON body for account creation.
type CreateUserRequest struct {
	Title           string `json:"title"`
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	Role            string `json:"role"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ProfilePic      string `json:"profile_pic"`
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
		validation.Field(&r.Role, validation.Required, validation.In(string(types.RoleAdmin), string(types.RoleUser))),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&r.ConfirmPassword, validation.Required, validation.In(r.Password).Error("must match password")),
		validation.Field(&r.ProfilePic, validation.Required),
	)
}

// UpdateUserRequest is the expected JSON body for account updates. All
// fields are optional; a present password must come with a matching
// confirmation.
type UpdateUserRequest struct {
	Title           *string `json:"title,omitempty"`
	FirstName       *string `json:"firstname,omitempty"`
	LastName        *string `json:"lastname,omitempty"`
	Email           *string `json:"email,omitempty"`
	Role            *string `json:"role,omitempty"`
	Password        *string `json:"password,omitempty"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
	ProfilePic      *string `json:"profile_pic,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	fields := []*validation.FieldRules{
		validation.Field(&r.Email, is.Email),
		validation.Field(&r.Role, validation.In(string(types.RoleAdmin), string(types.RoleUser))),
		validation.Field(&r.Password, validation.Length(6, 0)),
	}
	if r.Password != nil {
		fields = append(fields,
			validation.Field(&r.ConfirmPassword,
				validation.Required.Error("is required when password is set"),
				validation.In(*r.Password).Error("must match password")))
	}
	return validation.ValidateStruct(&r, fields...)
}

// UpdateRoleRequest is the body of the role-only update route.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (r UpdateRoleRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(string(types.RoleAdmin), string(types.RoleUser))),
	)
}
