package userSettings

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dcorreia/accounthub/internal/types"
)

// UpdatePreferencesRequest is the expected JSON body for preference
// updates. All fields are optional.
type UpdatePreferencesRequest struct {
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	Language      *string `json:"language,omitempty"`
}

func (r UpdatePreferencesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Theme, validation.In(string(types.ThemeLight), string(types.ThemeDark))),
		validation.Field(&r.Language, validation.In(string(types.LanguageEN), string(types.LanguageES))),
	)
}
