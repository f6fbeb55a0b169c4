package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- ENUM Types ---

// Role represents the DB ENUM 'user_role'.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Scan implements the sql.Scanner interface for Role.
func (r *Role) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan Role: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	switch Role(strVal) {
	case RoleAdmin, RoleUser:
		*r = Role(strVal)
		return nil
	default:
		return fmt.Errorf("unknown Role value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for Role.
func (r Role) Value() (driver.Value, error) {
	switch r {
	case RoleAdmin, RoleUser:
		return string(r), nil
	default:
		return nil, fmt.Errorf("invalid Role value: %s", r)
	}
}

// AccountStatus represents the DB ENUM 'account_status'.
// The enum is canonical; there is no boolean alias in the schema.
type AccountStatus string

const (
	StatusActive      AccountStatus = "active"
	StatusDeactivated AccountStatus = "deactivated"
)

// Scan implements the sql.Scanner interface for AccountStatus.
func (s *AccountStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan AccountStatus: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	switch AccountStatus(strVal) {
	case StatusActive, StatusDeactivated:
		*s = AccountStatus(strVal)
		return nil
	default:
		return fmt.Errorf("unknown AccountStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for AccountStatus.
func (s AccountStatus) Value() (driver.Value, error) {
	switch s {
	case StatusActive, StatusDeactivated:
		return string(s), nil
	default:
		return nil, fmt.Errorf("invalid AccountStatus value: %s", s)
	}
}

// Theme represents the DB ENUM 'theme_pref'.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Scan implements the sql.Scanner interface for Theme.
func (t *Theme) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan Theme: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	switch Theme(strVal) {
	case ThemeLight, ThemeDark:
		*t = Theme(strVal)
		return nil
	default:
		return fmt.Errorf("unknown Theme value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for Theme.
func (t Theme) Value() (driver.Value, error) {
	switch t {
	case ThemeLight, ThemeDark:
		return string(t), nil
	default:
		return nil, fmt.Errorf("invalid Theme value: %s", t)
	}
}

// Language represents the DB ENUM 'language_pref'.
type Language string

const (
	LanguageEN Language = "en"
	LanguageES Language = "es"
)

// Scan implements the sql.Scanner interface for Language.
func (l *Language) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan Language: expected string or []byte, got %T", value)
		}
		strVal = string(bytesVal)
	}
	switch Language(strVal) {
	case LanguageEN, LanguageES:
		*l = Language(strVal)
		return nil
	default:
		return fmt.Errorf("unknown Language value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for Language.
func (l Language) Value() (driver.Value, error) {
	switch l {
	case LanguageEN, LanguageES:
		return string(l), nil
	default:
		return nil, fmt.Errorf("invalid Language value: %s", l)
	}
}

// Preference defaults applied at creation when the caller omits them.
const (
	DefaultTheme      = ThemeLight
	DefaultLanguage   = LanguageEN
	DefaultPermission = "Revoke"
)

// --- Structs ---

// UserProfile is the default read projection of a user record.
// The credential hash is never part of this projection.
type UserProfile struct {
	ID            uuid.UUID     `json:"id"`
	Email         string        `json:"email"`
	Title         string        `json:"title"`
	FirstName     string        `json:"firstname"`
	LastName      string        `json:"lastname"`
	Role          Role          `json:"role"`
	ProfilePic    string        `json:"profile_pic"`
	Theme         Theme         `json:"theme"`
	Notifications bool          `json:"notifications"`
	Language      Language      `json:"language"`
	Status        AccountStatus `json:"status"`
	Permission    string        `json:"permission"`
	Privileges    *string       `json:"privileges,omitempty"`
	Securable     *string       `json:"securable,omitempty"`
	LastLoginAt   *time.Time    `json:"last_login_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// UserAuth is the with-credential projection, used only by the
// authentication flow. Never returned to external callers.
type UserAuth struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	FirstName    string        `json:"firstname"`
	PasswordHash string        `json:"-"`
	Status       AccountStatus `json:"status"`
}

// CreateUserParams carries the validated input for account creation.
// Password confirmation matching is enforced by the request validator
// before this struct reaches the service.
type CreateUserParams struct {
	Title      string `json:"title"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Role       Role   `json:"role"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ProfilePic string `json:"profile_pic"`
}

// UpdateUserParams defines the fields allowed for account updates.
// Pointers allow partial updates (only provided fields are applied,
// last-write-wins per field). A present Password is re-hashed by the
// service; plaintext is never persisted.
type UpdateUserParams struct {
	Title      *string `json:"title,omitempty"`
	FirstName  *string `json:"firstname,omitempty"`
	LastName   *string `json:"lastname,omitempty"`
	Email      *string `json:"email,omitempty"`
	Role       *Role   `json:"role,omitempty"`
	Password   *string `json:"password,omitempty"`
	ProfilePic *string `json:"profile_pic,omitempty"`
}

// UserPreferences is the narrow preference slice of a user record.
type UserPreferences struct {
	ID            uuid.UUID `json:"id"`
	Theme         Theme     `json:"theme"`
	Notifications bool      `json:"notifications"`
	Language      Language  `json:"language"`
}

// UpdatePreferencesParams defines the fields allowed for preference updates.
type UpdatePreferencesParams struct {
	Theme         *Theme    `json:"theme,omitempty"`
	Notifications *bool     `json:"notifications,omitempty"`
	Language      *Language `json:"language,omitempty"`
}

// UserPermission is the narrow permission slice of a user record. The
// values are free-form authorization metadata not interpreted here.
type UserPermission struct {
	ID         uuid.UUID `json:"id"`
	Permission string    `json:"permission"`
	Privileges *string   `json:"privileges,omitempty"`
	Securable  *string   `json:"securable,omitempty"`
}

// UpdatePermissionParams defines the fields allowed for permission updates.
type UpdatePermissionParams struct {
	Permission *string `json:"permission,omitempty"`
	Privileges *string `json:"privileges,omitempty"`
	Securable  *string `json:"securable,omitempty"`
}

// SearchUsersFilter is the typed filter set for filtered search. Empty
// string fields and nil time fields mean "not filtered". FullName is
// mutually exclusive with FirstName/LastName; when present the discrete
// name filters are ignored.
type SearchUsersFilter struct {
	Email       string
	Title       string
	FirstName   string
	LastName    string
	FullName    string
	Role        string
	Status      string
	CreatedAt   *time.Time
	LastLoginAt *time.Time
}

// IsZero reports whether no filter field is set.
func (f SearchUsersFilter) IsZero() bool {
	return f.Email == "" && f.Title == "" && f.FirstName == "" && f.LastName == "" &&
		f.FullName == "" && f.Role == "" && f.Status == "" &&
		f.CreatedAt == nil && f.LastLoginAt == nil
}

// Response is the generic envelope for simple success/error messages.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
