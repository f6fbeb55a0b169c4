package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileJSON_NeverExposesCredentials(t *testing.T) {
	profile := UserProfile{
		ID:        uuid.New(),
		Email:     "jane@example.com",
		FirstName: "Jane",
		Role:      RoleUser,
		Status:    StatusActive,
		CreatedAt: time.Now(),
	}

	raw, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "hash")
}

func TestUserAuthJSON_OmitsPasswordHash(t *testing.T) {
	auth := UserAuth{
		ID:           uuid.New(),
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$secret",
		Status:       StatusActive,
	}

	raw, err := json.Marshal(auth)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}

func TestAccountStatusScanValue(t *testing.T) {
	var s AccountStatus
	require.NoError(t, s.Scan("deactivated"))
	assert.Equal(t, StatusDeactivated, s)

	v, err := StatusActive.Value()
	require.NoError(t, err)
	assert.Equal(t, "active", v)

	assert.Error(t, s.Scan("suspended"))
	_, err = AccountStatus("suspended").Value()
	assert.Error(t, err)
}

func TestRoleScanValue(t *testing.T) {
	var r Role
	require.NoError(t, r.Scan([]byte("Admin")))
	assert.Equal(t, RoleAdmin, r)

	assert.Error(t, r.Scan("Superuser"))
}

func TestSearchUsersFilterIsZero(t *testing.T) {
	assert.True(t, SearchUsersFilter{}.IsZero())

	now := time.Now()
	assert.False(t, SearchUsersFilter{Email: "a"}.IsZero())
	assert.False(t, SearchUsersFilter{CreatedAt: &now}.IsZero())
	assert.False(t, SearchUsersFilter{Status: "active"}.IsZero())
}
