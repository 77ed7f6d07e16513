package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"username":"Admin","password":"secret","role":"admin"},{"username":"viewer","password":"pw"}]`), 0644))

	users, err := NewUserRepository(path).All()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Admin", users[0].Username)
	assert.Equal(t, "admin", users[1].EffectiveRole())
}

func TestUserRepositoryMissing(t *testing.T) {
	_, err := NewUserRepository(filepath.Join(t.TempDir(), "users.json")).All()
	assert.ErrorIs(t, err, ErrUserStoreMissing)
}

func TestUserRepositoryMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"username":"not-an-array"}`), 0644))

	_, err := NewUserRepository(path).All()
	assert.ErrorIs(t, err, ErrUserStoreMalformed)
}

func TestUserRepositorySkipsNonStringFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	content := `[
  {"username": "legacy", "password": 12345},
  {"username": "admin", "password": "secret"},
  {"username": ["x"], "password": "pw"}
]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	users, err := NewUserRepository(path).All()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
}
