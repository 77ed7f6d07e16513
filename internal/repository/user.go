package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/templui/datanexus/internal/model"
)

var (
	ErrUserStoreMissing   = errors.New("user store is missing")
	ErrUserStoreMalformed = errors.New("user store is malformed")
)

type UserRepository interface {
	// All returns every user, read fresh from the backing file.
	All() ([]model.User, error)
}

type userRepository struct {
	path string
}

// NewUserRepository reads users from a JSON array file at path.
func NewUserRepository(path string) UserRepository {
	return &userRepository{path: path}
}

func (r *userRepository) All() ([]model.User, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: seed %s", ErrUserStoreMissing, r.path)
		}
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}

	var entries []json.RawMessage
	err = json.Unmarshal(data, &entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserStoreMalformed, err)
	}

	// entries with non-string fields can never log in and are skipped
	users := make([]model.User, 0, len(entries))
	for i, entry := range entries {
		var user model.User
		err = json.Unmarshal(entry, &user)
		if err != nil {
			slog.Warn("skipping malformed user entry", "index", i, "error", err)
			continue
		}
		users = append(users, user)
	}

	return users, nil
}
