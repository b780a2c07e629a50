package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Storage keys. Cart and identity live under separate keys so clearing one
// never touches the other.
const (
	KeyCart  = "cart"
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNoValue is returned when a key has never been set.
var ErrNoValue = errors.New("no stored value")

// Storage is durable client-side state: one JSON file per key under a state
// directory. It survives restarts; concurrent writers are not coordinated,
// so the last writer wins.
type Storage struct {
	dir string
}

// NewStorage creates the state directory if needed.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get decodes the stored value for key into out. Returns ErrNoValue when the
// key has never been set.
func (s *Storage) Get(key string, out interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoValue
		}
		return err
	}
	return json.Unmarshal(data, out)
}

// Set stores a value under key, replacing any previous value.
func (s *Storage) Set(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	return os.WriteFile(s.path(key), data, 0o600)
}

// Delete removes a key. Deleting an absent key is not an error.
func (s *Storage) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
