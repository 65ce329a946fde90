// Package keystore holds the wallet's private key material on disk with
// restrictive permissions. An environment variable can override the file for
// throwaway keys.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	dirMode  = 0o700
	fileMode = 0o600

	// EnvKey overrides the on-disk key when set.
	EnvKey = "NOTEWIRE_PRIVATE_KEY"
)

var ErrNoKey = errors.New("no wallet key configured")

type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Load returns the key hex, preferring the environment override.
func (s *FileStore) Load(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if env := strings.TrimSpace(os.Getenv(EnvKey)); env != "" {
		return env, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: no key file at %s and %s is unset", ErrNoKey, s.path, EnvKey)
		}
		return "", fmt.Errorf("read key file: %w", err)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", fmt.Errorf("%w: key file %s is empty", ErrNoKey, s.path)
	}
	return key, nil
}

func (s *FileStore) Store(ctx context.Context, keyHex string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(strings.TrimSpace(keyHex)+"\n"), fileMode); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove key file: %w", err)
	}
	return nil
}
