package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// maxUniqueAttempts bounds the name_1, name_2, ... search.
const maxUniqueAttempts = 1000

// Storage keeps uploaded résumé files under one root directory.
type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

// SaveUnique writes content as dir/name, adding _1, _2, ... before the
// extension when the name is taken. It returns the key it stored under.
func (s *Storage) SaveUnique(dir, name string, content []byte) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for attempt := 0; attempt < maxUniqueAttempts; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, attempt, ext)
		}

		key := path.Join(dir, candidate)
		resolved, err := s.validator.ResolvePath(key)
		if err != nil {
			return "", err
		}

		if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
			return "", fmt.Errorf("create parent directory: %w", err)
		}

		file, err := os.OpenFile(resolved, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		if _, err := file.Write(content); err != nil {
			_ = file.Close()
			_ = os.Remove(resolved)
			return "", fmt.Errorf("write %q: %w", key, err)
		}
		if err := file.Close(); err != nil {
			return "", err
		}
		return key, nil
	}

	return "", fmt.Errorf("no free name for %q in %q", name, dir)
}

func (s *Storage) ReadFile(key string) ([]byte, error) {
	resolved, err := s.validator.ResolvePath(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(resolved)
}

func (s *Storage) Remove(key string) error {
	resolved, err := s.validator.ResolvePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
