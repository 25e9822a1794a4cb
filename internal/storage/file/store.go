// Package file implements the record store as one JSON file per
// (collection, key) under a base directory. Existence of the file is the
// only truth: there is no index, manifest or cache.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-api-filestore/internal/domain"
)

// Store persists records on the local filesystem. The O_EXCL open flag is
// the exclusive-create primitive that guarantees first-writer-wins for
// concurrent creates of the same key.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Create(_ context.Context, collection, key string, record interface{}) error {
	if err := checkNames(collection, key); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.baseDir, collection), 0o755); err != nil {
		return fmt.Errorf("create collection dir %s: %w", collection, err)
	}
	f, err := os.OpenFile(s.path(collection, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("record %s/%s already exists: %w", collection, key, domain.ErrConflict)
		}
		return fmt.Errorf("create record %s/%s: %w", collection, key, err)
	}
	return writeAndClose(f, collection, key, record)
}

func (s *Store) Read(_ context.Context, collection, key string, out interface{}) error {
	if err := checkNames(collection, key); err != nil {
		return err
	}
	data, err := os.ReadFile(s.path(collection, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("record %s/%s: %w", collection, key, domain.ErrNotFound)
		}
		return fmt.Errorf("read record %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode record %s/%s: %w", collection, key, err)
	}
	return nil
}

// Update replaces the stored value wholesale. Opening without O_CREATE makes
// a missing record a NotFound rather than an implicit create.
func (s *Store) Update(_ context.Context, collection, key string, record interface{}) error {
	if err := checkNames(collection, key); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path(collection, key), os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("record %s/%s: %w", collection, key, domain.ErrNotFound)
		}
		return fmt.Errorf("update record %s/%s: %w", collection, key, err)
	}
	return writeAndClose(f, collection, key, record)
}

func (s *Store) Delete(_ context.Context, collection, key string) error {
	if err := checkNames(collection, key); err != nil {
		return err
	}
	if err := os.Remove(s.path(collection, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("record %s/%s: %w", collection, key, domain.ErrNotFound)
		}
		return fmt.Errorf("delete record %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *Store) path(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+".json")
}

func writeAndClose(f *os.File, collection, key string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		f.Close()
		return fmt.Errorf("encode record %s/%s: %w", collection, key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write record %s/%s: %w", collection, key, err)
	}
	return f.Close()
}

// checkNames keeps collection and key usable as single path components.
// Keys are validated upstream (phones, token ids), so this only has to stop
// traversal, not enforce the full key grammar.
func checkNames(collection, key string) error {
	for _, name := range []string{collection, key} {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("invalid record name %q: %w", name, domain.ErrBadRequest)
		}
	}
	return nil
}
