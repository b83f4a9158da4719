// Package cache persists fetched batches into a single append-only JSON file and
// reconstructs cached entries by date and source.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/rssreader/pkg/domain"
)

// Store keeps all fetched batches in one JSON document shaped as {"data": [batch, ...]}.
// Every Append rewrites the whole document, so concurrent writers from different
// processes may lose or corrupt data. Single writer is assumed.
type Store struct {
	path string
	log  lgr.L
}

// StoreOption customizes Store
type StoreOption func(*Store)

// WithLogger sets logger used by the store
func WithLogger(l lgr.L) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

type document struct {
	Data []domain.FetchBatch `json:"data"`
}

// NewStore makes a store backed by the file at path, the file is created on first Append
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, log: lgr.NoOp}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns location of the cache file
func (s *Store) Path() string {
	return s.path
}

// Append adds batch to the end of the stored collection
func (s *Store) Append(batch domain.FetchBatch) error {
	doc, err := s.load()
	switch {
	case errors.Is(err, domain.ErrCacheMissing):
		s.log.Logf("[DEBUG] cache %s not found, creating", s.path)
		if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
		doc = document{}
	case err != nil:
		return err
	}

	doc.Data = append(doc.Data, batch)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	// write to a temp file and rename, so a crash never leaves a truncated cache
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write cache %s: %w", s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace cache %s: %w", s.path, err)
	}
	s.log.Logf("[DEBUG] appended batch of %d entries to %s, %d batches total", len(batch.Entries), s.path, len(doc.Data))
	return nil
}

// ReadAll returns every stored batch in append order.
// Returns an error wrapping domain.ErrCacheMissing if nothing was ever written.
func (s *Store) ReadAll() ([]domain.FetchBatch, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (s *Store) load() (document, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // cache path comes from config or CLI
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document{}, fmt.Errorf("read cache %s: %w", s.path, domain.ErrCacheMissing)
		}
		return document{}, fmt.Errorf("read cache %s: %w", s.path, err)
	}

	// empty file holds nothing, same as a missing one
	if len(bytes.TrimSpace(data)) == 0 {
		s.log.Logf("[WARN] cache %s is empty", s.path)
		return document{}, fmt.Errorf("read cache %s: empty file: %w", s.path, domain.ErrCacheMissing)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("parse cache %s: %w", s.path, err)
	}
	return doc, nil
}
