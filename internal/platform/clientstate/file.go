// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package clientstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileDocument is the on-disk layout of a [File] store.
type fileDocument struct {
	Version int               `json:"version"`
	Sealed  bool              `json:"sealed"`
	Entries map[string]string `json:"entries"`
}

const fileDocumentVersion = 1

// File is a [Storage] backed by one JSON document on disk.
//
// Writes go to a temporary file in the same directory and are renamed over
// the document, so a crash mid-write leaves the previous state intact.
type File struct {
	mu     sync.Mutex
	path   string
	sealer *sealer
}

// FileOptions configures [NewFile].
type FileOptions struct {
	// Path is the JSON document location. Parent directories are created on first write.
	Path string
	// Secret enables sealing of every value when non-empty.
	Secret string
	// Namespace scopes the sealing key.
	Namespace string
}

// NewFile creates a file-backed store. The document itself is created lazily.
func NewFile(options FileOptions) (*File, error) {
	if options.Path == "" {
		return nil, errors.New("clientstate: file path is required")
	}

	store := &File{path: options.Path}

	if options.Secret != "" {
		s, err := newSealer(options.Secret, options.Namespace)
		if err != nil {
			return nil, err
		}
		store.sealer = s
	}

	return store, nil
}

// Load implements [Storage].
func (file *File) Load(_ context.Context, keys ...string) (map[string]string, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	document, err := file.read()
	if err != nil {
		return nil, err
	}

	found := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok := document.Entries[key]
		if !ok {
			continue
		}

		if document.Sealed {
			value, err = file.sealer.open(value)
			if err != nil {
				return nil, fmt.Errorf("%w: key %q cannot be opened", ErrCorrupted, key)
			}
		}
		found[key] = value
	}

	return found, nil
}

// Save implements [Storage].
func (file *File) Save(_ context.Context, entries map[string]string) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	document, err := file.readOrFresh()
	if err != nil {
		return err
	}

	for key, value := range entries {
		if file.sealer != nil {
			if value, err = file.sealer.seal(value); err != nil {
				return err
			}
		}
		document.Entries[key] = value
	}

	return file.write(document)
}

// Delete implements [Storage]. A readable document that holds none of the
// keys is not rewritten. An undecodable one is always replaced.
func (file *File) Delete(_ context.Context, keys ...string) error {
	file.mu.Lock()
	defer file.mu.Unlock()

	document, err := file.read()
	changed := errors.Is(err, ErrCorrupted)
	switch {
	case changed:
		document = file.fresh()
	case err != nil:
		return err
	}

	for _, key := range keys {
		if _, ok := document.Entries[key]; ok {
			delete(document.Entries, key)
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return file.write(document)
}

// Ping verifies the parent directory is usable.
func (file *File) Ping(context.Context) error {
	dir := filepath.Dir(file.path)

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clientstate_file_ping_failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("clientstate_file_ping_failed: %s is not a directory", dir)
	}
	return nil
}

// Close implements [Storage].
func (file *File) Close() error { return nil }

// read decodes the document. A missing file is an empty, valid document.
func (file *File) read() (*fileDocument, error) {
	raw, err := os.ReadFile(file.path)
	if errors.Is(err, fs.ErrNotExist) {
		return file.fresh(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("clientstate_file_read_failed: %w", err)
	}

	document := &fileDocument{}
	if err := json.Unmarshal(raw, document); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	// A sealed document without a secret (or the reverse) cannot be interpreted.
	if document.Sealed != (file.sealer != nil) {
		return nil, fmt.Errorf("%w: sealing mode does not match configuration", ErrCorrupted)
	}

	if document.Entries == nil {
		document.Entries = make(map[string]string)
	}
	return document, nil
}

// readOrFresh is [File.read] for writers: an undecodable document is replaced.
func (file *File) readOrFresh() (*fileDocument, error) {
	document, err := file.read()
	if errors.Is(err, ErrCorrupted) {
		return file.fresh(), nil
	}
	return document, err
}

func (file *File) fresh() *fileDocument {
	return &fileDocument{
		Version: fileDocumentVersion,
		Sealed:  file.sealer != nil,
		Entries: make(map[string]string),
	}
}

// write replaces the document atomically.
func (file *File) write(document *fileDocument) error {
	dir := filepath.Dir(file.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("clientstate_file_mkdir_failed: %w", err)
	}

	payload, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("clientstate_file_encode_failed: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".console-state-*")
	if err != nil {
		return fmt.Errorf("clientstate_file_write_failed: %w", err)
	}
	tempName := temp.Name()
	defer func() { _ = os.Remove(tempName) }()

	if _, err := temp.Write(payload); err != nil {
		_ = temp.Close()
		return fmt.Errorf("clientstate_file_write_failed: %w", err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		return fmt.Errorf("clientstate_file_sync_failed: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("clientstate_file_write_failed: %w", err)
	}
	if err := os.Chmod(tempName, 0o600); err != nil {
		return fmt.Errorf("clientstate_file_chmod_failed: %w", err)
	}

	if err := os.Rename(tempName, file.path); err != nil {
		return fmt.Errorf("clientstate_file_rename_failed: %w", err)
	}
	return nil
}
