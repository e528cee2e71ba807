package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no attachment exists under the
// requested name.
var ErrNotFound = errors.New("attachment not found")

// Attachments is a directory-backed blob store. Blobs are written once
// under a generated name and never modified.
type Attachments struct {
	dir string
}

// NewAttachments creates the upload directory if needed and returns the
// store.
func NewAttachments(dir string) (*Attachments, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Attachments{dir: dir}, nil
}

// Put writes the blob and returns its generated filename. The name carries
// a uuid suffix so rapid concurrent uploads cannot collide on wall-clock
// time alone.
func (a *Attachments) Put(data []byte) (string, error) {
	name := fmt.Sprintf("%d_%s.jpg", time.Now().UnixNano(), uuid.NewString())
	if err := os.WriteFile(filepath.Join(a.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write attachment %s: %w", name, err)
	}
	log.Infof("Stored attachment %s (%d bytes)", name, len(data))
	return name, nil
}

// Get returns the blob stored under name, or ErrNotFound.
func (a *Attachments) Get(name string) ([]byte, error) {
	path, err := a.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Remove deletes the blob stored under name. Used only to clean up after a
// failed report insert; a missing file is not an error.
func (a *Attachments) Remove(name string) {
	path, err := a.resolve(name)
	if err != nil {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Errorf("Failed to remove attachment %s: %v", name, err)
	}
}

// resolve maps a client-supplied name to a path inside the store directory.
// Names that would escape the directory are treated as not found.
func (a *Attachments) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrNotFound
	}
	return filepath.Join(a.dir, name), nil
}
