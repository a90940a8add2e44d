package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/kailas-cloud/folio/internal/domain/recent"
)

// History is the on-disk recent searches list shared by folioctl invocations.
// Every read-modify-write holds an exclusive file lock.
type History struct {
	path string
	lock *flock.Flock
}

// NewHistory returns a history stored at path.
func NewHistory(path string) *History {
	return &History{path: path, lock: flock.New(path + ".lock")}
}

// DefaultHistoryPath returns ~/.folio/recent.json.
func DefaultHistoryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".folio", "recent.json"), nil
}

// Terms returns the stored queries, newest first. A missing or corrupt file reads as empty.
func (h *History) Terms() ([]string, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	defer h.release()
	return h.read().Terms(), nil
}

// Add records q and returns the updated list.
func (h *History) Add(q string) ([]string, error) {
	if err := h.acquire(); err != nil {
		return nil, err
	}
	defer h.release()

	log, changed := h.read().Add(q)
	if !changed {
		return log.Terms(), nil
	}
	if err := h.write(log); err != nil {
		return nil, err
	}
	return log.Terms(), nil
}

// Clear removes every stored query.
func (h *History) Clear() error {
	if err := h.acquire(); err != nil {
		return err
	}
	defer h.release()
	if err := os.Remove(h.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (h *History) acquire() error {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := h.lock.Lock(); err != nil {
		return fmt.Errorf("lock history: %w", err)
	}
	return nil
}

func (h *History) release() {
	_ = h.lock.Unlock()
}

func (h *History) read() recent.Log {
	data, err := os.ReadFile(h.path)
	if err != nil {
		return recent.New(nil)
	}
	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		return recent.New(nil)
	}
	return recent.New(terms)
}

// write stores the log as a JSON array of strings, replacing the file via rename.
func (h *History) write(log recent.Log) error {
	data, err := json.Marshal(log.Terms())
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, h.path); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
