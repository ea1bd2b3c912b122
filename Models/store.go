package Models

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCorruptLedger is returned by Load when the ledger file exists and has
// content but that content is not a valid JSON array of repair requests.
// Callers must treat this as fatal for the read; proceeding with an empty
// collection would silently drop every stored request on the next persist.
var ErrCorruptLedger = errors.New("repairs ledger is corrupt")

// RepairStore persists the full collection of repair requests as a single
// JSON file. Every Persist rewrites the whole file; there is no locking, so
// two processes writing concurrently race and the last full write wins.
// The deployment assumption is a single server process with one operator.
type RepairStore struct {
	Path string
}

func NewRepairStore(path string) *RepairStore {
	return &RepairStore{Path: path}
}

// Load reads the entire ledger. A missing or empty file is an empty ledger,
// not an error.
func (s *RepairStore) Load() ([]RepairRequest, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RepairRequest{}, nil
		}
		return nil, fmt.Errorf("failed to read repairs file: %w", err)
	}

	if len(data) == 0 {
		return []RepairRequest{}, nil
	}

	var repairs []RepairRequest
	if err := json.Unmarshal(data, &repairs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptLedger, err)
	}
	return repairs, nil
}

// Persist rewrites the ledger with the given collection. The new content is
// written to a temp file in the same directory and renamed over the ledger,
// so a failed write leaves the previous ledger untouched.
func (s *RepairStore) Persist(repairs []RepairRequest) error {
	data, err := json.MarshalIndent(repairs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode repairs: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "repairs-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger: %w", err)
	}
	return nil
}
