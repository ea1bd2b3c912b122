package Repairs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"Fixit/Models"
)

// ErrInvalidQuote is returned by SetQuote when the submitted amount does not
// parse as a number.
var ErrInvalidQuote = errors.New("quote must be a number")

// Notifier receives newly created repair requests. Delivery is best-effort;
// implementations must never panic the caller.
type Notifier interface {
	Notify(repair Models.RepairRequest)
}

// Service owns the repair workflow: it creates requests, applies the
// operator's mutations and keeps the ledger and the uploaded photos in step.
// The mutex serializes this process's read-modify-write cycles against the
// ledger file; cross-process writers are not protected (single-server
// deployment, see RepairStore).
type Service struct {
	store      *Models.RepairStore
	notifier   Notifier
	uploadsDir string

	mu     sync.Mutex
	lastID int64
}

func NewService(store *Models.RepairStore, notifier Notifier, uploadsDir string) *Service {
	return &Service{
		store:      store,
		notifier:   notifier,
		uploadsDir: uploadsDir,
	}
}

// SubmitInput carries the customer-supplied form fields.
type SubmitInput struct {
	Name    string `validate:"required"`
	Contact string `validate:"required"`
	Device  string `validate:"required"`
	Issue   string `validate:"required"`
	Method  string
}

// Submit creates a new repair request and appends it to the ledger. The
// photo argument is the already-stored reference (e.g. "/uploads/...") or
// empty when the customer attached nothing. Notifications go out after the
// request is durably saved and never affect the result.
func (s *Service) Submit(input SubmitInput, photo string) (Models.RepairRequest, error) {
	if err := ValidateSubmit(input); err != nil {
		return Models.RepairRequest{}, err
	}

	repair := Models.RepairRequest{
		ID:          s.nextID(),
		Name:        input.Name,
		Contact:     input.Contact,
		Device:      input.Device,
		Issue:       input.Issue,
		Method:      input.Method,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if photo != "" {
		repair.Photo = &photo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repairs, err := s.store.Load()
	if err != nil {
		return Models.RepairRequest{}, err
	}
	repairs = append(repairs, repair)
	if err := s.store.Persist(repairs); err != nil {
		return Models.RepairRequest{}, err
	}

	if s.notifier != nil {
		go s.notifier.Notify(repair)
	}
	return repair, nil
}

// List returns every request in the ledger, oldest first.
func (s *Service) List() ([]Models.RepairRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load()
}

// Complete marks the request with the given id as completed. An unknown id
// is a silent no-op, matching the dashboard's optimistic buttons; calling it
// twice leaves the same end state.
func (s *Service) Complete(id int64) error {
	return s.mutate(func(repairs []Models.RepairRequest) {
		for i := range repairs {
			if repairs[i].ID == id {
				status := Models.StatusCompleted
				repairs[i].Status = &status
			}
		}
	})
}

// SetQuote sets or overwrites the quoted price on the matching request.
// An unknown id is a silent no-op.
func (s *Service) SetQuote(id int64, raw string) error {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidQuote, raw)
	}
	return s.mutate(func(repairs []Models.RepairRequest) {
		for i := range repairs {
			if repairs[i].ID == id {
				repairs[i].Quote = &amount
			}
		}
	})
}

// Delete removes the matching request from the ledger. If the request has a
// photo under the managed uploads directory the underlying files are removed
// too, best-effort: a failed file removal is logged and the ledger delete
// still goes through. An unknown id leaves the ledger unchanged.
func (s *Service) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repairs, err := s.store.Load()
	if err != nil {
		return err
	}

	kept := repairs[:0]
	for _, repair := range repairs {
		if repair.ID != id {
			kept = append(kept, repair)
			continue
		}
		if repair.Photo != nil {
			s.removePhoto(*repair.Photo)
		}
	}
	return s.store.Persist(kept)
}

func (s *Service) mutate(apply func([]Models.RepairRequest)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	repairs, err := s.store.Load()
	if err != nil {
		return err
	}
	apply(repairs)
	return s.store.Persist(repairs)
}

// removePhoto deletes the stored photo and its thumbnail when the reference
// points into the managed uploads directory. References outside it (absolute
// URLs, hand-edited entries) are left alone.
func (s *Service) removePhoto(photo string) {
	name := strings.TrimPrefix(photo, "/uploads/")
	if name == photo || name == "" || name != filepath.Base(name) {
		return
	}
	if err := os.Remove(filepath.Join(s.uploadsDir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove photo %s: %v", name, err)
	}
	thumb := filepath.Join(s.uploadsDir, "thumb_"+name)
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove thumbnail for %s: %v", name, err)
	}
}

// nextID derives the request id from the wall clock in milliseconds, the
// same scheme the dashboard links by, but guards it with the last issued
// value so two submissions inside one tick still get distinct ids.
func (s *Service) nextID() int64 {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&s.lastID)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&s.lastID, last, now) {
			return now
		}
	}
}
