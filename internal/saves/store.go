package saves

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	ErrNoSave      = errors.New("no save in slot")
	ErrInvalidSlot = errors.New("slot must be 1 to 32 letters, digits, dashes or underscores")
)

var slotRE = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Slot describes one stored save without its blob.
type Slot struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Size    int       `json:"size"`
}

// Store keeps opaque save blobs by slot name.
type Store interface {
	Save(ctx context.Context, slot, blob string) error
	Load(ctx context.Context, slot string) (string, error)
	List(ctx context.Context) ([]Slot, error)
}

func ValidateSlot(slot string) error {
	if !slotRE.MatchString(slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}
