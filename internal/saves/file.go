package saves

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExt = ".save"

// FileStore writes one file per slot under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

func (f *FileStore) path(slot string) string {
	return filepath.Join(f.Dir, slot+fileExt)
}

// Save replaces the slot atomically so a crash never leaves half a blob.
func (f *FileStore) Save(_ context.Context, slot, blob string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.Dir, slot+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(blob); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(slot))
}

func (f *FileStore) Load(_ context.Context, slot string) (string, error) {
	if err := ValidateSlot(slot); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(f.path(slot))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoSave
		}
		return "", err
	}
	if len(raw) == 0 {
		return "", ErrNoSave
	}
	return string(raw), nil
}

func (f *FileStore) List(_ context.Context) ([]Slot, error) {
	entries, err := os.ReadDir(f.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Slot{}, nil
		}
		return nil, err
	}
	out := []Slot{}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), fileExt)
		if e.IsDir() || !ok || ValidateSlot(name) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Slot{Name: name, SavedAt: info.ModTime().UTC(), Size: int(info.Size())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
