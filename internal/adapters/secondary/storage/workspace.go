package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

const (
	outputName = "output.pptx"
	dirPerm    = 0o750
)

// Store creates request workspaces below a root directory
type Store struct {
	root string
	now  func() time.Time
}

// NewStore creates the root directory if needed
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Store{root: abs, now: time.Now}, nil
}

// Root returns the absolute storage root
func (s *Store) Root() string {
	return s.root
}

// Create makes a new uniquely named workspace directory
func (s *Store) Create(ctx context.Context) (ports.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.Mkdir(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &Workspace{id: id, dir: dir}, nil
}

// Sweep removes workspace directories whose modification time is older than maxAge.
// Only directories named like workspace ids are touched.
func (s *Store) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("listing workspaces: %w", err)
	}

	cutoff := s.now().Add(-maxAge)
	removed := 0
	var errs []error

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !entry.IsDir() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(s.root, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	return removed, errors.Join(errs...)
}

// Workspace is one request's private directory
type Workspace struct {
	id  string
	dir string
}

// ID returns the workspace id
func (w *Workspace) ID() string {
	return w.id
}

// Dir returns the workspace directory
func (w *Workspace) Dir() string {
	return w.dir
}

// SaveTemplate stores the upload as template<ext>. The client filename is only used for its extension.
func (w *Workspace) SaveTemplate(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" {
		ext = ".pptx"
	}
	path := filepath.Join(w.dir, "template"+ext)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) // #nosec G304 - name is fixed inside the workspace
	if err != nil {
		return "", fmt.Errorf("creating template file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing template file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing template file: %w", err)
	}
	return path, nil
}

// OutputPath returns the path of the generated deck
func (w *Workspace) OutputPath() string {
	return filepath.Join(w.dir, outputName)
}

// Release removes the workspace directory
func (w *Workspace) Release() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("removing workspace: %w", err)
	}
	return nil
}

var (
	_ ports.WorkspaceStore = (*Store)(nil)
	_ ports.Workspace      = (*Workspace)(nil)
)
