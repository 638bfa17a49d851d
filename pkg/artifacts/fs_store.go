package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const tmpSuffix = ".tmp"

// FSStore keeps one file per artifact directly under root.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if root == "" {
		return nil, errors.New("empty storage root")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}

	return &FSStore{root: abs}, nil
}

func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) Put(ctx context.Context, name string, encode EncodeFunc) (Location, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if name == "" || filepath.Base(name) != name {
		return "", 0, fmt.Errorf("invalid artifact name %q", name)
	}

	f, err := os.CreateTemp(s.root, name+".*"+tmpSuffix)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()

	published := false
	defer func() {
		if !published {
			_ = f.Close() // no-op if already closed
			_ = os.Remove(tmpPath)
		}
	}()

	if err := encode(f); err != nil {
		return "", 0, err
	}

	if err := f.Sync(); err != nil {
		return "", 0, fmt.Errorf("failed to sync file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close file: %w", err)
	}

	finalPath := filepath.Join(s.root, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", 0, fmt.Errorf("failed to publish file: %w", err)
	}

	published = true

	return Location(finalPath), info.Size(), nil
}

func (s *FSStore) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	path, err := s.path(loc)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
		}

		return nil, err
	}

	return f, nil
}

func (s *FSStore) Delete(ctx context.Context, loc Location) error {
	path, err := s.path(loc)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, loc)
		}

		return err
	}

	return nil
}

// path refuses locations outside of root.
func (s *FSStore) path(loc Location) (string, error) {
	path := filepath.Clean(string(loc))
	if filepath.Dir(path) != s.root {
		return "", fmt.Errorf("%w: location %q outside of storage root", ErrNotFound, loc)
	}

	return path, nil
}
