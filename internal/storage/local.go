package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"submission_service/internal/errdefs"
)

const maxPutAttempts = 5

// LocalStore keeps submission files in a single directory on local disk.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage dir: %v", errdefs.ErrIO, err)
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Put(ctx context.Context, desiredName, contentType string, content io.Reader) (string, error) {
	desiredName = filepath.Base(desiredName)
	if desiredName == "" || desiredName == "." || desiredName == string(filepath.Separator) {
		return "", fmt.Errorf("%w: empty file name", errdefs.ErrValidation)
	}

	for attempt := 0; attempt < maxPutAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := desiredName
		switch {
		case attempt == 1:
			name = timestampName(desiredName, time.Now().Format(timestampLayout))
		case attempt > 1:
			name = timestampName(desiredName, strconv.FormatInt(time.Now().UnixNano(), 10))
		}

		// O_EXCL makes the existence check and the create one atomic step, so
		// two uploads racing on the same name cannot clobber each other.
		f, err := os.OpenFile(filepath.Join(s.root, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: create %s: %v", errdefs.ErrIO, name, err)
		}

		if _, err := io.Copy(f, content); err != nil {
			_ = f.Close()
			_ = os.Remove(filepath.Join(s.root, name))
			return "", fmt.Errorf("%w: write %s: %v", errdefs.ErrIO, name, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(filepath.Join(s.root, name))
			return "", fmt.Errorf("%w: close %s: %v", errdefs.ErrIO, name, err)
		}
		return name, nil
	}

	return "", fmt.Errorf("%w: no free name derived from %s", errdefs.ErrIO, desiredName)
}

func (s *LocalStore) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.Base(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: file %s", errdefs.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", errdefs.ErrIO, name, err)
	}
	return data, nil
}

func (s *LocalStore) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: delete %s: %v", errdefs.ErrIO, name, err)
	}
	return nil
}
