package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/filex"
)

type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read diary file: %w", err)
	}
	return b, nil
}

func (s *FileStorage) Save(ctx context.Context, data []byte) error {
	if err := filex.WriteAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write diary file: %w", err)
	}
	return nil
}
