// Package filestore resolves uploaded files referenced by multipart cases.
// Files are listed in a yaml index; relative paths are taken from the
// index's directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/platform/yaml"
	"go.uber.org/zap"
	yamlLib "gopkg.in/yaml.v3"
)

const defaultCacheSize = 128

// Index is the on-disk layout of the file index.
type Index struct {
	Version models.Version `yaml:"version,omitempty"`
	Kind    models.Kind    `yaml:"kind,omitempty"`
	Files   []models.File  `yaml:"files"`
}

type FileStore struct {
	logger    *zap.Logger
	indexPath string
	cache     *lru.Cache[int64, models.File]
	mu        sync.Mutex
}

func New(logger *zap.Logger, indexPath string, cacheSize int) (*FileStore, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[int64, models.File](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create file cache: %w", err)
	}
	return &FileStore{
		logger:    logger,
		indexPath: indexPath,
		cache:     cache,
	}, nil
}

// GetByID returns the file with fileID if it belongs to ownerID. Misses
// re-read the index so files added while running are picked up.
func (s *FileStore) GetByID(ctx context.Context, ownerID, fileID int64) (*models.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, ok := s.cache.Get(fileID)
	if !ok {
		var err error
		f, ok, err = s.lookup(fileID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %d", models.ErrFileNotFound, fileID)
		}
	}
	if f.OwnerID != ownerID {
		s.logger.Debug("file belongs to another owner", zap.Int64("file", fileID), zap.Int64("owner", ownerID))
		return nil, fmt.Errorf("%w: %d", models.ErrFileNotFound, fileID)
	}
	return &f, nil
}

func (s *FileStore) lookup(fileID int64) (models.File, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.readIndex()
	if err != nil {
		return models.File{}, false, err
	}
	var found models.File
	ok := false
	for _, f := range index.Files {
		s.cache.Add(f.ID, f)
		if f.ID == fileID {
			found, ok = f, true
		}
	}
	return found, ok, nil
}

func (s *FileStore) readIndex() (*Index, error) {
	index := &Index{}
	if s.indexPath == "" {
		return index, nil
	}
	path, err := yaml.ValidatePath(s.indexPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("file index does not exist", zap.String("path", path))
			return index, nil
		}
		return nil, fmt.Errorf("failed to read file index: %w", err)
	}
	if err := yamlLib.Unmarshal(data, index); err != nil {
		return nil, fmt.Errorf("failed to decode file index %q: %w", path, err)
	}
	if index.Kind != "" && index.Kind != models.FilesKind {
		return nil, fmt.Errorf("file index %q has kind %q, want %q", path, index.Kind, models.FilesKind)
	}
	dir := filepath.Dir(path)
	for i := range index.Files {
		if !filepath.IsAbs(index.Files[i].Path) {
			index.Files[i].Path = filepath.Join(dir, index.Files[i].Path)
		}
	}
	return index, nil
}
