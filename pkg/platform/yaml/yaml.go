// Package yaml holds the file helpers shared by the YAML backed stores.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	yamlLib "gopkg.in/yaml.v3"
)

const ext = ".yaml"

func WriteFile(ctx context.Context, logger *zap.Logger, path, fileName string, docData []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := CreateYamlFile(ctx, logger, path, fileName); err != nil {
		return err
	}
	yamlPath := filepath.Join(path, fileName+ext)
	if err := os.WriteFile(yamlPath, docData, 0o644); err != nil {
		logger.Error("failed to write the yaml document", zap.Error(err), zap.String("yaml file name", fileName))
		return err
	}
	return nil
}

func ReadFile(path, name string) ([]byte, error) {
	filePath, err := ValidatePath(filepath.Join(path, name+ext))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the file: %w", err)
	}
	return data, nil
}

// CreateYamlFile makes sure path/fileName.yaml exists and reports whether it
// had to be created.
func CreateYamlFile(_ context.Context, logger *zap.Logger, path string, fileName string) (bool, error) {
	yamlPath, err := ValidatePath(filepath.Join(path, fileName+ext))
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(yamlPath); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, fs.ModePerm); err != nil {
		logger.Error("failed to create a directory for the yaml file", zap.Error(err), zap.String("path directory", path), zap.String("yaml", fileName))
		return false, err
	}
	file, err := os.OpenFile(yamlPath, os.O_CREATE, 0o644)
	if err != nil {
		logger.Error("failed to create a yaml file", zap.Error(err), zap.String("path directory", path), zap.String("yaml", fileName))
		return false, err
	}
	return true, file.Close()
}

// ValidatePath rejects paths that try to climb out of their directory.
func ValidatePath(path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", errors.New("invalid path: contains '..' indicating directory traversal")
	}
	return path, nil
}

// ReadSessionIndices lists the names (without extension) of the yaml files in
// path. A missing directory is not an error.
func ReadSessionIndices(_ context.Context, path string, logger *zap.Logger) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no yaml directory yet", zap.String("path", path))
			return []string{}, nil
		}
		return nil, err
	}
	indices := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		indices = append(indices, strings.TrimSuffix(e.Name(), ext))
	}
	return indices, nil
}

// Decode reads a single yaml document from data into v, rejecting unknown
// fields so typos in hand written files surface early.
func Decode(data []byte, v interface{}) error {
	dec := yamlLib.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
