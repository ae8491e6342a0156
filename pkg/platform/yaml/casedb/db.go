// Package casedb loads batches of cases from yaml files.
package casedb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/platform/yaml"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

type CaseYaml struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *CaseYaml {
	return &CaseYaml{logger: logger}
}

// GetBatch reads the batch stored at file. The batch ID defaults to the file
// name without its extension.
func (cy *CaseYaml) GetBatch(ctx context.Context, file string) (*models.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := yaml.ValidatePath(file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s batch file %q does not exist", utils.Emoji, file)
		}
		return nil, fmt.Errorf("failed to read batch file %q: %w", file, err)
	}

	batch := &models.Batch{}
	if err := yaml.Decode(data, batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch file %q: %w", file, err)
	}
	if batch.Kind != "" && batch.Kind != models.BatchKind {
		return nil, fmt.Errorf("batch file %q has kind %q, want %q", file, batch.Kind, models.BatchKind)
	}
	batch.Kind = models.BatchKind
	batch.Version = models.GetVersion(batch.Version)
	if batch.ID == "" {
		base := filepath.Base(file)
		batch.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	cy.logger.Debug("loaded batch", zap.String("file", file), zap.String("batch", batch.ID), zap.Int("cases", len(batch.Cases)))
	return batch, nil
}

// GetBatches loads every file in order, failing on the first bad one.
func (cy *CaseYaml) GetBatches(ctx context.Context, files []string) ([]*models.Batch, error) {
	batches := make([]*models.Batch, 0, len(files))
	for _, f := range files {
		b, err := cy.GetBatch(ctx, f)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}
