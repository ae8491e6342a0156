// Package reportdb stores execution records as one yaml file per record.
package reportdb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"facette.io/natsort"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/platform/yaml"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
	yamlLib "gopkg.in/yaml.v3"
)

const recordsDir = "records"

type RecordYaml struct {
	m      sync.Mutex
	Logger *zap.Logger
	Path   string
}

func New(logger *zap.Logger, path string) *RecordYaml {
	return &RecordYaml{
		Logger: logger,
		Path:   filepath.Join(path, recordsDir),
	}
}

func (ry *RecordYaml) InsertRecord(ctx context.Context, record *models.Record) error {
	if record.ID == "" {
		return errors.New("record has no id")
	}
	if _, err := yaml.ValidatePath(record.ID); err != nil {
		return err
	}

	ry.m.Lock()
	defer ry.m.Unlock()

	d, err := yamlLib.Marshal(record)
	if err != nil {
		return fmt.Errorf("%s failed to marshal record to yaml: %w", utils.Emoji, err)
	}
	if err := yaml.WriteFile(ctx, ry.Logger, ry.Path, record.ID, d); err != nil {
		return fmt.Errorf("%s failed to write record %s: %w", utils.Emoji, record.ID, err)
	}
	ry.Logger.Debug("stored record", zap.String("record", record.ID), zap.String("path", ry.Path))
	return nil
}

func (ry *RecordYaml) GetRecord(_ context.Context, id string) (*models.Record, error) {
	ry.m.Lock()
	defer ry.m.Unlock()

	data, err := yaml.ReadFile(ry.Path, id)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrRecordNotFound, id)
		}
		return nil, err
	}
	var record models.Record
	if err := yamlLib.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%s failed to decode record %s: %w", utils.Emoji, id, err)
	}
	return &record, nil
}

// GetRecordIDs returns every stored record id in natural order.
func (ry *RecordYaml) GetRecordIDs(ctx context.Context) ([]string, error) {
	ids, err := yaml.ReadSessionIndices(ctx, ry.Path, ry.Logger)
	if err != nil {
		return nil, err
	}
	natsort.Sort(ids)
	return ids, nil
}
