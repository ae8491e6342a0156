package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Tools struct {
	logger *zap.Logger
	config *config.Config
	caseDB CaseDB
	out    io.Writer
}

func NewTools(logger *zap.Logger, cfg *config.Config, caseDB CaseDB, out io.Writer) *Tools {
	return &Tools{
		logger: logger,
		config: cfg,
		caseDB: caseDB,
		out:    out,
	}
}

// CreateConfig writes configData, or the merged defaults when it is empty,
// followed by the commented guide.
func (t *Tools) CreateConfig(_ context.Context, filePath string, configData string) error {
	if configData == "" {
		merged, err := config.Merge(config.InternalConfig, config.GetDefaultConfig())
		if err != nil {
			utils.LogError(t.logger, err, "failed to create default config string")
			return err
		}
		configData = merged
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(configData), &node); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if len(node.Content) == 0 {
		return errors.New("config is empty")
	}
	results, err := yaml.Marshal(node.Content[0])
	if err != nil {
		return fmt.Errorf("failed to marshal the config: %w", err)
	}

	finalOutput := append(results, []byte(utils.ConfigGuide)...)
	if err := os.WriteFile(filePath, finalOutput, 0o644); err != nil {
		utils.LogError(t.logger, err, "failed to write config file", zap.String("path", filePath))
		return err
	}

	t.logger.Info("config file generated successfully", zap.String("path", filePath))
	return nil
}
