// Package tools holds the commands that work on files without running cases.
package tools

import (
	"context"

	"go.keploy.io/apicase/pkg/models"
)

type Service interface {
	CreateConfig(ctx context.Context, filePath string, config string) error
	Validate(ctx context.Context) error
}

type CaseDB interface {
	GetBatch(ctx context.Context, file string) (*models.Batch, error)
}
