// Package run executes the batch files named in the configuration.
package run

import (
	"context"

	"go.keploy.io/apicase/pkg/models"
)

type Service interface {
	Run(ctx context.Context) ([]*models.Record, error)
}

type CaseDB interface {
	GetBatches(ctx context.Context, files []string) ([]*models.Batch, error)
}

type BatchService interface {
	RunAll(ctx context.Context, batches []*models.Batch) ([]*models.Record, error)
}
