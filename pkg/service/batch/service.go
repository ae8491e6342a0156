package batch

import (
	"context"

	"go.keploy.io/apicase/pkg/models"
)

type Service interface {
	// Run executes one batch and persists its record.
	Run(ctx context.Context, b *models.Batch) (*models.Record, error)
	// RunAll executes independent batches concurrently; records keep input order.
	RunAll(ctx context.Context, batches []*models.Batch) ([]*models.Record, error)
}

type Executor interface {
	Execute(ctx context.Context, b *models.Batch) ([]models.Report, error)
}

type RecordDB interface {
	InsertRecord(ctx context.Context, record *models.Record) error
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	GetRecordIDs(ctx context.Context) ([]string, error)
}
