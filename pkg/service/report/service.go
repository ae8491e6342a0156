// Package report prints stored execution records.
package report

import (
	"context"

	"go.keploy.io/apicase/pkg/models"
)

type Service interface {
	GenerateReport(ctx context.Context) error
}

type RecordDB interface {
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	GetRecordIDs(ctx context.Context) ([]string, error)
}
