package executor

import (
	"context"
	"net/http"

	"go.keploy.io/apicase/pkg/models"
)

type Service interface {
	// Execute runs every case of batch in order and returns one report per case.
	Execute(ctx context.Context, batch *models.Batch) ([]models.Report, error)
}

// HTTPClient is the part of *http.Client the executor calls.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// FileStore resolves "file:<id>" params of multipart cases.
type FileStore interface {
	GetByID(ctx context.Context, ownerID, fileID int64) (*models.File, error)
}
