package run

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/service/batch"
	"go.uber.org/zap"
)

type Run struct {
	logger  *zap.Logger
	config  *config.Config
	caseDB  CaseDB
	batches BatchService
	out     io.Writer
}

func New(logger *zap.Logger, cfg *config.Config, caseDB CaseDB, batches BatchService, out io.Writer) *Run {
	return &Run{
		logger:  logger,
		config:  cfg,
		caseDB:  caseDB,
		batches: batches,
		out:     out,
	}
}

// Run loads every configured batch file, executes them and prints the
// summary. It returns an ErrCasesFailed AppError when any case failed.
func (r *Run) Run(ctx context.Context) ([]*models.Record, error) {
	files := r.config.Execute.BatchFiles
	if len(files) == 0 {
		return nil, errors.New("no batch files to run")
	}

	batches, err := r.caseDB.GetBatches(ctx, files)
	if err != nil {
		return nil, err
	}
	r.logger.Info("running batches", zap.Int("batches", len(batches)), zap.Int("parallel", r.config.Execute.ParallelBatches))

	records, err := r.batches.RunAll(ctx, batches)
	if r.out != nil {
		_, _ = io.WriteString(r.out, batch.Summary(records))
	}
	if err != nil {
		return records, err
	}
	if batch.Failed(records) {
		return records, models.AppError{AppErrorType: models.ErrCasesFailed, Err: fmt.Errorf("%d of %d batches have failed cases", countFailed(records), len(records))}
	}
	return records, nil
}

func countFailed(records []*models.Record) int {
	n := 0
	for _, r := range records {
		if r != nil && r.Failed > 0 {
			n++
		}
	}
	return n
}
