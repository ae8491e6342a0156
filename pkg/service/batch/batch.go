// Package batch turns executed batches into persisted records.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Batch struct {
	logger   *zap.Logger
	executor Executor
	recordDB RecordDB
	parallel int
}

func New(logger *zap.Logger, executor Executor, recordDB RecordDB, parallel int) *Batch {
	if parallel < 1 {
		parallel = 1
	}
	return &Batch{
		logger:   logger,
		executor: executor,
		recordDB: recordDB,
		parallel: parallel,
	}
}

// Run executes b and stores the resulting record. A cancelled run still
// stores the partial record and returns it along with the context error.
func (bs *Batch) Run(ctx context.Context, b *models.Batch) (*models.Record, error) {
	if b == nil || len(b.Cases) == 0 {
		return nil, models.ErrEmptyBatch
	}

	started := time.Now()
	reports, execErr := bs.executor.Execute(ctx, b)
	if execErr != nil && !errors.Is(execErr, context.Canceled) {
		return nil, fmt.Errorf("failed to execute batch %s: %w", b.ID, execErr)
	}

	record := models.NewRecord(b, reports, started)
	if bs.recordDB != nil {
		if err := bs.recordDB.InsertRecord(context.WithoutCancel(ctx), record); err != nil {
			utils.LogError(bs.logger, err, "failed to store record", zap.String("record", record.ID))
			return record, fmt.Errorf("failed to store record %s: %w", record.ID, err)
		}
	}

	bs.logger.Info("batch finished",
		zap.String("batch", b.ID),
		zap.String("record", record.ID),
		zap.Int("total", record.Total),
		zap.Int("passed", record.Passed),
		zap.Int("failed", record.Failed),
		zap.Int("ignored", record.Ignored))
	return record, execErr
}

func (bs *Batch) RunAll(ctx context.Context, batches []*models.Batch) ([]*models.Record, error) {
	records := make([]*models.Record, len(batches))
	g := errgroup.Group{}
	g.SetLimit(bs.parallel)
	for i, b := range batches {
		g.Go(func() error {
			rec, err := bs.Run(ctx, b)
			records[i] = rec
			return err
		})
	}
	return records, g.Wait()
}

// Summary renders one table row per record.
func Summary(records []*models.Record) string {
	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.Header("Batch", "Record", "Total", "Passed", "Failed", "Ignored", "Status")
	for _, r := range records {
		if r == nil {
			continue
		}
		_ = table.Append([]string{
			r.BatchID,
			r.ID,
			fmt.Sprint(r.Total),
			fmt.Sprint(r.Passed),
			fmt.Sprint(r.Failed),
			fmt.Sprint(r.Ignored),
			models.HighlightStatus(r.Status()),
		})
	}
	_ = table.Render()
	return buf.String()
}

// Failed reports whether any record holds a failed case.
func Failed(records []*models.Record) bool {
	for _, r := range records {
		if r != nil && r.Failed > 0 {
			return true
		}
	}
	return false
}
