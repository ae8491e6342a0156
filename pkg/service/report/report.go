package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/7sDream/geko"
	"github.com/k0kubun/pp/v3"
	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/gjson"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

type Report struct {
	logger   *zap.Logger
	config   *config.Config
	recordDB RecordDB
	out      io.Writer
}

func New(logger *zap.Logger, cfg *config.Config, recordDB RecordDB, out io.Writer) *Report {
	return &Report{
		logger:   logger,
		config:   cfg,
		recordDB: recordDB,
		out:      out,
	}
}

// GenerateReport prints the configured record, or a table of every stored
// record when none is selected.
func (r *Report) GenerateReport(ctx context.Context) error {
	if id := r.config.Report.RecordID; id != "" {
		record, err := r.recordDB.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		r.printRecord(record)
		return nil
	}

	ids, err := r.recordDB.GetRecordIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if len(ids) == 0 {
		r.logger.Info("no records found; run a batch first")
		return nil
	}

	table := tablewriter.NewWriter(r.out)
	table.Header("Record", "Batch", "Started", "Total", "Passed", "Failed", "Ignored")
	for _, id := range ids {
		rec, err := r.recordDB.GetRecord(ctx, id)
		if err != nil {
			utils.LogError(r.logger, err, "failed to read record", zap.String("record", id))
			continue
		}
		_ = table.Append([]string{
			rec.ID,
			rec.BatchID,
			time.Unix(rec.Started, 0).Format(time.DateTime),
			fmt.Sprint(rec.Total),
			fmt.Sprint(rec.Passed),
			fmt.Sprint(rec.Failed),
			fmt.Sprint(rec.Ignored),
		})
	}
	return table.Render()
}

func (r *Report) printRecord(rec *models.Record) {
	_, _ = fmt.Fprintf(r.out, "record %s of batch %s: %s total %d, passed %d, failed %d, ignored %d\n",
		rec.ID, rec.BatchID, models.HighlightStatus(rec.Status()), rec.Total, rec.Passed, rec.Failed, rec.Ignored)

	table := tablewriter.NewWriter(r.out)
	table.Header("Case", "Name", "Method", "URL", "Status", "HTTP", "Code", "Time (ms)")
	for _, rep := range rec.Reports {
		_ = table.Append([]string{
			fmt.Sprint(rep.CaseID),
			rep.Name,
			rep.Method,
			rep.URL,
			models.HighlightStatus(rep.Status),
			fmt.Sprint(rep.HTTPStatus),
			fmt.Sprint(rep.ResponseCode),
			fmt.Sprint(rep.TimeUsed),
		})
	}
	_ = table.Render()

	printer := pp.New()
	printer.WithLineInfo = false
	printer.SetColorScheme(models.GetFailingColorScheme())
	for _, rep := range rec.Reports {
		if rep.Status != models.CaseStatusFailed {
			continue
		}
		_, _ = fmt.Fprintf(r.out, "\ncase %d %q: %s\n", rep.CaseID, rep.Name, rep.Message)
		if msg := gjson.Get(rep.ResponseBody, "message"); msg.Exists() && msg.String() != "" {
			_, _ = fmt.Fprintf(r.out, "response message: %s\n", msg.String())
		}
		if rep.ResponseBody != "" {
			_, _ = fmt.Fprintf(r.out, "response body:\n%s\n", prettyBody(rep.ResponseBody))
		}
		if len(rep.Expected) > 0 {
			_, _ = io.WriteString(r.out, utils.ExpectActualTable(rep.Expected, rep.Actual))
		}
		if rep.Diff != "" {
			_, _ = io.WriteString(r.out, printer.Sprintf("diff: %s\n", rep.Diff))
		}
	}
}

// prettyBody indents a JSON body without reordering its keys. Anything that
// does not parse is printed as it was stored.
func prettyBody(body string) string {
	parsed, err := geko.JSONUnmarshal([]byte(body))
	if err != nil {
		return body
	}
	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return body
	}
	return string(out)
}
