package executor

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp/v3"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/utils"
)

// printReport writes the console line for one finished case, plus the
// expected/actual table when values differed.
func printReport(w io.Writer, r *models.Report) {
	if w == nil {
		return
	}
	switch r.Status {
	case models.CaseStatusPassed:
		printer := newPrinter(models.GetPassingColorScheme())
		_, _ = io.WriteString(w, printer.Sprintf("%s case %d %q %s %s (%dms)\n",
			models.HighlightPassingString(string(r.Status)), r.CaseID, r.Name, r.Method, r.URL, r.TimeUsed))
	case models.CaseStatusIgnored:
		_, _ = fmt.Fprintf(w, "%s case %d %q: %s\n", models.HighlightGrayString(string(r.Status)), r.CaseID, r.Name, r.Message)
	default:
		printer := newPrinter(models.GetFailingColorScheme())
		_, _ = io.WriteString(w, printer.Sprintf("%s case %d %q %s %s (%dms)\n",
			models.HighlightFailingString(string(r.Status)), r.CaseID, r.Name, r.Method, r.URL, r.TimeUsed))
		if r.Message != "" {
			_, _ = io.WriteString(w, printer.Sprintf("  reason: %s\n", r.Message))
		}
		if r.HTTPStatus != 0 {
			_, _ = io.WriteString(w, printer.Sprintf("  http status: %d, code: %d\n", r.HTTPStatus, r.ResponseCode))
		}
		if len(r.Expected) > 0 {
			_, _ = io.WriteString(w, utils.ExpectActualTable(r.Expected, r.Actual))
		}
	}
}

func newPrinter(scheme pp.ColorScheme) *pp.PrettyPrinter {
	printer := pp.New()
	printer.WithLineInfo = false
	printer.SetColorScheme(scheme)
	return printer
}
