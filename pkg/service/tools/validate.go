package tools

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/olekukonko/tablewriter"
	"go.keploy.io/apicase/pkg/models"
	"go.uber.org/zap"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is one problem found in a batch file.
type ValidationIssue struct {
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	File       string   `json:"file"`
	CaseID     int64    `json:"case_id,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

type ValidationResult struct {
	TotalBatches int               `json:"total_batches"`
	TotalCases   int               `json:"total_cases"`
	ValidCases   int               `json:"valid_cases"`
	Issues       []ValidationIssue `json:"issues"`
	Errors       int               `json:"errors"`
	Warnings     int               `json:"warnings"`
}

func (r *ValidationResult) Passed() bool {
	return r.Errors == 0
}

// Validate checks every configured batch file without sending a request.
func (t *Tools) Validate(ctx context.Context) error {
	result, err := t.ValidateFiles(ctx, t.config.Execute.BatchFiles)
	if err != nil {
		return err
	}
	t.printValidationResults(result)
	if !result.Passed() {
		return fmt.Errorf("validation failed with %d errors", result.Errors)
	}
	t.logger.Info("validation completed successfully", zap.Int("cases", result.TotalCases))
	return nil
}

func (t *Tools) ValidateFiles(ctx context.Context, files []string) (*ValidationResult, error) {
	result := &ValidationResult{TotalBatches: len(files)}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := t.caseDB.GetBatch(ctx, file)
		if err != nil {
			result.Issues = append(result.Issues, ValidationIssue{
				RuleID:   "S001",
				Severity: SeverityError,
				Message:  err.Error(),
				File:     file,
			})
			continue
		}
		result.TotalCases += len(b.Cases)
		issues := validateBatch(file, b)
		result.Issues = append(result.Issues, issues...)

		failing := map[int64]bool{}
		for _, issue := range issues {
			if issue.Severity == SeverityError && issue.CaseID != 0 {
				failing[issue.CaseID] = true
			}
		}
		result.ValidCases += len(b.Cases) - len(failing)
	}

	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			result.Errors++
		case SeverityWarning:
			result.Warnings++
		}
	}
	return result, nil
}

func validateBatch(file string, b *models.Batch) []ValidationIssue {
	var issues []ValidationIssue
	add := func(rule string, sev Severity, caseID int64, msg, suggestion string) {
		issues = append(issues, ValidationIssue{RuleID: rule, Severity: sev, Message: msg, File: file, CaseID: caseID, Suggestion: suggestion})
	}

	if len(b.Cases) == 0 {
		add("S002", SeverityError, 0, models.ErrEmptyBatch.Error(), "add at least one case under 'cases'")
		return issues
	}

	// ran holds the cases that reach the target before the current one.
	seen := map[int64]bool{}
	ran := map[int64]bool{}
	for i := range b.Cases {
		cs := &b.Cases[i]
		if cs.ID <= 0 {
			add("S003", SeverityError, cs.ID, fmt.Sprintf("case %d has no positive id", i+1), "give every case a unique id starting at 1")
		} else if seen[cs.ID] {
			add("S004", SeverityError, cs.ID, fmt.Sprintf("duplicate case id %d", cs.ID), "")
		}
		seen[cs.ID] = true

		if !cs.Run {
			add("I001", SeverityInfo, cs.ID, "case is disabled and will be ignored", "")
			continue
		}

		if err := cs.Validate(); err != nil {
			add("S005", SeverityError, cs.ID, err.Error(), "")
		}

		if models.ParseMethod(cs.Method) == models.MethodUnsupported {
			add("H001", SeverityError, cs.ID, fmt.Sprintf("%s: %q", models.ErrUnsupportedMethod, cs.Method), methodSuggestion(cs.Method))
		}
		if cs.Host == "" && b.Project.Host == "" {
			add("H002", SeverityError, cs.ID, models.ErrMissingHost.Error(), "set 'host' on the case or the project")
		}
		if cs.CheckHTTPStatus && cs.ExpectedHTTPStatus == 0 {
			add("H003", SeverityWarning, cs.ID, "check_http_status is set without expected_http_status", "set expected_http_status, e.g. 200")
		}
		if cs.Delay > models.MaxDelaySeconds {
			add("W001", SeverityWarning, cs.ID, fmt.Sprintf("delay %ds will be clamped to %ds", cs.Delay, models.MaxDelaySeconds), "")
		}

		for _, dep := range dependencies(cs) {
			if !ran[dep] {
				add("D001", SeverityError, cs.ID, fmt.Sprintf("%s: case %d does not run before case %d", models.ErrDependencyNotFound, dep, cs.ID), "depend only on enabled cases listed earlier in the batch")
			}
		}
		for k, v := range cs.Params {
			if s, ok := v.(string); ok && strings.HasPrefix(s, "file:") && !isFileRef(strings.TrimPrefix(s, "file:")) {
				add("F001", SeverityWarning, cs.ID, fmt.Sprintf("param %q references file %q which is not a numeric id", k, s), "")
			}
		}
		ran[cs.ID] = true
	}
	return issues
}

func dependencies(cs *models.CaseSpec) []int64 {
	var deps []int64
	for _, ev := range cs.ExtendValues {
		deps = append(deps, ev.DependsOn)
	}
	for _, node := range cs.ExpectedValues {
		if !node.IsLiteral() {
			deps = append(deps, node.DependsOn)
		}
	}
	return deps
}

func methodSuggestion(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	for _, candidate := range models.SupportedMethods {
		if levenshtein.ComputeDistance(m, candidate) <= 2 {
			return fmt.Sprintf("did you mean %q?", strings.ToUpper(candidate))
		}
	}
	return "use one of POST, GET, PUT or DELETE"
}

func isFileRef(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (t *Tools) printValidationResults(result *ValidationResult) {
	if t.out == nil {
		return
	}
	status := models.HighlightPassingString("VALIDATION PASSED")
	if !result.Passed() {
		status = models.HighlightFailingString("VALIDATION FAILED")
	}
	_, _ = fmt.Fprintf(t.out, "\n%s  batches: %d  cases: %d (valid: %d)  errors: %d  warnings: %d\n",
		status, result.TotalBatches, result.TotalCases, result.ValidCases, result.Errors, result.Warnings)
	if len(result.Issues) == 0 {
		return
	}
	writeIssues(t.out, result.Issues)
}

func writeIssues(w io.Writer, issues []ValidationIssue) {
	table := tablewriter.NewWriter(w)
	table.Header("Rule", "Severity", "File", "Case", "Message", "Suggestion")
	for _, issue := range issues {
		caseID := ""
		if issue.CaseID != 0 {
			caseID = fmt.Sprint(issue.CaseID)
		}
		_ = table.Append([]string{issue.RuleID, string(issue.Severity), issue.File, caseID, issue.Message, issue.Suggestion})
	}
	_ = table.Render()
}
