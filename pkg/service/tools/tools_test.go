package tools

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/platform/yaml/casedb"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

func newTools(t *testing.T, files ...string) (*Tools, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	cfg := &config.Config{Execute: config.Execute{BatchFiles: files}}
	return NewTools(zap.NewNop(), cfg, casedb.New(zap.NewNop()), out), out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func ruleIDs(issues []ValidationIssue) []string {
	ids := make([]string, 0, len(issues))
	for _, i := range issues {
		ids = append(ids, i.RuleID)
	}
	return ids
}

// TestCreateConfig_WritesDefaultsAndGuide tests generating the default config file
func TestCreateConfig_WritesDefaultsAndGuide(t *testing.T) {
	// Arrange
	tools, _ := newTools(t)
	path := filepath.Join(t.TempDir(), "apicase.yml")

	// Act
	err := tools.CreateConfig(context.Background(), path, "")

	// Assert
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiTimeout: 30")
	assert.Contains(t, string(data), "parallelBatches: 1")
	assert.Contains(t, string(data), utils.ConfigGuide)
}

// TestCreateConfig_UsesGivenData tests that explicit config data is written as is
func TestCreateConfig_UsesGivenData(t *testing.T) {
	tools, _ := newTools(t)
	path := filepath.Join(t.TempDir(), "apicase.yml")

	require.NoError(t, tools.CreateConfig(context.Background(), path, "serve:\n  port: 9000\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "port: 9000")
}

// TestValidate_CleanBatch tests that a well formed batch passes
func TestValidate_CleanBatch(t *testing.T) {
	// Arrange
	file := writeFile(t, "ok.yaml", `
project: {host: "http://localhost"}
cases:
  - {id: 1, method: post, path: /login, run: true}
  - id: 2
    method: get
    path: /me
    run: true
    extend_keys: [token]
    extend_values: [{depends_on: 1, steps: data.token}]
`)
	tools, out := newTools(t, file)

	// Act
	err := tools.Validate(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "VALIDATION PASSED")
}

// TestValidateFiles_ReportsEveryRule tests the individual rules on one batch
func TestValidateFiles_ReportsEveryRule(t *testing.T) {
	// Arrange
	file := writeFile(t, "bad.yaml", `
cases:
  - {id: 1, method: gett, path: /, run: true, delay: 900, check_http_status: true}
  - {id: 1, method: get, path: /, run: true}
  - {id: 3, method: get, path: /, run: false}
  - id: 4
    method: post
    path: /
    run: true
    expected_keys: [code]
    params: {avatar: "file:abc"}
    extend_keys: [userId]
    extend_values: [{depends_on: 3, steps: data.id}]
`)
	tools, _ := newTools(t, file)

	// Act
	result, err := tools.ValidateFiles(context.Background(), []string{file})

	// Assert
	require.NoError(t, err)
	ids := ruleIDs(result.Issues)
	for _, want := range []string{"H001", "H002", "H003", "W001", "S004", "I001", "S005", "D001", "F001"} {
		assert.Contains(t, ids, want)
	}
	assert.False(t, result.Passed())
	assert.Equal(t, 4, result.TotalCases)
	for _, issue := range result.Issues {
		if issue.RuleID == "H001" {
			assert.Equal(t, `did you mean "GET"?`, issue.Suggestion)
		}
	}
}

// TestValidateFiles_UnreadableAndEmpty tests file level failures
func TestValidateFiles_UnreadableAndEmpty(t *testing.T) {
	empty := writeFile(t, "empty.yaml", "cases: []\n")
	tools, out := newTools(t, empty, filepath.Join(t.TempDir(), "missing.yaml"))

	err := tools.Validate(context.Background())

	assert.ErrorContains(t, err, "validation failed with 2 errors")
	assert.Contains(t, out.String(), "S001")
	assert.Contains(t, out.String(), "S002")
}
