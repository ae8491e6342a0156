package report

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.keploy.io/apicase/config"
	"go.keploy.io/apicase/pkg/models"
	"go.uber.org/zap"
)

type fakeRecordDB struct {
	records map[string]*models.Record
	ids     []string
	err     error
}

func (f *fakeRecordDB) GetRecord(_ context.Context, id string) (*models.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRecordDB) GetRecordIDs(context.Context) ([]string, error) {
	return f.ids, f.err
}

func sampleDB() *fakeRecordDB {
	return &fakeRecordDB{
		ids: []string{"r1", "gone"},
		records: map[string]*models.Record{
			"r1": {
				ID: "r1", BatchID: "signup", Total: 2, Passed: 1, Failed: 1,
				Reports: []models.Report{
					{CaseID: 1, Name: "login", Method: "post", Status: models.CaseStatusPassed, HTTPStatus: 200},
					{
						CaseID: 2, Name: "profile", Method: "get", Status: models.CaseStatusFailed, HTTPStatus: 200,
						Message:      "1 of 1 expected values differ",
						ResponseBody: `{"code":1,"message":"user locked"}`,
						Expected:     map[string]string{"code": "0"},
						Actual:       map[string]string{"code": "1"},
						Diff:         `[{"op":"replace","path":"/code","value":"1"}]`,
					},
				},
			},
		},
	}
}

// TestGenerateReport_ListsRecords tests the overview table of stored records
func TestGenerateReport_ListsRecords(t *testing.T) {
	// Arrange
	out := &bytes.Buffer{}
	r := New(zap.NewNop(), &config.Config{}, sampleDB(), out)

	// Act
	err := r.GenerateReport(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out.String(), "r1")
	assert.Contains(t, out.String(), "signup")
	assert.NotContains(t, out.String(), "gone")
}

// TestGenerateReport_SingleRecord tests printing one record with its failures
func TestGenerateReport_SingleRecord(t *testing.T) {
	// Arrange
	out := &bytes.Buffer{}
	cfg := &config.Config{Report: config.Report{RecordID: "r1"}}
	r := New(zap.NewNop(), cfg, sampleDB(), out)

	// Act
	err := r.GenerateReport(context.Background())

	// Assert
	require.NoError(t, err)
	s := out.String()
	assert.Contains(t, s, "record r1 of batch signup")
	assert.Contains(t, s, "profile")
	assert.Contains(t, s, "response message: user locked")
	assert.Contains(t, s, "1 of 1 expected values differ")
	assert.Contains(t, s, "response body:\n{\n  \"code\": 1,\n  \"message\": \"user locked\"\n}")
}

// TestPrettyBody tests that bodies are indented in their original key order
func TestPrettyBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"keeps key order", `{"z":1,"a":{"y":true,"b":"x"}}`, "{\n  \"z\": 1,\n  \"a\": {\n    \"y\": true,\n    \"b\": \"x\"\n  }\n}"},
		{"array", `[{"b":1,"a":2}]`, "[\n  {\n    \"b\": 1,\n    \"a\": 2\n  }\n]"},
		{"not json", "<html>bad gateway</html>", "<html>bad gateway</html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, prettyBody(tt.body))
		})
	}
}

// TestGenerateReport_UnknownRecord tests the not found error
func TestGenerateReport_UnknownRecord(t *testing.T) {
	cfg := &config.Config{Report: config.Report{RecordID: "nope"}}
	r := New(zap.NewNop(), cfg, sampleDB(), &bytes.Buffer{})

	err := r.GenerateReport(context.Background())

	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

// TestGenerateReport_ListError tests that listing failures are returned
func TestGenerateReport_ListError(t *testing.T) {
	db := sampleDB()
	db.err = errors.New("down")
	r := New(zap.NewNop(), &config.Config{}, db, &bytes.Buffer{})

	err := r.GenerateReport(context.Background())

	assert.ErrorContains(t, err, "down")
}

// TestGenerateReport_Empty tests that an empty store is not an error
func TestGenerateReport_Empty(t *testing.T) {
	out := &bytes.Buffer{}
	r := New(zap.NewNop(), &config.Config{}, &fakeRecordDB{}, out)

	err := r.GenerateReport(context.Background())

	require.NoError(t, err)
	assert.Empty(t, out.String())
}
