package reportdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.keploy.io/apicase/pkg/models"
	"go.uber.org/zap"
)

// TestInsertAndGetRecord round trips a record through its yaml file.
func TestInsertAndGetRecord(t *testing.T) {
	ctx := context.Background()
	db := New(zap.NewNop(), t.TempDir())
	rec := &models.Record{
		Version: models.V1Beta1, ID: "record-1", ProjectID: 3, OwnerID: 9,
		Total: 2, Passed: 1, Failed: 1,
		Reports: []models.Report{
			{CaseID: 1, Status: models.CaseStatusPassed, HTTPStatus: 200},
			{CaseID: 2, Status: models.CaseStatusFailed, Expected: map[string]string{"code": "0"}, Actual: map[string]string{"code": "1"}},
		},
	}

	require.NoError(t, db.InsertRecord(ctx, rec))
	got, err := db.GetRecord(ctx, "record-1")

	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

// TestGetRecordIDs_NaturalOrder sorts ids the way people count.
func TestGetRecordIDs_NaturalOrder(t *testing.T) {
	ctx := context.Background()
	db := New(zap.NewNop(), t.TempDir())
	for _, id := range []string{"record-10", "record-2", "record-1"} {
		require.NoError(t, db.InsertRecord(ctx, &models.Record{ID: id}))
	}

	ids, err := db.GetRecordIDs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"record-1", "record-2", "record-10"}, ids)
}

// TestGetRecordIDs_EmptyStore returns no ids before anything was written.
func TestGetRecordIDs_EmptyStore(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	ids, err := db.GetRecordIDs(context.Background())

	require.NoError(t, err)
	assert.Empty(t, ids)
}

// TestGetRecord_NotFound wraps ErrRecordNotFound.
func TestGetRecord_NotFound(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	_, err := db.GetRecord(context.Background(), "missing")

	assert.ErrorIs(t, err, models.ErrRecordNotFound)
}

// TestInsertRecord_RejectsTraversal refuses ids that escape the directory.
func TestInsertRecord_RejectsTraversal(t *testing.T) {
	db := New(zap.NewNop(), t.TempDir())

	err := db.InsertRecord(context.Background(), &models.Record{ID: "../evil"})

	assert.Error(t, err)
}
