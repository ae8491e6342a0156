package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCaseSpec_Validate_CountMismatch rejects unpaired keys and values.
func TestCaseSpec_Validate_CountMismatch(t *testing.T) {
	cs := CaseSpec{
		ID:         2,
		ExtendKeys: []ValuePath{{"userId"}},
	}
	assert.ErrorIs(t, cs.Validate(), ErrDependCountMismatch)

	cs = CaseSpec{
		ID:             2,
		ExpectedKeys:   []ValuePath{{"code"}, {"message"}},
		ExpectedValues: []ExpectedNode{{Literal: 0}},
	}
	assert.ErrorIs(t, cs.Validate(), ErrExpectedCountMismatch)
}

// TestCaseSpec_Validate_Nodes checks literal and dependency nodes stay exclusive.
func TestCaseSpec_Validate_Nodes(t *testing.T) {
	cs := CaseSpec{
		ExpectedKeys:   []ValuePath{{"code"}},
		ExpectedValues: []ExpectedNode{{Literal: "0", DependsOn: 1}},
	}
	assert.ErrorIs(t, cs.Validate(), ErrInvalidCase)

	cs.ExpectedValues = []ExpectedNode{{Steps: ValuePath{"code"}}}
	assert.ErrorIs(t, cs.Validate(), ErrInvalidCase)

	cs.ExpectedValues = []ExpectedNode{{DependsOn: 1, Steps: ValuePath{"code"}}}
	assert.NoError(t, cs.Validate())

	cs.ExtendKeys = []ValuePath{{"userId"}}
	cs.ExtendValues = []ExtendValue{{DependsOn: 0, Steps: ValuePath{"data", "id"}}}
	assert.ErrorIs(t, cs.Validate(), ErrInvalidCase)
}

// TestNewRecord_Counts summarises report statuses.
func TestNewRecord_Counts(t *testing.T) {
	b := &Batch{ID: "b1", OwnerID: 7, Project: Project{ID: 3}}
	reports := []Report{
		{CaseID: 1, Status: CaseStatusPassed},
		{CaseID: 2, Status: CaseStatusFailed},
		{CaseID: 3, Status: CaseStatusIgnored},
		{CaseID: 4, Status: CaseStatusPassed},
	}

	rec := NewRecord(b, reports, time.Now())

	require.NotEmpty(t, rec.ID)
	assert.Equal(t, 4, rec.Total)
	assert.Equal(t, 2, rec.Passed)
	assert.Equal(t, 1, rec.Failed)
	assert.Equal(t, 1, rec.Ignored)
	assert.Equal(t, int64(3), rec.ProjectID)
	assert.Equal(t, int64(7), rec.OwnerID)
	assert.Equal(t, CaseStatusFailed, rec.Status())
}

func TestNewReport_StartsFailed(t *testing.T) {
	r := NewReport(&CaseSpec{ID: 9, Name: "login", Method: "post"})
	assert.Equal(t, int64(9), r.CaseID)
	assert.Equal(t, "login", r.Name)
	assert.Equal(t, CaseStatusFailed, r.Status)
}
