package models

import (
	"time"

	"github.com/google/uuid"
)

// Record summarises one executed batch.
type Record struct {
	Version   Version  `json:"version" yaml:"version" bson:"version"`
	ID        string   `json:"id" yaml:"id" bson:"_id"`
	BatchID   string   `json:"batchId,omitempty" yaml:"batch_id,omitempty" bson:"batch_id,omitempty"`
	ProjectID int64    `json:"projectId" yaml:"project_id" bson:"project_id"`
	OwnerID   int64    `json:"ownerId" yaml:"owner_id" bson:"owner_id"`
	Total     int      `json:"total" yaml:"total" bson:"total"`
	Passed    int      `json:"passed" yaml:"passed" bson:"passed"`
	Failed    int      `json:"failed" yaml:"failed" bson:"failed"`
	Ignored   int      `json:"ignored" yaml:"ignored" bson:"ignored"`
	Started   int64    `json:"started" yaml:"started" bson:"started"`
	Completed int64    `json:"completed" yaml:"completed" bson:"completed"`
	Reports   []Report `json:"reports" yaml:"reports" bson:"reports"`
}

func (r *Record) GetKind() string {
	return string(RecordKind)
}

// NewRecord summarises reports produced for b between started and now.
func NewRecord(b *Batch, reports []Report, started time.Time) *Record {
	rec := &Record{
		Version:   V1Beta1,
		ID:        uuid.NewString(),
		BatchID:   b.ID,
		ProjectID: b.Project.ID,
		OwnerID:   b.OwnerID,
		Total:     len(reports),
		Started:   started.Unix(),
		Completed: time.Now().Unix(),
		Reports:   reports,
	}
	for _, r := range reports {
		switch r.Status {
		case CaseStatusPassed:
			rec.Passed++
		case CaseStatusFailed:
			rec.Failed++
		case CaseStatusIgnored:
			rec.Ignored++
		}
	}
	return rec
}

// Status is PASSED only when no case failed.
func (r *Record) Status() CaseStatus {
	if r.Failed > 0 {
		return CaseStatusFailed
	}
	return CaseStatusPassed
}
