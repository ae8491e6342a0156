package executor

import (
	"go.keploy.io/apicase/pkg/models"
)

// depStore holds the reports and decoded responses of the cases that already
// ran in the current batch. It is owned by a single Execute call.
type depStore struct {
	reports   map[int64]*models.Report
	responses map[int64]interface{}
}

func newDepStore() *depStore {
	return &depStore{
		reports:   make(map[int64]*models.Report),
		responses: make(map[int64]interface{}),
	}
}

func (d *depStore) put(r *models.Report, response interface{}) {
	d.reports[r.CaseID] = r
	d.responses[r.CaseID] = response
}

// ReportFor returns the report of an earlier case of the batch.
func (d *depStore) ReportFor(caseID int64) (*models.Report, bool) {
	r, ok := d.reports[caseID]
	return r, ok
}

// ResponseFor returns the decoded response body of an earlier case.
func (d *depStore) ResponseFor(caseID int64) (interface{}, bool) {
	v, ok := d.responses[caseID]
	return v, ok
}
