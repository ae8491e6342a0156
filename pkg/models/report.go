package models

type CaseStatus string

const (
	CaseStatusPassed  CaseStatus = "PASSED"
	CaseStatusFailed  CaseStatus = "FAILED"
	CaseStatusIgnored CaseStatus = "IGNORED"
)

// Report is the outcome of one case within one batch.
type Report struct {
	CaseID       int64             `json:"caseId" yaml:"case_id" bson:"case_id"`
	Name         string            `json:"name" yaml:"name" bson:"name"`
	Method       string            `json:"method" yaml:"method" bson:"method"`
	URL          string            `json:"url,omitempty" yaml:"url,omitempty" bson:"url,omitempty"`
	Status       CaseStatus        `json:"status" yaml:"status" bson:"status"`
	HTTPStatus   int               `json:"httpStatus" yaml:"http_status" bson:"http_status"`
	ResponseCode int               `json:"responseCode" yaml:"response_code" bson:"response_code"`
	ResponseBody string            `json:"responseBody,omitempty" yaml:"response_body,omitempty" bson:"response_body,omitempty"`
	TimeUsed     int64             `json:"timeUsed" yaml:"time_used" bson:"time_used"`
	Message      string            `json:"message,omitempty" yaml:"message,omitempty" bson:"message,omitempty"`
	Expected     map[string]string `json:"expected,omitempty" yaml:"expected,omitempty" bson:"expected,omitempty"`
	Actual       map[string]string `json:"actual,omitempty" yaml:"actual,omitempty" bson:"actual,omitempty"`
	Diff         string            `json:"diff,omitempty" yaml:"diff,omitempty" bson:"diff,omitempty"`
	Started      int64             `json:"started" yaml:"started" bson:"started"`
	Completed    int64             `json:"completed" yaml:"completed" bson:"completed"`
}

// NewReport seeds a report from the case it describes. Status starts as FAILED
// and only the verdict can move it to PASSED.
func NewReport(cs *CaseSpec) *Report {
	return &Report{
		CaseID: cs.ID,
		Name:   cs.Name,
		Method: cs.Method,
		Status: CaseStatusFailed,
	}
}
