package models

import (
	"fmt"
)

// MaxDelaySeconds bounds CaseSpec.Delay; larger values are clamped.
const MaxDelaySeconds = 300

// CaseSpec is the stored definition of one HTTP request to test.
type CaseSpec struct {
	ID                 int64                  `json:"id" yaml:"id" bson:"id"`
	Name               string                 `json:"name" yaml:"name" bson:"name"`
	Method             string                 `json:"method" yaml:"method" bson:"method"`
	Host               string                 `json:"host,omitempty" yaml:"host,omitempty" bson:"host,omitempty"`
	Path               string                 `json:"path" yaml:"path" bson:"path"`
	Headers            map[string]string      `json:"headers,omitempty" yaml:"headers,omitempty" bson:"headers,omitempty"`
	Params             map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty" bson:"params,omitempty"`
	Run                bool                   `json:"run" yaml:"run" bson:"run"`
	Delay              int                    `json:"delay,omitempty" yaml:"delay,omitempty" bson:"delay,omitempty"`
	CheckHTTPStatus    bool                   `json:"checkHttpStatus,omitempty" yaml:"check_http_status,omitempty" bson:"check_http_status,omitempty"`
	ExpectedHTTPStatus int                    `json:"expectedHttpStatus,omitempty" yaml:"expected_http_status,omitempty" bson:"expected_http_status,omitempty"`
	ExtendKeys         []ValuePath            `json:"extendKeys,omitempty" yaml:"extend_keys,omitempty" bson:"extend_keys,omitempty"`
	ExtendValues       []ExtendValue          `json:"extendValues,omitempty" yaml:"extend_values,omitempty" bson:"extend_values,omitempty"`
	ExpectedKeys       []ValuePath            `json:"expectedKeys,omitempty" yaml:"expected_keys,omitempty" bson:"expected_keys,omitempty"`
	ExpectedValues     []ExpectedNode         `json:"expectedValues,omitempty" yaml:"expected_values,omitempty" bson:"expected_values,omitempty"`
}

// ExtendValue pulls a request param from an earlier case's response.
type ExtendValue struct {
	DependsOn int64     `json:"dependsOnCaseId" yaml:"depends_on" bson:"depends_on"`
	Steps     ValuePath `json:"steps" yaml:"steps" bson:"steps"`
}

// ExpectedNode is either a literal or a pointer to a field of an earlier
// case's response. DependsOn == 0 means literal; case IDs start at 1.
type ExpectedNode struct {
	Literal   interface{} `json:"literal,omitempty" yaml:"literal,omitempty" bson:"literal,omitempty"`
	DependsOn int64       `json:"dependsOnCaseId,omitempty" yaml:"depends_on,omitempty" bson:"depends_on,omitempty"`
	Steps     ValuePath   `json:"steps,omitempty" yaml:"steps,omitempty" bson:"steps,omitempty"`
}

func (n ExpectedNode) IsLiteral() bool {
	return n.DependsOn == 0
}

// Project supplies defaults for cases that omit host, headers or cookies.
type Project struct {
	ID      int64             `json:"id" yaml:"id" bson:"id"`
	Name    string            `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Host    string            `json:"host,omitempty" yaml:"host,omitempty" bson:"host,omitempty"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" bson:"headers,omitempty"`
	Cookies map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty" bson:"cookies,omitempty"`
}

// Batch is one execution run over an ordered set of cases.
type Batch struct {
	Version Version    `json:"version,omitempty" yaml:"version,omitempty"`
	Kind    Kind       `json:"kind,omitempty" yaml:"kind,omitempty"`
	ID      string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string     `json:"name,omitempty" yaml:"name,omitempty"`
	OwnerID int64      `json:"ownerId" yaml:"owner_id"`
	Project Project    `json:"project" yaml:"project"`
	Cases   []CaseSpec `json:"cases" yaml:"cases"`
}

// File is a stored upload that a multipart param can reference as "file:<id>".
type File struct {
	ID      int64  `json:"id" yaml:"id"`
	OwnerID int64  `json:"ownerId" yaml:"owner_id"`
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`
}

// Validate checks the shape of a case without touching the network.
func (c *CaseSpec) Validate() error {
	if len(c.ExtendKeys) != len(c.ExtendValues) {
		return fmt.Errorf("%w: %d extend keys, %d extend values", ErrDependCountMismatch, len(c.ExtendKeys), len(c.ExtendValues))
	}
	if len(c.ExpectedKeys) != len(c.ExpectedValues) {
		return fmt.Errorf("%w: %d expected keys, %d expected values", ErrExpectedCountMismatch, len(c.ExpectedKeys), len(c.ExpectedValues))
	}
	for i, key := range c.ExtendKeys {
		if len(key) == 0 {
			return fmt.Errorf("%w: extend key %d is empty", ErrInvalidCase, i)
		}
		if c.ExtendValues[i].DependsOn <= 0 {
			return fmt.Errorf("%w: extend value %d has no dependency", ErrInvalidCase, i)
		}
	}
	for i, node := range c.ExpectedValues {
		if node.IsLiteral() && len(node.Steps) > 0 {
			return fmt.Errorf("%w: expected value %d has steps but no dependency", ErrInvalidCase, i)
		}
		if !node.IsLiteral() && node.Literal != nil {
			return fmt.Errorf("%w: expected value %d has both a literal and a dependency", ErrInvalidCase, i)
		}
	}
	return nil
}
