package executor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.keploy.io/apicase/pkg/models"
	"go.keploy.io/apicase/pkg/valuepath"
	"go.keploy.io/apicase/utils"
	"go.uber.org/zap"
)

// evaluate fills report from res. The report stays FAILED unless every
// expected value matches what the response holds at the same path.
func (e *Executor) evaluate(cs *models.CaseSpec, report *models.Report, res *result, deps *depStore) {
	report.TimeUsed = res.elapsed.Milliseconds()
	report.Status = models.CaseStatusFailed
	report.HTTPStatus = res.status
	report.ResponseBody = string(res.body)
	if res.err != nil {
		report.Message = res.err.Error()
	}

	if cs.CheckHTTPStatus && res.status != cs.ExpectedHTTPStatus {
		report.Message = fmt.Sprintf("expected http status %d, got %d", cs.ExpectedHTTPStatus, res.status)
		return
	}

	report.ResponseCode = responseCode(res.body)

	expected := make(map[string]string, len(cs.ExpectedKeys))
	actual := make(map[string]string, len(cs.ExpectedKeys))
	for i, key := range cs.ExpectedKeys {
		k := key.Key()
		if _, dup := expected[k]; dup {
			k = fmt.Sprintf("%s#%d", k, i)
		}
		actual[k] = Stringify(valuepath.Get(res.response, key))

		node := cs.ExpectedValues[i]
		if node.IsLiteral() {
			expected[k] = Stringify(node.Literal)
			continue
		}
		resp, ok := deps.ResponseFor(node.DependsOn)
		if !ok {
			report.Message = fmt.Sprintf("%s: expected value of %q needs case %d", models.ErrDependencyNotFound, k, node.DependsOn)
			return
		}
		expected[k] = Stringify(valuepath.Get(resp, node.Steps))
	}
	report.Expected = expected
	report.Actual = actual

	mismatched := 0
	for k, want := range expected {
		if actual[k] != want {
			mismatched++
		}
	}
	if mismatched == 0 {
		// a sentinel body never passes, even when nothing is expected of it
		if !errors.Is(res.err, models.ErrTransportFailure) {
			report.Status = models.CaseStatusPassed
		}
		return
	}

	diff, err := utils.JSONPatch(expected, actual)
	if err != nil {
		e.logger.Debug("failed to diff expected and actual values", zap.Int64("case", cs.ID), zap.Error(err))
	}
	report.Diff = diff
	if report.Message == "" {
		report.Message = fmt.Sprintf("%d of %d expected values differ", mismatched, len(expected))
	}
}

// responseCode reads the conventional "code" field, numeric or numeric string.
func responseCode(body []byte) int {
	r := gjson.GetBytes(body, "code")
	switch r.Type {
	case gjson.Number:
		return int(r.Int())
	case gjson.String:
		if n, err := strconv.Atoi(strings.TrimSpace(r.Str)); err == nil {
			return n
		}
	}
	return 0
}

// Stringify renders v the way both sides of a comparison are written:
// strings verbatim, numbers in their shortest decimal form whether they were
// decoded as json.Number or as Go numbers, booleans as true/false, nil as
// null and containers as compact JSON.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return canonicalNumber(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(canonicalNumbers(t)); err != nil {
			return fmt.Sprint(t)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}

// canonicalNumber prints n the way strconv prints the Go number it holds, so
// 1.0 and 0.50 from a response compare equal to 1 and 0.5 from a case file.
// Integers beyond int64 keep their literal digits.
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	s := n.String()
	if valuepath.IsDigits(strings.TrimPrefix(s, "-")) {
		return s
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}

func canonicalNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		return json.Number(canonicalNumber(t))
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = canonicalNumbers(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = canonicalNumbers(item)
		}
		return out
	}
	return v
}
