// Package valuepath reads and writes values inside decoded JSON documents
// addressed by a models.ValuePath.
package valuepath

import (
	"errors"
	"fmt"
	"strconv"

	"go.keploy.io/apicase/pkg/models"
)

// ErrNotContainer is returned by Set when an existing intermediate value is
// not a mapping and so cannot hold the next segment.
var ErrNotContainer = errors.New("value on path is not a mapping")

// Get walks source along steps. A segment made only of digits indexes a
// sequence; any segment looks up a mapping key. A missing key, an index out
// of range or a scalar in the middle of the path yields nil.
func Get(source interface{}, steps models.ValuePath) interface{} {
	cur := source
	for _, step := range steps {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[step]
			if !ok {
				return nil
			}
			cur = v
		case map[interface{}]interface{}:
			v, ok := node[step]
			if !ok {
				return nil
			}
			cur = v
		case []interface{}:
			idx, ok := index(step)
			if !ok || idx >= len(node) {
				return nil
			}
			cur = node[idx]
		default:
			return nil
		}
	}
	return cur
}

// Set assigns value at steps inside target, creating empty mappings for
// missing intermediate segments. Numeric segments are written as mapping
// keys. An empty path leaves target untouched.
func Set(value interface{}, target map[string]interface{}, steps models.ValuePath) error {
	if len(steps) == 0 {
		return nil
	}
	cur := target
	for i, step := range steps[:len(steps)-1] {
		next, ok := cur[step]
		if !ok || next == nil {
			m := map[string]interface{}{}
			cur[step] = m
			cur = m
			continue
		}
		m, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%w: %q holds %T", ErrNotContainer, steps[:i+1].String(), next)
		}
		cur = m
	}
	cur[steps[len(steps)-1]] = value
	return nil
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func index(step string) (int, bool) {
	if !IsDigits(step) {
		return 0, false
	}
	n, err := strconv.Atoi(step)
	if err != nil {
		return 0, false
	}
	return n, true
}
