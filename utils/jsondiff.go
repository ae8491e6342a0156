package utils

import (
	"bytes"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/wI2L/jsondiff"
)

// JSONPatch renders the RFC 6902 patch that turns expected into actual.
func JSONPatch(expected, actual interface{}) (string, error) {
	patch, err := jsondiff.Compare(expected, actual)
	if err != nil {
		return "", err
	}
	if len(patch) == 0 {
		return "", nil
	}
	return patch.String(), nil
}

// ExpectActualTable lays out every key of expected next to its actual value.
// Keys present only in actual are listed too.
func ExpectActualTable(expected, actual map[string]string) string {
	keys := make([]string, 0, len(expected))
	for k := range expected {
		keys = append(keys, k)
	}
	for k := range actual {
		if _, ok := expected[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	buf := &bytes.Buffer{}
	table := tablewriter.NewWriter(buf)
	table.Header("Key", "Expected", "Actual")
	for _, k := range keys {
		_ = table.Append([]string{k, expected[k], actual[k]})
	}
	_ = table.Render()
	return buf.String()
}
