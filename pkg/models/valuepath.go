package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValuePath addresses a value inside a decoded JSON document. A segment made
// only of digits addresses a sequence index, any other segment a mapping key.
//
// On the wire a ValuePath is either a list of segments or a single dotted
// string such as "data.records.0.name".
type ValuePath []string

// ParseValuePath splits a dotted path. The empty string yields an empty path.
func ParseValuePath(s string) ValuePath {
	if s == "" {
		return ValuePath{}
	}
	return ValuePath(strings.Split(s, "."))
}

func (p ValuePath) String() string {
	return strings.Join(p, ".")
}

// Key renders p as a report key. Segments holding a dot or a bracket are
// written as ["seg"], so ["a.b"] and ["a","b"] never share a key.
func (p ValuePath) Key() string {
	var b strings.Builder
	for i, seg := range p {
		if strings.ContainsAny(seg, ".[]\"") {
			b.WriteString("[")
			b.WriteString(strconv.Quote(seg))
			b.WriteString("]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}

func (p *ValuePath) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = ParseValuePath(node.Value)
		return nil
	case yaml.SequenceNode:
		segments := make(ValuePath, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("value path segment at line %d is not a scalar", item.Line)
			}
			segments = append(segments, item.Value)
		}
		*p = segments
		return nil
	default:
		return fmt.Errorf("value path at line %d must be a string or a list of segments", node.Line)
	}
}

func (p *ValuePath) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = ParseValuePath(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("value path must be a string or a list of segments: %w", err)
	}
	segments := make(ValuePath, 0, len(raw))
	for _, r := range raw {
		switch v := r.(type) {
		case string:
			segments = append(segments, v)
		case json.Number:
			segments = append(segments, v.String())
		default:
			return fmt.Errorf("invalid value path segment %v", r)
		}
	}
	*p = segments
	return nil
}
