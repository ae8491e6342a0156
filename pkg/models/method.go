package models

import (
	"net/http"
	"strings"
)

// Method is the closed set of request verbs a case can be dispatched with.
type Method int

const (
	MethodUnsupported Method = iota
	MethodPost
	MethodGet
	MethodPut
	MethodDelete
)

// SupportedMethods lists the lower-case names accepted by ParseMethod.
var SupportedMethods = []string{"post", "get", "put", "delete"}

// ParseMethod matches s case-insensitively against the supported verbs.
// Anything else is MethodUnsupported.
func ParseMethod(s string) Method {
	switch strings.ToLower(s) {
	case "post":
		return MethodPost
	case "get":
		return MethodGet
	case "put":
		return MethodPut
	case "delete":
		return MethodDelete
	default:
		return MethodUnsupported
	}
}

// HTTP returns the net/http verb, or "" for MethodUnsupported.
func (m Method) HTTP() string {
	switch m {
	case MethodPost:
		return http.MethodPost
	case MethodGet:
		return http.MethodGet
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	case MethodUnsupported:
		return ""
	}
	return ""
}

func (m Method) String() string {
	if m == MethodUnsupported {
		return "UNSUPPORTED"
	}
	return m.HTTP()
}
