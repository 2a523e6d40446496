// Package heuristic provides scorers that need no model: exact and edit-distance matching.
package heuristic

import "strings"

// Normalization controls how texts are prepared before comparison
type Normalization struct {
	// CaseInsensitive determines if the comparison should ignore case
	CaseInsensitive bool
	// TrimWhitespace determines if leading and trailing whitespace should be trimmed
	TrimWhitespace bool
}

func (n Normalization) apply(s string) string {
	if n.TrimWhitespace {
		s = strings.TrimSpace(s)
	}
	if n.CaseInsensitive {
		s = strings.ToLower(s)
	}
	return s
}

func (n Normalization) metadata(m map[string]any) {
	m["case_insensitive"] = n.CaseInsensitive
	m["trim_whitespace"] = n.TrimWhitespace
}
