// Package model defines the core data types shared across ingestion,
// classification, and storage: source records, classification results, and
// the unified crime-gun event schema.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceRowKey is the private key the CSV coordinator adds to each record
// for traceability back to the 1-based source row (header = row 1).
const SourceRowKey = "_source_row"

// Record is one source row: a flat mapping of field name to scalar value.
// Values come from JSON, CSV cells, or database columns and may be strings,
// numbers, booleans, or nil.
type Record map[string]any

// Text returns the first non-empty string value among the given field names.
// Non-string scalars are formatted; nil values are skipped.
func (r Record) Text(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		default:
			s = fmt.Sprint(t)
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return ""
}

// ID returns the record's integer identifier, checking "id" then "rowid".
// Returns 0 if neither is present or parseable.
func (r Record) ID() int64 {
	for _, k := range []string{"id", "rowid"} {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case int64:
			return t
		case int:
			return int64(t)
		case float64:
			return int64(t)
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
				return n
			}
		}
	}
	return 0
}

// SourceRow returns the 1-based source row the CSV coordinator attached,
// or 0 when the record did not come from a CSV.
func (r Record) SourceRow() int {
	v, ok := r[SourceRowKey]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}
