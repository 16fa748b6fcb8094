// Package model defines the document shape shared across the indexing and
// search packages.
package model

import "strconv"

// Document is a flexible map representing a single indexable record. Field
// values are looked up by name; the default extractor coerces whatever it
// finds to a string (see config.Options.ExtractField).
type Document map[string]interface{}

// StringField coerces a field's value to text the way the default field
// extractor does: strings pass through, string and interface slices join
// with a space, numbers are formatted, everything else is reported absent.
func (d Document) StringField(name string) (string, bool) {
	val, ok := d[name]
	if !ok {
		return "", false
	}
	switch v := val.(type) {
	case string:
		return v, true
	case []string:
		return joinStrings(v), true
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return joinStrings(parts), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}

// ExternalID extracts a document's external ID field as a string, the way
// a default id_field extraction does: only a non-empty string value
// counts, matching the MissingId failure mode.
func (d Document) ExternalID(idField string) (string, bool) {
	v, ok := d[idField]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}
