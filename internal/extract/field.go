// Package extract implements the per-section heuristic extractors shared by every profile.
//
// Each extractor walks its section's lines top to bottom with a small state machine:
// a line either starts a new entry (boundary detection) or is attributed to the open entry,
// filling a still-missing scalar field when it matches that field's pattern and otherwise
// landing in the entry's free-text list. Extractors never fail; fields without a match are
// reported as not found and left for the normalizer to default.
package extract

// Field is the result of extracting one scalar value
type Field struct {
	Value string
	Found bool
}

// Found returns a found field holding value
func Found(value string) Field {
	return Field{Value: value, Found: true}
}

// Set fills the field if it is still missing and value is non-empty. It reports whether it did.
func (f *Field) Set(value string) bool {
	if f.Found || value == "" {
		return false
	}
	f.Value = value
	f.Found = true
	return true
}

// put adds key to m when the field was found
func (f Field) put(m map[string]any, key string) {
	if f.Found {
		m[key] = f.Value
	}
}
