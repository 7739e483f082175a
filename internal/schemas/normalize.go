package schemas

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jonathan/resume-extract/internal/types"
	rootschemas "github.com/jonathan/resume-extract/schemas"
)

// node is the subset of JSON Schema the normalizer interprets, plus two extension keywords:
// x-synonyms maps a canonical property to the synonym some profiles emit instead, and
// x-text-field names the free-text list that a bare string item is placed into.
type node struct {
	Type        string            `json:"type"`
	Ref         string            `json:"$ref"`
	Required    []string          `json:"required"`
	Properties  map[string]*node  `json:"properties"`
	Items       *node             `json:"items"`
	Definitions map[string]*node  `json:"definitions"`
	Synonyms    map[string]string `json:"x-synonyms"`
	TextField   string            `json:"x-text-field"`
}

var resumeSchema = mustParseSchema(rootschemas.ResumeRecord)

func mustParseSchema(data []byte) *node {
	root, err := parseSchema(data)
	if err != nil {
		panic(err)
	}
	return root
}

func parseSchema(data []byte) (*node, error) {
	var root node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &SchemaLoadError{Path: rootschemas.ResumeRecordFile, Message: "invalid schema JSON", Cause: err}
	}
	if err := root.resolve(root.Definitions, 0); err != nil {
		return nil, err
	}
	return &root, nil
}

// resolve replaces every local $ref with the definition it points to
func (n *node) resolve(defs map[string]*node, depth int) error {
	if depth > 16 {
		return &SchemaLoadError{Path: rootschemas.ResumeRecordFile, Message: "schema nesting too deep"}
	}
	for name, prop := range n.Properties {
		resolved, err := lookup(prop, defs)
		if err != nil {
			return err
		}
		n.Properties[name] = resolved
		if err := resolved.resolve(defs, depth+1); err != nil {
			return err
		}
	}
	if n.Items != nil {
		resolved, err := lookup(n.Items, defs)
		if err != nil {
			return err
		}
		n.Items = resolved
		return resolved.resolve(defs, depth+1)
	}
	return nil
}

func lookup(n *node, defs map[string]*node) (*node, error) {
	if n.Ref == "" {
		return n, nil
	}
	name := strings.TrimPrefix(n.Ref, "#/definitions/")
	def, ok := defs[name]
	if !ok {
		return nil, &SchemaLoadError{Path: rootschemas.ResumeRecordFile, Message: fmt.Sprintf("unresolved reference %s", n.Ref)}
	}
	return def, nil
}

// Normalize reconciles a profile's raw record with the resume record schema. Synonyms are
// copied onto missing canonical fields, every declared field missing from the input gets its
// default ("" or []), and values of the wrong shape are coerced. Keys the schema does not
// declare are kept. Normalize never fails and normalizing its output again changes nothing.
func Normalize(raw types.RawRecord) types.RawRecord {
	return types.RawRecord(resumeSchema.object(map[string]any(raw)))
}

// NormalizeRecord normalizes raw and decodes the result into a ResumeRecord
func NormalizeRecord(raw types.RawRecord) (*types.ResumeRecord, error) {
	canonical := Normalize(raw)

	var record types.ResumeRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &record,
	})
	if err != nil {
		return nil, &NormalizationError{Message: "failed to create decoder", Cause: err}
	}
	if err := decoder.Decode(map[string]any(canonical)); err != nil {
		return nil, &NormalizationError{Message: "failed to decode normalized record", Cause: err}
	}
	return &record, nil
}

// object normalizes a map against an object schema
func (n *node) object(in map[string]any) map[string]any {
	out := make(map[string]any, len(n.Properties)+len(in))
	for k, v := range in {
		out[k] = v
	}

	for _, canonical := range sortedKeys(n.Synonyms) {
		synonym := n.Synonyms[canonical]
		if isEmpty(out[canonical]) && !isEmpty(out[synonym]) {
			out[canonical] = out[synonym]
		}
	}

	for name, prop := range n.Properties {
		out[name] = prop.value(out[name])
	}
	return out
}

// value coerces v to the shape of the schema node. nil yields the node's default.
func (n *node) value(v any) any {
	switch n.Type {
	case "array":
		return n.array(v)
	case "object":
		if m, ok := asMap(v); ok {
			return n.object(m)
		}
		if v == nil {
			return n.object(nil)
		}
		return n.textItem(v)
	default:
		return toString(v)
	}
}

func (n *node) array(v any) []any {
	out := []any{}
	if v == nil {
		return out
	}
	items, ok := asSlice(v)
	if !ok {
		if s, ok := v.(string); ok && s == "" {
			return out
		}
		items = []any{v}
	}
	for _, item := range items {
		if item == nil {
			continue
		}
		if n.Items == nil {
			out = append(out, item)
			continue
		}
		out = append(out, n.Items.value(item))
	}
	return out
}

// textItem wraps a bare scalar in an object whose free-text list holds it
func (n *node) textItem(v any) map[string]any {
	if n.TextField == "" {
		return n.object(nil)
	}
	return n.object(map[string]any{n.TextField: []any{toString(v)}})
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case types.RawRecord:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	}
	if items, ok := asSlice(v); ok {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if str := toString(item); str != "" {
				parts = append(parts, str)
			}
		}
		return strings.Join(parts, ", ")
	}
	if m, ok := asMap(v); ok {
		data, err := json.Marshal(m)
		if err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

func isEmpty(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	}
	if items, ok := asSlice(v); ok {
		return len(items) == 0
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
