package domain

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/awdb-etl/internal/table"
)

//go:embed reference_schemas.yaml
var referenceSchemasYAML []byte

type referenceField struct {
	Key    string `yaml:"key"`
	Column string `yaml:"column"`
	Type   string `yaml:"type"`
}

// referenceSchemas maps each reference type tag to its field descriptors.
var referenceSchemas = mustLoadReferenceSchemas(referenceSchemasYAML)

func mustLoadReferenceSchemas(data []byte) map[string][]referenceField {
	schemas, err := loadReferenceSchemas(data)
	if err != nil {
		panic(err)
	}
	return schemas
}

func loadReferenceSchemas(data []byte) (map[string][]referenceField, error) {
	var schemas map[string][]referenceField
	if err := yaml.Unmarshal(data, &schemas); err != nil {
		return nil, fmt.Errorf("parse reference schemas: %w", err)
	}
	for tag, fields := range schemas {
		for _, f := range fields {
			switch f.Type {
			case "string", "int", "float", "bool":
			default:
				return nil, fmt.Errorf("reference schema %s: field %s has unknown type %q", tag, f.Key, f.Type)
			}
		}
	}
	return schemas, nil
}

// ReferenceTypes returns the supported reference type tags, sorted.
func ReferenceTypes() []string {
	tags := make([]string, 0, len(referenceSchemas))
	for tag := range referenceSchemas {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsReferenceType reports whether tag names a supported vocabulary.
func IsReferenceType(tag string) bool {
	_, ok := referenceSchemas[tag]
	return ok
}

// ReferenceEntry is one row of a reference vocabulary, keyed by output column
// and holding string, int, float64 or bool values.
type ReferenceEntry map[string]any

// LoadReference extracts the vocabulary named by tag from /reference-data
// documents and lays it out as a flat, pruned table.
//
// An unknown tag yields an empty table and a nil error. This is deliberately
// more lenient than the primary endpoints, which fail on any schema mismatch:
// callers probe vocabularies by name and an unsupported one simply has no
// rows. Use IsReferenceType to tell the two cases apart. A known tag whose
// documents are malformed still fails with a *DecodeError.
func LoadReference(tag string, docs ...[]byte) (*table.Table, error) {
	t, _, err := loadReference(tag, docs)
	return t, err
}

func loadReference(tag string, docs [][]byte) (*table.Table, []string, error) {
	fields, ok := referenceSchemas[tag]
	if !ok {
		return table.Empty(), nil, nil
	}

	var entries []ReferenceEntry
	for i, doc := range docs {
		recs, err := decodeReferenceDocument(tag, fields, doc)
		if err != nil {
			var fe *fieldError
			if errors.As(err, &fe) {
				return nil, nil, &DecodeError{Endpoint: EndpointReference, Document: i, Path: fe.path, Err: fe.err}
			}
			return nil, nil, &DecodeError{Endpoint: EndpointReference, Document: i, Err: err}
		}
		entries = append(entries, recs...)
	}
	t, dropped := table.PruneReport(table.Build(referenceSchema(fields), entries))
	return t, dropped, nil
}

var (
	errNotObject = errors.New("expected a JSON object keyed by reference type")
	errNotList   = errors.New("expected a JSON array")
	errNotEntry  = errors.New("expected a JSON object")
)

func decodeReferenceDocument(tag string, fields []referenceField, doc []byte) ([]ReferenceEntry, error) {
	root, err := oj.Parse(doc)
	if err != nil {
		return nil, err
	}
	if _, ok := root.(map[string]any); !ok {
		return nil, errNotObject
	}

	// A vocabulary that was not requested is simply not in the document.
	found := jp.R().C(tag).Get(root)
	if len(found) == 0 || found[0] == nil {
		return nil, nil
	}
	list, ok := found[0].([]any)
	if !ok {
		return nil, &fieldError{path: "." + tag, err: errNotList}
	}

	entries := make([]ReferenceEntry, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf(".%s[%d]", tag, i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &fieldError{path: path, err: errNotEntry}
		}
		entry, err := convertReferenceEntry(fields, obj, path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func convertReferenceEntry(fields []referenceField, obj map[string]any, path string) (ReferenceEntry, error) {
	entry := make(ReferenceEntry, len(fields))
	for _, f := range fields {
		raw, ok := obj[f.Key]
		if !ok || raw == nil {
			continue
		}
		v, err := convertReferenceValue(f.Type, raw)
		if err != nil {
			return nil, &fieldError{path: path + "." + f.Key, err: err}
		}
		entry[f.Column] = v
	}
	return entry, nil
}

func convertReferenceValue(typ string, raw any) (any, error) {
	switch typ {
	case "string":
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case "bool":
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case "int":
		switch n := raw.(type) {
		case int64:
			return int(n), nil
		case float64:
			if n == math.Trunc(n) {
				return int(n), nil
			}
		}
	case "float":
		switch n := raw.(type) {
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		}
	}
	return nil, fmt.Errorf("%T is not a %s", raw, typ)
}

func referenceSchema(fields []referenceField) table.Schema[ReferenceEntry] {
	s := make(table.Schema[ReferenceEntry], 0, len(fields))
	for _, f := range fields {
		col := f.Column
		switch f.Type {
		case "string":
			s = append(s, table.OptString(col, func(e ReferenceEntry) *string { return entryValue[string](e, col) }))
		case "int":
			s = append(s, table.OptInt(col, func(e ReferenceEntry) *int { return entryValue[int](e, col) }))
		case "float":
			s = append(s, table.OptFloat(col, func(e ReferenceEntry) *float64 { return entryValue[float64](e, col) }))
		case "bool":
			s = append(s, table.OptBool(col, func(e ReferenceEntry) *bool { return entryValue[bool](e, col) }))
		}
	}
	return s
}

func entryValue[T any](e ReferenceEntry, col string) *T {
	v, ok := e[col].(T)
	if !ok {
		return nil
	}
	return &v
}
