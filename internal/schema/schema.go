// internal/schema/schema.go
// Package schema declares the field-level output contracts that structured
// evaluation cases validate model responses against.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Kind names a permitted field type.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// knownKinds is the closed set accepted by Compile.
var knownKinds = map[Kind]bool{
	KindString:  true,
	KindInteger: true,
	KindNumber:  true,
	KindBoolean: true,
	KindArray:   true,
	KindObject:  true,
}

// Schema describes the shape a model response must conform to. Strict mode
// reports undeclared fields as violations; lenient mode ignores them.
type Schema struct {
	Strict bool    `json:"strict,omitempty" yaml:"strict,omitempty"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field declares a single named member. Array fields carry an element
// declaration in Elem (its Name is unused); object fields carry their
// members in Fields. Defaults are only permitted on optional fields.
type Field struct {
	Name     string  `json:"name" yaml:"name"`
	Type     Kind    `json:"type" yaml:"type"`
	Required bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Default  any     `json:"default,omitempty" yaml:"default,omitempty"`
	Elem     *Field  `json:"elem,omitempty" yaml:"elem,omitempty"`
	Fields   []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ViolationKind classifies a single schema violation.
type ViolationKind string

const (
	MissingRequired ViolationKind = "missing_required"
	TypeMismatch    ViolationKind = "type_mismatch"
	UnexpectedField ViolationKind = "unexpected_field"
	NestedViolation ViolationKind = "nested_violation"
)

// Violation records one way a value failed validation. Paths use dot
// notation for object members and bracket notation for array indices,
// e.g. "user.emails[2]".
type Violation struct {
	Path     string        `json:"path"`
	Kind     ViolationKind `json:"kind"`
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
}

// Compiled is a validated, executable form of a Schema.
type Compiled struct {
	js  *gojsonschema.Schema
	doc map[string]any
}

// Compile checks the declaration itself and prepares it for validation.
// Declaration problems (unknown type names, arrays without an element
// declaration, objects without members, defaults on required fields) are
// case-configuration errors and surface here, never during Validate.
func (s Schema) Compile() (*Compiled, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	js, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Compiled{js: js, doc: doc}, nil
}

// JSONSchema returns the declaration translated to a JSON Schema document,
// usable for prompt rendering.
func (s Schema) JSONSchema() (map[string]any, error) {
	return s.document()
}

func (s Schema) document() (map[string]any, error) {
	return objectDocument(s.Fields, s.Strict, "")
}

func objectDocument(fields []Field, strict bool, path string) (map[string]any, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema object %q declares no fields", displayPath(path))
	}
	props := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema object %q contains an unnamed field", displayPath(path))
		}
		if _, dup := props[f.Name]; dup {
			return nil, fmt.Errorf("schema object %q declares field %q twice", displayPath(path), f.Name)
		}
		fs, err := fieldDocument(f, strict, joinPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		props[f.Name] = fs
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		sort.Strings(required)
		doc["required"] = required
	}
	if strict {
		doc["additionalProperties"] = false
	}
	return doc, nil
}

func fieldDocument(f Field, strict bool, path string) (map[string]any, error) {
	if !knownKinds[f.Type] {
		return nil, fmt.Errorf("schema field %q has unknown type %q", path, f.Type)
	}
	if f.Required && f.Default != nil {
		return nil, fmt.Errorf("schema field %q is required and cannot carry a default", path)
	}
	var doc map[string]any
	switch f.Type {
	case KindObject:
		nested, err := objectDocument(f.Fields, strict, path)
		if err != nil {
			return nil, err
		}
		doc = nested
	case KindArray:
		if f.Elem == nil {
			return nil, fmt.Errorf("schema field %q is an array without an element declaration", path)
		}
		elem, err := fieldDocument(*f.Elem, strict, path+"[]")
		if err != nil {
			return nil, err
		}
		doc = map[string]any{"type": "array", "items": elem}
	default:
		doc = map[string]any{"type": string(f.Type)}
	}
	if f.Default != nil {
		doc["default"] = f.Default
	}
	return doc, nil
}

// Validate checks an already-parsed JSON value and returns every violation
// found. It never panics on malformed input; an empty result means the
// value conforms.
func (c *Compiled) Validate(value any) []Violation {
	result, err := c.js.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return []Violation{{
			Kind:     TypeMismatch,
			Expected: "a JSON-representable value",
			Actual:   err.Error(),
		}}
	}
	if result.Valid() {
		return nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		violations = append(violations, translate(re))
	}

	// Each parent whose children failed gets one nested_violation marker;
	// the child keeps its own kind at its own path.
	parents := map[string]bool{}
	for _, v := range violations {
		if p := parentPath(v.Path); p != "" {
			parents[p] = true
		}
	}
	for p := range parents {
		violations = append(violations, Violation{
			Path:     p,
			Kind:     NestedViolation,
			Expected: "a conforming nested value",
			Actual:   "contains violations",
		})
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Kind < violations[j].Kind
	})
	return violations
}

// translate maps one gojsonschema error to a typed Violation.
func translate(re gojsonschema.ResultError) Violation {
	details := re.Details()
	switch re.Type() {
	case "required":
		prop, _ := details["property"].(string)
		return Violation{
			Path:     joinPath(cleanField(re.Field()), prop),
			Kind:     MissingRequired,
			Expected: "field present",
			Actual:   "field absent",
		}
	case "invalid_type":
		expected, _ := details["expected"].(string)
		given, _ := details["given"].(string)
		return Violation{
			Path:     cleanField(re.Field()),
			Kind:     TypeMismatch,
			Expected: expected,
			Actual:   given,
		}
	case "additional_property_not_allowed":
		prop, _ := details["property"].(string)
		return Violation{
			Path:     joinPath(cleanField(re.Field()), prop),
			Kind:     UnexpectedField,
			Expected: "declared fields only",
			Actual:   "undeclared field",
		}
	default:
		return Violation{
			Path:     cleanField(re.Field()),
			Kind:     TypeMismatch,
			Expected: re.Description(),
			Actual:   re.Type(),
		}
	}
}

// cleanField converts gojsonschema's dotted field notation to the
// bracketed path form ("tags.1" becomes "tags[1]", "(root)" becomes "").
func cleanField(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	var b strings.Builder
	for i, seg := range strings.Split(field, ".") {
		if isIndex(seg) {
			b.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(seg)
	}
	return b.String()
}

func isIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parentPath strips the final segment: "metadata.created" yields
// "metadata", "tags[1]" yields "tags", top-level paths yield "".
func parentPath(path string) string {
	dot := strings.LastIndex(path, ".")
	bracket := strings.LastIndex(path, "[")
	cut := dot
	if bracket > cut {
		cut = bracket
	}
	if cut <= 0 {
		return ""
	}
	return path[:cut]
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
