// internal/schema/schema_test.go
package schema

import (
	"testing"
)

func personSchema(strict bool) Schema {
	return Schema{
		Strict: strict,
		Fields: []Field{
			{Name: "name", Type: KindString, Required: true},
			{Name: "age", Type: KindInteger, Required: true},
			{Name: "email", Type: KindString},
		},
	}
}

func mustCompile(t *testing.T, s Schema) *Compiled {
	t.Helper()
	c, err := s.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return c
}

// TestValidateMissingRequired verifies that a value missing one required
// field yields exactly one missing_required violation at that field's path.
func TestValidateMissingRequired(t *testing.T) {
	t.Parallel()

	c := mustCompile(t, personSchema(false))
	violations := c.Validate(map[string]any{"name": "John"})

	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d: %+v", len(violations), violations)
	}
	v := violations[0]
	if v.Path != "age" {
		t.Errorf("path = %q, want %q", v.Path, "age")
	}
	if v.Kind != MissingRequired {
		t.Errorf("kind = %q, want %q", v.Kind, MissingRequired)
	}
}

func TestValidateConformingValue(t *testing.T) {
	t.Parallel()

	c := mustCompile(t, personSchema(true))
	violations := c.Validate(map[string]any{"name": "John", "age": 30})
	if len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestValidateTypeMismatch(t *testing.T) {
	t.Parallel()

	c := mustCompile(t, personSchema(false))
	violations := c.Validate(map[string]any{"name": "John", "age": "thirty"})

	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %+v", violations)
	}
	if violations[0].Path != "age" || violations[0].Kind != TypeMismatch {
		t.Errorf("got %+v, want type_mismatch at age", violations[0])
	}
}

// TestValidateStrictness verifies that undeclared fields are violations in
// strict mode and ignored in lenient mode.
func TestValidateStrictness(t *testing.T) {
	t.Parallel()

	value := map[string]any{"name": "John", "age": 30, "nickname": "JJ"}

	if violations := personSchemaValidate(t, false, value); len(violations) != 0 {
		t.Fatalf("lenient mode: expected no violations, got %+v", violations)
	}

	violations := personSchemaValidate(t, true, value)
	if len(violations) != 1 {
		t.Fatalf("strict mode: expected 1 violation, got %+v", violations)
	}
	if violations[0].Kind != UnexpectedField || violations[0].Path != "nickname" {
		t.Errorf("strict mode: got %+v, want unexpected_field at nickname", violations[0])
	}
}

func personSchemaValidate(t *testing.T, strict bool, value any) []Violation {
	t.Helper()
	return mustCompile(t, personSchema(strict)).Validate(value)
}

// TestValidateNested verifies that child violations keep their own kind at
// the prefixed path while the parent is tagged with a nested_violation.
func TestValidateNested(t *testing.T) {
	t.Parallel()

	s := Schema{
		Fields: []Field{
			{Name: "title", Type: KindString, Required: true},
			{Name: "tags", Type: KindArray, Elem: &Field{Type: KindString}},
			{Name: "metadata", Type: KindObject, Fields: []Field{
				{Name: "created", Type: KindString, Required: true},
				{Name: "author", Type: KindString},
			}},
		},
	}
	c := mustCompile(t, s)

	violations := c.Validate(map[string]any{
		"title":    "Deep Dive",
		"metadata": map[string]any{"author": "jane"},
	})

	wantKinds := map[string]ViolationKind{
		"metadata.created": MissingRequired,
		"metadata":         NestedViolation,
	}
	if len(violations) != len(wantKinds) {
		t.Fatalf("expected %d violations, got %+v", len(wantKinds), violations)
	}
	for _, v := range violations {
		want, ok := wantKinds[v.Path]
		if !ok {
			t.Errorf("unexpected violation path %q", v.Path)
			continue
		}
		if v.Kind != want {
			t.Errorf("path %q: kind = %q, want %q", v.Path, v.Kind, want)
		}
	}
}

// TestValidateArrayIndexPath verifies bracket notation for array element
// violations.
func TestValidateArrayIndexPath(t *testing.T) {
	t.Parallel()

	s := Schema{
		Fields: []Field{
			{Name: "tags", Type: KindArray, Elem: &Field{Type: KindString}},
		},
	}
	c := mustCompile(t, s)

	violations := c.Validate(map[string]any{"tags": []any{"ok", 5}})

	var found bool
	for _, v := range violations {
		if v.Path == "tags[1]" && v.Kind == TypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected type_mismatch at tags[1], got %+v", violations)
	}
	var nested bool
	for _, v := range violations {
		if v.Path == "tags" && v.Kind == NestedViolation {
			nested = true
		}
	}
	if !nested {
		t.Fatalf("expected nested_violation at tags, got %+v", violations)
	}
}

// TestValidateNeverPanics feeds hostile values through validation and only
// requires that each produces a violation list without panicking.
func TestValidateNeverPanics(t *testing.T) {
	t.Parallel()

	c := mustCompile(t, personSchema(true))
	values := []any{
		nil,
		"just a string",
		42,
		[]any{1, 2, 3},
		map[string]any{"name": nil, "age": nil},
	}
	for _, value := range values {
		if violations := c.Validate(value); len(violations) == 0 {
			t.Errorf("value %#v: expected violations, got none", value)
		}
	}
}

func TestCompileRejectsBadDeclarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema Schema
	}{
		{"unknown type", Schema{Fields: []Field{{Name: "x", Type: "uuid"}}}},
		{"array without elem", Schema{Fields: []Field{{Name: "xs", Type: KindArray}}}},
		{"object without fields", Schema{Fields: []Field{{Name: "m", Type: KindObject}}}},
		{"default on required", Schema{Fields: []Field{{Name: "x", Type: KindString, Required: true, Default: "y"}}}},
		{"duplicate field", Schema{Fields: []Field{{Name: "x", Type: KindString}, {Name: "x", Type: KindInteger}}}},
		{"unnamed field", Schema{Fields: []Field{{Type: KindString}}}},
		{"no fields", Schema{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.schema.Compile(); err == nil {
				t.Fatalf("expected compile error")
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"age", ""},
		{"metadata.created", "metadata"},
		{"tags[1]", "tags"},
		{"users[0].name", "users[0]"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parentPath(tt.in); got != tt.want {
			t.Errorf("parentPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
