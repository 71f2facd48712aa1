package repository

import (
	"errors"
	"strings"
	"testing"
)

func TestFieldSetContains(t *testing.T) {
	fs := NewFieldSet("Grade", "id", "grade_name", "created_at")

	if !fs.Contains("grade_name") {
		t.Errorf("expected grade_name to be a valid field")
	}
	if fs.Contains("password") {
		t.Errorf("expected password to be rejected")
	}
	if fs.Model() != "Grade" {
		t.Errorf("expected model Grade, got %s", fs.Model())
	}
}

func TestFieldSetNamesSorted(t *testing.T) {
	fs := NewFieldSet("Grade", "updated_at", "id", "grade_name")

	names := fs.Names()
	want := []string{"grade_name", "id", "updated_at"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected names[%d] = %s, got %s", i, want[i], names[i])
		}
	}
}

func TestFieldSetDeduplicates(t *testing.T) {
	fs := NewFieldSet("Grade", "id", "id", "grade_name")

	if len(fs.Names()) != 2 {
		t.Errorf("expected duplicate names to collapse, got %v", fs.Names())
	}
}

func TestValidateAcceptsKnownFields(t *testing.T) {
	fs := NewFieldSet("Grade", "id", "grade_name", "created_at")

	err := fs.Validate(map[string]any{"grade_name": "1°", "id": uint64(3)})
	if err != nil {
		t.Errorf("expected valid fields to pass, got %v", err)
	}
}

func TestValidateRejectsUnknownField(t *testing.T) {
	fs := NewFieldSet("Grade", "id", "grade_name", "created_at")

	err := fs.Validate(map[string]any{"grade_name": "1°", "color": "blue"})
	if err == nil {
		t.Fatalf("expected an error for unknown field")
	}

	var invalid *InvalidFieldError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidFieldError, got %T", err)
	}
	if invalid.Field != "color" {
		t.Errorf("expected offending field color, got %s", invalid.Field)
	}
	// The message must list the full valid set.
	msg := err.Error()
	for _, f := range []string{"created_at", "grade_name", "id"} {
		if !strings.Contains(msg, f) {
			t.Errorf("expected message to list %s, got %q", f, msg)
		}
	}
	if !strings.Contains(msg, "Grade") {
		t.Errorf("expected message to name the model, got %q", msg)
	}
}

func TestValidateNames(t *testing.T) {
	fs := NewFieldSet("Section", "id", "section_name")

	if err := fs.ValidateNames("id", "section_name"); err != nil {
		t.Errorf("expected known names to pass, got %v", err)
	}
	if err := fs.ValidateNames("section_name", "nope"); err == nil {
		t.Errorf("expected unknown name to fail")
	}
	if err := fs.ValidateNames(); err != nil {
		t.Errorf("expected empty input to pass, got %v", err)
	}
}
