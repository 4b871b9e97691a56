package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/modeloptions/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("dsn", "")
	if !v.HasErrors() {
		t.Error("expected error for empty field")
	}

	v2 := New()
	v2.Required("dsn", "file::memory:")
	if v2.HasErrors() {
		t.Error("expected no error for non-empty field")
	}

	v3 := New()
	v3.Required("dsn", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only field")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	v := New().MaxLength("key", strings.Repeat("k", 256), 255)
	if !v.HasErrors() {
		t.Error("expected error for too-long value")
	}
	if New().MaxLength("key", "color", 255).HasErrors() {
		t.Error("expected no error within limit")
	}
}

func TestValidatorMinAndOneOf(t *testing.T) {
	v := New().Min("pool_size", 0, 1).OneOf("backend", "memcached", []string{"redis", "memory"})
	if len(v.Errors()) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(v.Errors()))
	}
	if New().OneOf("backend", "redis", []string{"redis", "memory"}).HasErrors() {
		t.Error("expected redis to be accepted")
	}
}

func TestValidatorCustom(t *testing.T) {
	if !New().Custom(false, "ttl", "must be >= 0").HasErrors() {
		t.Error("expected error when condition is false")
	}
	if New().Custom(true, "ttl", "must be >= 0").HasErrors() {
		t.Error("expected no error when condition is true")
	}
}

func TestValidatorDuration(t *testing.T) {
	tests := []struct {
		value    string
		required bool
		wantErr  bool
	}{
		{"", false, false},
		{"", true, true},
		{"1h30m", true, false},
		{"0s", false, false},
		{"-1s", false, true},
		{"soon", false, true},
	}
	for _, tc := range tests {
		got := New().Duration("ttl", tc.value, tc.required).HasErrors()
		if got != tc.wantErr {
			t.Errorf("Duration(%q, required=%v) error = %v, want %v", tc.value, tc.required, got, tc.wantErr)
		}
	}
}

func TestValidatorBetween(t *testing.T) {
	for _, rate := range []float64{0, 0.25, 1} {
		if New().Between("sample_rate", rate, 0, 1).HasErrors() {
			t.Errorf("expected %g to be accepted", rate)
		}
	}
	v := New().Between("sample_rate", 1.5, 0, 1)
	if !v.HasErrors() || v.Errors()[0].Message != "must be between 0 and 1" {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorErr(t *testing.T) {
	if err := New().Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}

	err := New().Required("dsn", "").Required("driver", "").Err()
	if !errors.IsInvalidInput(err) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if !strings.Contains(appErr.Message, "dsn: is required") || !strings.Contains(appErr.Message, "driver: is required") {
		t.Errorf("unexpected message %q", appErr.Message)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("expected 2 field errors in details, got %v", appErr.Details["fields"])
	}
}

type ownerKey struct {
	OwnerType string `json:"owner_type" validate:"required,max=255"`
	OwnerID   string `json:"owner_id" validate:"required,max=255"`
	Key       string `validate:"max=255"`
}

func TestStructValidateValid(t *testing.T) {
	if err := Validate(ownerKey{OwnerType: "widget", OwnerID: "1", Key: "color"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(ownerKey{Key: strings.Repeat("k", 300)})
	if !errors.IsInvalidInput(err) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}

	appErr, _ := errors.AsAppError(err)
	for _, want := range []string{"owner_type: is required", "owner_id: is required", "key: must be at most 255 characters"} {
		if !strings.Contains(appErr.Message, want) {
			t.Errorf("message %q missing %q", appErr.Message, want)
		}
	}
}

func TestVar(t *testing.T) {
	if err := Var("value", "blue", "max=255"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	err := Var("value", strings.Repeat("v", 256), "max=255")
	if !errors.IsInvalidInput(err) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Message != "value: must be at most 255 characters" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"OwnerType": "owner_type",
		"Key":       "key",
		"ttl":       "ttl",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
