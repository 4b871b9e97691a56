package sniff

import (
	"math"
	"testing"

	"github.com/kbukum/modeloptions/errors"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"title true", "True", true},
		{"lower false", "false", false},
		{"upper true", "TRUE", true},
		{"none", "None", nil},
		{"lower none", "none", nil},
		{"int", "123", 123},
		{"negative int", "-7", -7},
		{"float", "1.23", 1.23},
		{"exponent", "1e3", 1000.0},
		{"plain text", "foo", "foo"},
		{"empty", "", ""},
		{"padded number stays text", " 12", " 12"},
		{"native bool", true, true},
		{"native float", 1.23, 1.23},
		{"native int", 5, 5},
		{"nil", nil, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.in)
			if got != tc.want {
				t.Errorf("Detect(%#v) = %#v (%T), want %#v (%T)", tc.in, got, got, tc.want, tc.want)
			}
		})
	}
}

func TestDetect_IntOverflowFallsToFloat(t *testing.T) {
	got := Detect("99999999999999999999")
	f, ok := got.(float64)
	if !ok {
		t.Fatalf("expected float64, got %T", got)
	}
	if f != 1e20 {
		t.Errorf("expected 1e20, got %v", f)
	}
}

func TestDetect_SpecialFloats(t *testing.T) {
	if f, ok := Detect("inf").(float64); !ok || !math.IsInf(f, 1) {
		t.Errorf("expected +Inf, got %#v", Detect("inf"))
	}
	if f, ok := Detect("NaN").(float64); !ok || !math.IsNaN(f) {
		t.Errorf("expected NaN, got %#v", Detect("NaN"))
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{false, "False"},
		{"blue", "blue"},
		{42, "42"},
		{int64(-3), "-3"},
		{uint8(7), "7"},
		{1.5, "1.5"},
		{2.0, "2.0"},
		{-0.5, "-0.5"},
		{1e21, "1e+21"},
		{float32(3), "3.0"},
		{float32(0.1), "0.1"},
	}

	for _, tc := range tests {
		got, err := Format(tc.in)
		if err != nil {
			t.Fatalf("Format(%#v) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Format(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, v := range []any{nil, true, false, 0, 123, -9, 1.25, 2.0, -0.5, 0.0, "foo"} {
		s, err := Format(v)
		if err != nil {
			t.Fatalf("Format(%#v) error: %v", v, err)
		}
		if got := Detect(s); got != v {
			t.Errorf("Detect(Format(%#v)) = %#v", v, got)
		}
	}
}

func TestFormat_Float32ReadsBackAsFloat64(t *testing.T) {
	s, err := Format(float32(3))
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := Detect(s).(float64); !ok || got != 3 {
		t.Errorf("Detect(%q) = %#v, want float64(3)", s, Detect(s))
	}
}

func TestFormatFloat_NonFinite(t *testing.T) {
	for _, s := range []string{FormatFloat(math.Inf(1), 64), FormatFloat(math.NaN(), 64)} {
		if _, ok := Detect(s).(float64); !ok {
			t.Errorf("Detect(%q) = %#v, want float64", s, Detect(s))
		}
	}
}

func TestFormat_Unsupported(t *testing.T) {
	_, err := Format(struct{ A int }{1})
	if !errors.IsInvalidInput(err) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
