package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	l := New(&Config{Level: "loud", Format: "json", Output: "stdout"}, "test")
	if got := l.GetLogger().GetLevel().String(); got != "info" {
		t.Errorf("expected info fallback, got %s", got)
	}
}

func TestNew_FileOutputWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.log")
	l := New(&Config{Level: "debug", Format: "json", Output: path, MaxSize: 1}, "opts")

	l.Info("option set", Fields(FieldKey, "color", FieldOwnerType, "widget"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"service":"opts"`, `"key":"color"`, `"owner_type":"widget"`, `"message":"option set"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %s", line, want)
		}
	}
}

func TestOutputWriter(t *testing.T) {
	if outputWriter(&Config{Output: "stdout"}) != os.Stdout {
		t.Error("stdout should map to os.Stdout")
	}
	if outputWriter(&Config{Output: "STDERR"}) != os.Stderr {
		t.Error("stderr should map to os.Stderr, case-insensitively")
	}
	if outputWriter(&Config{}) != os.Stdout {
		t.Error("empty output should default to stdout")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	l := NewFromEnv("env-svc")
	if got := l.GetLogger().GetLevel().String(); got != "debug" {
		t.Errorf("expected debug level from env, got %s", got)
	}
}

func TestWithComponent(t *testing.T) {
	cl := NewDefault("test").WithComponent("options")
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewDefault("test")
	if l.WithContext(context.Background()) != l {
		t.Error("without a span the same logger should be returned")
	}
}

func TestWithContext_Span(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	l := New(&Config{Level: "info", Format: "json", Output: path}, "test")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	l.WithContext(ctx).Info("traced")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), span.SpanContext().TraceID().String()) {
		t.Errorf("expected trace id in %q", data)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l := NewDefault("test")
	if l.WithFields(map[string]interface{}{"k": "v"}) == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.WithError(errors.New("boom")) == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "option.log")
	l := New(&Config{Level: "info", Format: FormatJSON, Output: path}, "test")

	l.WithOption("widget", "1", "color").Warn("slow write")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, want := range []string{`"owner_type":"widget"`, `"owner_id":"1"`, `"key":"color"`, `"level":"warn"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log line %q missing %s", data, want)
		}
	}
}

func TestBelowLevelIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.log")
	l := New(&Config{Level: "warn", Format: FormatJSON, Output: path}, "test")
	l.Info("hidden", Fields("k", "v"))
	l.Error("shown")

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("unexpected log contents %q", data)
	}
}

func TestInit_ResetsComponentLoggers(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)
	defer Reset()

	stale := Get("options")
	Init(&Config{ServiceName: "fresh", Format: FormatJSON})
	if Get("options") == stale {
		t.Error("Init should drop cached component loggers")
	}
}

func TestInit(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	cfg := &Config{ServiceName: "init-svc", Format: "json"}
	Init(cfg)

	if cfg.Level != "info" || cfg.Output != "stdout" {
		t.Errorf("Init should apply defaults, got level=%q output=%q", cfg.Level, cfg.Output)
	}
	if GetGlobalLogger().service != "init-svc" {
		t.Errorf("expected global service init-svc, got %q", GetGlobalLogger().service)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)
	SetGlobalLogger(NewNop())

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error", Fields("k", 1))
	if WithComponent("x") == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxSize != 100 || cfg.MaxBackups != 3 || cfg.MaxAge != 28 {
		t.Errorf("unexpected rotation defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
		{"negative rotation", Config{Level: "info", Format: "json", MaxAge: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	Reset()
	defer Reset()

	custom := NewNop()
	Register("db", custom)
	if Get("db") != custom {
		t.Error("expected registered logger")
	}

	first := Get("options")
	if Get("options") != first {
		t.Error("unregistered lookups should be cached")
	}

	names := Names()
	if len(names) != 2 || names[0] != "db" || names[1] != "options" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestOptionFields(t *testing.T) {
	f := OptionFields("get_option", "widget", "1", "color")
	if len(f) != 4 || f[FieldOwnerType] != "widget" || f[FieldKey] != "color" {
		t.Errorf("unexpected option fields %v", f)
	}

	purge := OptionFields("purge", "widget", "1", "")
	if _, ok := purge[FieldKey]; ok {
		t.Errorf("empty key should be left out, got %v", purge)
	}

	merged := MergeWithError(purge, errors.New("boom"))
	if merged[FieldError] != "boom" || merged[FieldOperation] != "purge" {
		t.Errorf("unexpected merged fields %v", merged)
	}
	if MergeWithError(nil, errors.New("x"))[FieldError] != "x" {
		t.Error("expected error field on a nil map")
	}
}
