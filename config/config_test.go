package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kbukum/modeloptions/errors"
)

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Redis         struct {
		Addr      string `mapstructure:"addr"`
		OptionTTL string `mapstructure:"option_ttl"`
	} `mapstructure:"redis"`
}

type mockFS struct {
	files  map[string]bool
	loaded []string
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	c := ServiceConfig{Name: "modeloptions"}
	c.ApplyDefaults()

	if c.Environment != "development" || !c.Debug {
		t.Errorf("unexpected environment defaults %+v", c)
	}
	if c.Logging.ServiceName != "modeloptions" || c.Logging.Level != "info" {
		t.Errorf("unexpected logging defaults %+v", c.Logging)
	}

	p := ServiceConfig{Name: "modeloptions", Environment: "production"}
	p.ApplyDefaults()
	if p.Debug {
		t.Error("production should not enable debug")
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
	}{
		{"valid", ServiceConfig{Name: "svc", Environment: "staging"}, false},
		{"missing name", ServiceConfig{Environment: "staging"}, true},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			cfg.Logging.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.IsInvalidInput(err) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := "name: modeloptions\nenvironment: staging\nredis:\n  addr: localhost:6379\n  option_ttl: 10m\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MODELOPTIONS_REDIS_OPTION_TTL", "1h")
	t.Setenv("OTHER_REDIS_ADDR", "ignored:1")

	var cfg testConfig
	if err := Load("modeloptions", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "modeloptions" || cfg.Environment != "staging" {
		t.Errorf("unexpected service fields %+v", cfg.ServiceConfig)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Redis.OptionTTL != "1h" {
		t.Errorf("expected env to override option_ttl, got %q", cfg.Redis.OptionTTL)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("OPTSVC_REDIS_ADDR=cache:6379\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("OPTSVC_REDIS_ADDR") })

	var cfg testConfig
	if err := Load("optsvc", &cfg, WithConfigFile(filepath.Join(dir, "missing.yml")), WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %q, want cache:6379", cfg.Redis.Addr)
	}
}

func TestLoad_SearchesCandidates(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./.env": true}}
	var cfg testConfig
	if err := Load("svc", &cfg, WithFileSystem(fs)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(fs.loaded) != 1 || fs.loaded[0] != "./.env" {
		t.Errorf("loaded env files = %v", fs.loaded)
	}
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("name: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	var cfg testConfig
	if err := Load("svc", &cfg, WithConfigFile(path)); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEnvKeys(t *testing.T) {
	got := envKeys("REDIS_OPTION_TTL")
	want := []string{"redis_option_ttl", "redis.option_ttl", "redis.option.ttl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("envKeys = %v, want %v", got, want)
	}
}

func TestConfigCandidates(t *testing.T) {
	paths := ConfigCandidates("modeloptions")
	if paths[0] != "./cmd/modeloptions/config.yml" || paths[len(paths)-1] != "/etc/modeloptions/config.yml" {
		t.Errorf("unexpected candidates %v", paths)
	}
}
