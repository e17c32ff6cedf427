// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/plugload/plugload/internal/issue"
	"github.com/plugload/plugload/internal/testutil"
	"github.com/plugload/plugload/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Manifest != "autoload.json" {
		t.Errorf("Manifest = %q, want autoload.json", cfg.Manifest)
	}
	if cfg.Extension != ".php" {
		t.Errorf("Extension = %q, want .php", cfg.Extension)
	}
	if cfg.CacheSize != 256 {
		t.Errorf("CacheSize = %d, want 256", cfg.CacheSize)
	}
	if !cfg.Generator.SkipHidden {
		t.Error("Generator.SkipHidden should default to true")
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig() is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	Reset()
	tmpDir := t.TempDir()
	cleanup := testutil.SetConfigHome(t, tmpDir)
	defer cleanup()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if filepath.Base(dir) != AppName {
		t.Errorf("ConfigDir() = %q, want base %q", dir, AppName)
	}
	if !strings.HasPrefix(dir, tmpDir) {
		t.Errorf("ConfigDir() = %q, want it under %q", dir, tmpDir)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/dir")
	defer Reset()

	dir, err := ConfigDir()
	if err != nil || dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %q, %v; want override", dir, err)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	cfg, path, err := LoadWithSource(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(tmpDir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("source = %q, want empty", path)
	}
	want := DefaultConfig()
	if cfg.Manifest != want.Manifest || cfg.Extension != want.Extension || cfg.CacheSize != want.CacheSize ||
		cfg.LogLevel != want.LogLevel || cfg.Generator.SkipHidden != want.Generator.SkipHidden ||
		len(cfg.Generator.Ignore) != 0 || cfg.DocumentRoot != "" {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	cfgDir := filepath.Join(tmpDir, "cfg")
	cfgPath := testutil.MustWriteFile(t, filepath.Join(cfgDir, "config.cue"), `
manifest: "config/autoload.xml"
cache_size: 0
generator: {
	skip_hidden: false
	ignore: ["**/vendor"]
}
`)

	cfg, path, err := LoadWithSource(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(cfgDir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != cfgPath {
		t.Errorf("source = %q, want %q", path, cfgPath)
	}
	if cfg.Manifest != "config/autoload.xml" {
		t.Errorf("Manifest = %q", cfg.Manifest)
	}
	if cfg.CacheSize != 0 {
		t.Errorf("CacheSize = %d, want 0", cfg.CacheSize)
	}
	if cfg.Generator.SkipHidden {
		t.Error("Generator.SkipHidden should be false")
	}
	if !reflect.DeepEqual(cfg.Generator.Ignore, []string{"**/vendor"}) {
		t.Errorf("Generator.Ignore = %v", cfg.Generator.Ignore)
	}
	// Unset fields keep their defaults.
	if cfg.Extension != ".php" || cfg.LogLevel != LogLevelInfo {
		t.Errorf("defaults lost: extension=%q log_level=%q", cfg.Extension, cfg.LogLevel)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	tmpDir := t.TempDir()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()
	restoreEnv := testutil.MustSetenv(t, "PLUGLOAD_EXTENSION", ".inc")
	defer restoreEnv()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(tmpDir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Extension != ".inc" {
		t.Errorf("Extension = %q, want .inc from environment", cfg.Extension)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.MustWriteFile(t, filepath.Join(tmpDir, "custom.cue"), `log_level: "debug"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(cfgPath)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_CustomPath_NotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.cue")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(missing)})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want os.ErrNotExist", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || !ae.HasSuggestions() {
		t.Errorf("expected actionable error with suggestions, got %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := map[string]string{
		"wrong type":      `cache_size: "many"`,
		"negative cache":  `cache_size: -1`,
		"bad log level":   `log_level: "trace"`,
		"unknown field":   `container_engine: "podman"`,
		"empty manifest":  `manifest: ""`,
		"bad extension":   `extension: "p h p"`,
		"empty ignore":    `generator: ignore: [""]`,
		"invalid pattern": `generator: ignore: ["[unclosed"]`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfgPath := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "config.cue"), content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(cfgPath)})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoad_ActionableErrorFormat(t *testing.T) {
	cfgPath := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "config.cue"), `cache_size: "x"`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(cfgPath)})
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "load configuration") {
		t.Errorf("error should contain operation, got: %s", errStr)
	}
	if !strings.Contains(errStr, cfgPath) {
		t.Errorf("error should contain resource path, got: %s", errStr)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName))
	defer Reset()
	restoreWd := testutil.MustChdir(t, tmpDir)
	defer restoreWd()

	want := DefaultConfig()
	want.Manifest = "etc/autoload.toml"
	want.DocumentRoot = "/srv/app"
	want.CacheSize = 8
	want.Generator.Ignore = []string{"**/tests", "node_modules"}
	want.LogLevel = LogLevelWarn

	if err := Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, AppName))
	defer Reset()

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// An existing file is left alone.
	testutil.MustWriteFile(t, path, `log_level: "error"`)
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	second, _ := os.ReadFile(path)
	if string(second) == string(first) {
		t.Error("CreateDefaultConfig() overwrote an existing file")
	}
}

func TestGenerateCUE_ValidatesAgainstSchema(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generator.Ignore = []string{"**/.cache"}

	if err := validateCUE(t, GenerateCUE(cfg)); err != nil {
		t.Errorf("generated CUE does not validate: %v", err)
	}
}
