package config

import (
	"runtime"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"IMGCONV_WORKERS", "IMGCONV_STRICT", "IMGCONV_VERBOSE", "IMGCONV_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers: got %d", cfg.Workers)
	}
	if cfg.Strict || cfg.Verbose {
		t.Errorf("flags should default to false: %+v", cfg)
	}
	if cfg.LogFormat != "console" {
		t.Errorf("log format: got %q", cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IMGCONV_WORKERS", "3")
	t.Setenv("IMGCONV_STRICT", "true")
	t.Setenv("IMGCONV_VERBOSE", "1")
	t.Setenv("IMGCONV_LOG_FORMAT", "JSON")

	cfg := Load()
	if cfg.Workers != 3 || !cfg.Strict || !cfg.Verbose || cfg.LogFormat != "json" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadIgnoresInvalid(t *testing.T) {
	t.Setenv("IMGCONV_WORKERS", "-2")
	t.Setenv("IMGCONV_STRICT", "maybe")

	cfg := Load()
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers: got %d", cfg.Workers)
	}
	if cfg.Strict {
		t.Error("invalid bool should fall back to false")
	}
}
