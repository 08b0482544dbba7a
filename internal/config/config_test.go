package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:7466" {
		t.Errorf("unexpected listen %q", cfg.Listen)
	}
	if cfg.DB != "" || cfg.Seed {
		t.Errorf("expected in-memory store without seed, got db=%q seed=%v", cfg.DB, cfg.Seed)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second || cfg.HTTP.WriteTimeout != 30*time.Second {
		t.Errorf("unexpected timeouts %+v", cfg.HTTP)
	}
}

func TestLoadPrecedence(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "taskkeep.yaml")
	yaml := "listen: 0.0.0.0:9000\nseed: true\nlog:\n  level: debug\n  format: json\nhttp:\n  read_timeout: 5s\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TASKKEEP_LOG_LEVEL", "warn")

	v := New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen", "", "")
	flags.String("log-format", "", "")
	if err := BindFlags(v, flags, map[string]string{"log-format": KeyLogFormat}); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}
	if err := flags.Parse([]string{"--listen", "127.0.0.1:8000"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8000" {
		t.Errorf("flag should win over file, got %q", cfg.Listen)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("env should win over file, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("unset flag should fall through to file, got %q", cfg.Log.Format)
	}
	if !cfg.Seed {
		t.Error("expected seed from file")
	}
	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout from file, got %v", cfg.HTTP.ReadTimeout)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadDefaultFileWhenPresent(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".taskkeep")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("db: /tmp/tasks.db\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB != "/tmp/tasks.db" {
		t.Errorf("expected db from default file, got %q", cfg.DB)
	}
}
