package config

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFromDir(t *testing.T, yml string) error {
	t.Helper()
	origConfig := Config
	origDir, _ := os.Getwd()
	t.Cleanup(func() {
		Config = origConfig
		os.Chdir(origDir)
	})

	dir := t.TempDir()
	if yml != "" {
		if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0644); err != nil {
			t.Fatalf("write config.yml: %v", err)
		}
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return LoadAppConfig()
}

func TestConfig_LoadAndDefaults(t *testing.T) {
	yml := `
server:
  port: 9090
dataset:
  stopsPath: data/stops.bin
cache:
  memoryCapacity: 50
  diskPath: data/journeys.db
`
	if err := loadFromDir(t, yml); err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if Config.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", Config.Server.Port)
	}
	if Config.Dataset.StopsPath != "data/stops.bin" {
		t.Errorf("StopsPath = %q", Config.Dataset.StopsPath)
	}
	if Config.Cache.MemoryCapacity != 50 {
		t.Errorf("MemoryCapacity = %d, want 50", Config.Cache.MemoryCapacity)
	}
	if Config.Cache.DiskPath != "data/journeys.db" {
		t.Errorf("DiskPath = %q", Config.Cache.DiskPath)
	}

	// Unset fields fall back to production defaults.
	if Config.Dataset.RoutesPath != "assets/routes.bin" {
		t.Errorf("RoutesPath default = %q", Config.Dataset.RoutesPath)
	}
	if Config.Cache.MemoryTTLMinutes != 30 {
		t.Errorf("MemoryTTLMinutes default = %d", Config.Cache.MemoryTTLMinutes)
	}
	if Config.Router.MaxRounds != 5 {
		t.Errorf("MaxRounds default = %d", Config.Router.MaxRounds)
	}
}

func TestConfig_MissingFile(t *testing.T) {
	if err := loadFromDir(t, ""); err == nil {
		t.Error("loading without config.yml should return an error")
	}
}

func TestConfig_InvalidYAML(t *testing.T) {
	if err := loadFromDir(t, "invalid: yaml: content: [[["); err == nil {
		t.Error("invalid YAML should return an error")
	}
}

func TestConfig_ValidationRejectsNegatives(t *testing.T) {
	yml := `
server:
  port: -1
`
	if err := loadFromDir(t, yml); err == nil {
		t.Error("negative port should fail validation")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg AppConfig
	ApplyDefaults(&cfg)
	if cfg.Server.Port != 16282 {
		t.Errorf("Port default = %d", cfg.Server.Port)
	}
	if cfg.Cache.MemoryCapacity != 100 || cfg.Cache.PreloadLimit != 200 {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Dataset.StopsPath != "assets/stops.bin" {
		t.Errorf("StopsPath default = %q", cfg.Dataset.StopsPath)
	}
}
