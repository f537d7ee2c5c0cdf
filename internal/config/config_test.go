package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/thereceipt/ticket-engine/internal/renderer"
	"github.com/thereceipt/ticket-engine/internal/style"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TICKET_ENGINE_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}
	if cfg.RendererLayout().Code != renderer.CodeQR {
		t.Errorf("Default code = %q, want qr", cfg.RendererLayout().Code)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "engine.yaml", `
server:
  port: "8080"
assets:
  dir: /srv/assets
layout:
  code: code128
redis:
  addr: localhost:6379
  ttl: 10m
event:
  organizer: Lions Club Abuja
  title: [SPRING, CHARITY, BALL]
  brand_color: "#aa0033"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" || cfg.Assets.Dir != "/srv/assets" {
		t.Errorf("Server/assets not loaded: %+v %+v", cfg.Server, cfg.Assets)
	}
	if cfg.Assets.Logo != "logo.png" {
		t.Errorf("Unset field lost its default: %q", cfg.Assets.Logo)
	}
	if cfg.Redis.TTL != 10*time.Minute {
		t.Errorf("TTL = %v, want 10m", cfg.Redis.TTL)
	}
	if cfg.RendererLayout().Code != renderer.CodeCode128 {
		t.Errorf("Code = %q", cfg.RendererLayout().Code)
	}

	want := style.DefaultEvent
	want.Organizer = "Lions Club Abuja"
	want.Title = [3]string{"SPRING", "CHARITY", "BALL"}
	want.BrandColor = style.MustHex("#aa0033")
	if diff := cmp.Diff(want, cfg.Event); diff != "" {
		t.Errorf("Event mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := writeFile(t, "engine.yaml", "server:\n  port: \"9000\"\n")
	t.Setenv("TICKET_ENGINE_CONFIG", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "engine.yaml", "server:\n  port: \"9000\"\nassets:\n  dir: from-file\n")
	t.Setenv("SERVER_PORT", "7000")
	t.Setenv("ASSETS_DIR", "")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")
	t.Setenv("OUTPUT_DIR", "/var/tickets")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "7000" {
		t.Errorf("Port = %q, want 7000", cfg.Server.Port)
	}
	if cfg.Assets.Dir != "" {
		t.Errorf("Empty ASSETS_DIR should disable assets, got %q", cfg.Assets.Dir)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 3 {
		t.Errorf("Redis = %+v", cfg.Redis)
	}
	if cfg.Queue.URL != "amqp://guest:guest@mq:5672/" || cfg.Queue.OutputDir != "/var/tickets" {
		t.Errorf("Queue = %+v", cfg.Queue)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{"bad yaml", "server: [", nil, "load config"},
		{"bad port", "server:\n  port: abc\n", nil, "server.port"},
		{"bad code", "layout:\n  code: pdf417\n", nil, "layout.code"},
		{"bad scale", "server:\n  preview_scale: 0\n", nil, "preview_scale"},
		{"bad color", "event:\n  brand_color: \"#zz0000\"\n", nil, "load config"},
		{"bad redis db", "", map[string]string{"REDIS_DB": "one"}, "REDIS_DB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeFile(t, "engine.yaml", tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for a missing config file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "TICKET_ENGINE_TEST_VALUE=from-dotenv\n")
	os.Unsetenv("TICKET_ENGINE_TEST_VALUE")
	t.Cleanup(func() { os.Unsetenv("TICKET_ENGINE_TEST_VALUE") })

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("TICKET_ENGINE_TEST_VALUE"); got != "from-dotenv" {
		t.Errorf("Value = %q, want from-dotenv", got)
	}
}

func TestAssembler_UsesAssetDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "brand.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Assets.Dir = dir
	cfg.Assets.Logo = "brand.png"

	data, ok, err := cfg.AssetResolver(nil).Load("logo")
	if err != nil || !ok || string(data) != "not a png" {
		t.Errorf("Load(logo) = %q, %v, %v", data, ok, err)
	}

	if cfg.Assembler(nil) == nil {
		t.Error("Assembler is nil")
	}
}
