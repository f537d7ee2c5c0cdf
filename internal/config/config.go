// Package config loads ticket-engine configuration.
//
// Values come from compiled-in defaults, then an optional YAML file named by
// the --config flag or TICKET_ENGINE_CONFIG, then environment overrides. A
// .env file in the working directory is loaded into the environment first.
// Configuration is read once at startup and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/thereceipt/ticket-engine/internal/renderer"
	"github.com/thereceipt/ticket-engine/internal/style"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Assets   AssetsConfig   `yaml:"assets"`
	Event    style.Event    `yaml:"event"`
	Layout   LayoutConfig   `yaml:"layout"`
	Redis    RedisConfig    `yaml:"redis"`
	Queue    QueueConfig    `yaml:"queue"`
	Registry RegistryConfig `yaml:"registry"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port         string  `yaml:"port"`
	PreviewScale float64 `yaml:"preview_scale"`
}

// AssetsConfig locates the optional ticket images
type AssetsConfig struct {
	// Dir is the asset directory. Empty disables assets.
	Dir     string `yaml:"dir"`
	Logo    string `yaml:"logo"`
	Collage string `yaml:"collage"`
}

// LayoutConfig holds the configurable template parts
type LayoutConfig struct {
	// Code is the verification code format: qr, code128 or none.
	Code string `yaml:"code"`
}

// RedisConfig configures the document cache. Empty Addr disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// QueueConfig configures the render worker. Empty URL disables the worker.
type QueueConfig struct {
	URL       string `yaml:"url"`
	Queue     string `yaml:"queue"`
	Prefetch  int    `yaml:"prefetch"`
	OutputDir string `yaml:"output_dir"`
}

// RegistryConfig locates the rendered document index
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// Default returns the compiled-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "12212",
			PreviewScale: 2,
		},
		Assets: AssetsConfig{
			Dir:     "assets",
			Logo:    "logo.png",
			Collage: "collage.png",
		},
		Event: style.DefaultEvent,
		Layout: LayoutConfig{
			Code: string(renderer.CodeQR),
		},
		Redis: RedisConfig{
			TTL: 24 * time.Hour,
		},
		Queue: QueueConfig{
			Queue:     "purchase.confirmed",
			Prefetch:  4,
			OutputDir: "tickets",
		},
		Registry: RegistryConfig{
			Path: "document_registry.json",
		},
	}
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are skipped; variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load builds the configuration. path overrides TICKET_ENGINE_CONFIG; with
// neither set only defaults and environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TICKET_ENGINE_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("SERVER_PORT", &c.Server.Port)
	setString("ASSETS_DIR", &c.Assets.Dir)
	setString("REDIS_ADDR", &c.Redis.Addr)
	setString("REDIS_PASSWORD", &c.Redis.Password)
	setString("RABBITMQ_URL", &c.Queue.URL)
	setString("OUTPUT_DIR", &c.Queue.OutputDir)
	setString("REGISTRY_PATH", &c.Registry.Path)

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}

	return nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: invalid port %q", c.Server.Port))
	}

	if c.Server.PreviewScale <= 0 {
		errs = append(errs, fmt.Errorf("server.preview_scale must be positive"))
	}

	switch renderer.CodeFormat(c.Layout.Code) {
	case renderer.CodeQR, renderer.CodeCode128, renderer.CodeNone:
	default:
		errs = append(errs, fmt.Errorf("layout.code: unknown format %q", c.Layout.Code))
	}

	if c.Queue.URL != "" && c.Queue.Queue == "" {
		errs = append(errs, fmt.Errorf("queue.queue is required when queue.url is set"))
	}

	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative"))
	}

	return errors.Join(errs...)
}

// RendererLayout converts the layout section for the renderer
func (c *Config) RendererLayout() renderer.Layout {
	return renderer.Layout{Code: renderer.CodeFormat(c.Layout.Code)}
}
