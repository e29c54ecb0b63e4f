package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-galaxy/common"
	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
)

// Galaxy variants selectable with GALAXY_VARIANT.
const (
	VariantStructured = "structured"
	VariantFlat       = "flat"
)

type Config struct {
	Window WindowConfig
	Render RenderConfig
	Engine EngineConfig
	Camera CameraConfig
	Galaxy GalaxyConfig
	Log    LogConfig
}

type WindowConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

type RenderConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode   string
	MSAA          int
	ForceFallback bool
	ClearColor    colorful.Color
	FrameLimit    float64
}

type EngineConfig struct {
	TickRate  float64
	Profiling bool
}

type CameraConfig struct {
	FovDegrees      float64
	Near            float64
	Far             float64
	Damping         float64
	MaxTargetRadius float64
}

type GalaxyConfig struct {
	Variant   string
	PanelFile string
	Workers   int
	Seed      uint64
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads the given .env files, or ./.env when none are given, and builds a Config from the environment.
// A missing file is logged and skipped; variables already set in the process environment win.
//
// Parameters:
//   - files: .env files to load
//
// Returns:
//   - *Config: the validated configuration
//   - error: an error naming the first malformed or out-of-range variable
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("no .env file loaded, using process environment", "files", files, "error", err)
	}

	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Window: loadWindowConfig(p),
		Render: loadRenderConfig(p),
		Engine: loadEngineConfig(p),
		Camera: loadCameraConfig(p),
		Galaxy: loadGalaxyConfig(p),
		Log:    loadLogConfig(),
	}
	return cfg, errors.Join(p.errs...)
}

func loadWindowConfig(p *parser) WindowConfig {
	return WindowConfig{
		Title:      GetEnv("WINDOW_TITLE", "Galaxy"),
		Width:      p.intVar("WINDOW_WIDTH", 1280),
		Height:     p.intVar("WINDOW_HEIGHT", 720),
		Fullscreen: p.boolVar("WINDOW_FULLSCREEN", false),
	}
}

func loadRenderConfig(p *parser) RenderConfig {
	clearColor, err := colorful.Hex(GetEnv("RENDER_CLEAR_COLOR", "#0a0b07"))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("RENDER_CLEAR_COLOR: %w", err))
	}
	return RenderConfig{
		PresentMode:   strings.ToLower(GetEnv("RENDER_PRESENT_MODE", "vsync")),
		MSAA:          p.intVar("RENDER_MSAA", 4),
		ForceFallback: p.boolVar("RENDER_FORCE_FALLBACK", false),
		ClearColor:    clearColor,
		FrameLimit:    p.floatVar("RENDER_FRAME_LIMIT", 0),
	}
}

func loadEngineConfig(p *parser) EngineConfig {
	return EngineConfig{
		TickRate:  p.floatVar("ENGINE_TICK_RATE", 60),
		Profiling: p.boolVar("ENGINE_PROFILING", false),
	}
}

func loadCameraConfig(p *parser) CameraConfig {
	return CameraConfig{
		FovDegrees:      p.floatVar("CAMERA_FOV", 45),
		Near:            p.floatVar("CAMERA_NEAR", 0.001),
		Far:             p.floatVar("CAMERA_FAR", 100),
		Damping:         p.floatVar("CAMERA_DAMPING", 0.05),
		MaxTargetRadius: p.floatVar("CAMERA_MAX_TARGET_RADIUS", 2),
	}
}

func loadGalaxyConfig(p *parser) GalaxyConfig {
	return GalaxyConfig{
		Variant:   strings.ToLower(GetEnv("GALAXY_VARIANT", VariantStructured)),
		PanelFile: GetEnv("GALAXY_PANEL_FILE", ""),
		Workers:   p.intVar("GALAXY_WORKERS", 0),
		Seed:      p.uintVar("GALAXY_SEED", 0),
	}
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Level:  strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(GetEnv("LOG_FORMAT", "text")),
	}
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("WINDOW_WIDTH and WINDOW_HEIGHT must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	switch c.Render.PresentMode {
	case "vsync", "uncapped":
	default:
		return fmt.Errorf("RENDER_PRESENT_MODE must be vsync or uncapped, got %q", c.Render.PresentMode)
	}

	switch c.Render.MSAA {
	case 1, 4, 8, 16:
	default:
		return fmt.Errorf("RENDER_MSAA must be 1, 4, 8 or 16, got %d", c.Render.MSAA)
	}

	if c.Render.FrameLimit < 0 {
		return fmt.Errorf("RENDER_FRAME_LIMIT must not be negative")
	}

	if c.Camera.FovDegrees <= 0 || c.Camera.FovDegrees >= 180 {
		return fmt.Errorf("CAMERA_FOV must be in (0, 180), got %g", c.Camera.FovDegrees)
	}

	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("CAMERA_NEAR must be positive and below CAMERA_FAR")
	}

	if c.Camera.Damping <= 0 || c.Camera.Damping > 1 {
		return fmt.Errorf("CAMERA_DAMPING must be in (0, 1], got %g", c.Camera.Damping)
	}

	if c.Camera.MaxTargetRadius < 0 {
		return fmt.Errorf("CAMERA_MAX_TARGET_RADIUS must not be negative")
	}

	switch c.Galaxy.Variant {
	case VariantStructured, VariantFlat:
	default:
		return fmt.Errorf("GALAXY_VARIANT must be %s or %s, got %q", VariantStructured, VariantFlat, c.Galaxy.Variant)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	return common.Coalesce(os.Getenv(key), fallback)
}

// parser collects every malformed variable instead of stopping at the first.
type parser struct {
	errs []error
}

func (p *parser) intVar(key string, fallback int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) uintVar(key string, fallback uint64) uint64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) floatVar(key string, fallback float64) float64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (p *parser) boolVar(key string, fallback bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}
