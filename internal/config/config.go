package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/carousel/internal/autoplay"
	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/slide"
)

const envPrefix = "CAROUSEL_"

type Config struct {
	Carousel CarouselConfig `koanf:"carousel"`
	Server   ServerConfig   `koanf:"server"`
	State    StateConfig    `koanf:"state"`

	// Ordered slide list, one [[slides]] table per slide.
	Slides []SlideConfig `koanf:"slides"`
}

// CarouselConfig holds the rotation settings.
type CarouselConfig struct {
	Interval         time.Duration `koanf:"interval"`           // default: 10s
	Policy           string        `koanf:"policy"`             // "wait" or "always" (default: "wait")
	GraceDelay       time.Duration `koanf:"grace_delay"`        // delay after a video ends, 0 = immediate (default: 1s)
	TouchResumeDelay time.Duration `koanf:"touch_resume_delay"` // default: 2s
	Resume           bool          `koanf:"resume"`             // restore the last shown slide at startup
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Listen         string   `koanf:"listen"`          // e.g., ":8080"
	MediaDir       string   `koanf:"media_dir"`       // local directory served under /media/ (optional)
	AllowedOrigins []string `koanf:"allowed_origins"` // CORS origins for /api, empty allows any
	Title          string   `koanf:"title"`           // page and preview title
}

// StateConfig holds persistence settings.
type StateConfig struct {
	Path string `koanf:"path"` // sqlite file, empty means the XDG data dir
}

// SlideConfig is one slide entry.
type SlideConfig struct {
	Kind   string `koanf:"kind"` // "image", "local-video", "embedded-player"
	Source string `koanf:"source"`
	Title  string `koanf:"title"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Carousel: CarouselConfig{
			Interval:         autoplay.DefaultInterval,
			Policy:           carousel.PolicyWait.String(),
			GraceDelay:       carousel.DefaultGraceDelay,
			TouchResumeDelay: carousel.DefaultTouchResumeDelay,
		},
		Server: ServerConfig{
			Listen: ":8080",
		},
	}
}

// Load reads the configuration. With an explicit path only that file is
// read and it must exist; otherwise the default locations are tried in
// order. Environment variables (CAROUSEL_SECTION__KEY) override files.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	paths := getConfigPaths()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		paths = []string{path}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", p, err)
			}
		}
	}

	// CAROUSEL_CAROUSEL__INTERVAL -> carousel.interval
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Server.MediaDir = expandPath(cfg.Server.MediaDir)
	cfg.State.Path = expandPath(cfg.State.Path)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/carousel/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "carousel", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ErrNoSlides is returned by Validate when no slide is configured.
var ErrNoSlides = errors.New("no slides configured")

// Validate checks that the configuration can build a carousel.
func (c *Config) Validate() error {
	if c.Carousel.Interval <= 0 {
		return fmt.Errorf("carousel.interval must be positive, got %s", c.Carousel.Interval)
	}
	if c.Carousel.GraceDelay < 0 {
		return fmt.Errorf("carousel.grace_delay must not be negative, got %s", c.Carousel.GraceDelay)
	}
	if c.Carousel.TouchResumeDelay < 0 {
		return fmt.Errorf("carousel.touch_resume_delay must not be negative, got %s", c.Carousel.TouchResumeDelay)
	}
	if _, err := carousel.ParsePolicy(c.Carousel.Policy); err != nil {
		return fmt.Errorf("carousel.policy: %w", err)
	}
	if _, err := c.Descriptors(); err != nil {
		return err
	}
	return nil
}

// Descriptors converts the slide entries.
func (c *Config) Descriptors() ([]slide.Descriptor, error) {
	if len(c.Slides) == 0 {
		return nil, ErrNoSlides
	}
	out := make([]slide.Descriptor, 0, len(c.Slides))
	for i, s := range c.Slides {
		kind, err := slide.ParseKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("slides[%d]: %w", i, err)
		}
		if strings.TrimSpace(s.Source) == "" {
			return nil, fmt.Errorf("slides[%d]: source is required", i)
		}
		out = append(out, slide.Descriptor{Kind: kind, Source: s.Source, Title: s.Title})
	}
	return out, nil
}

// Registry builds the slide registry.
func (c *Config) Registry() (*slide.Registry, error) {
	descs, err := c.Descriptors()
	if err != nil {
		return nil, err
	}
	return slide.NewRegistry(descs)
}

// ControllerOptions returns the controller options. startIndex is used only
// when resume is enabled.
func (c *Config) ControllerOptions(startIndex int) carousel.Options {
	policy, _ := carousel.ParsePolicy(c.Carousel.Policy)
	opts := carousel.Options{
		Interval:         c.Carousel.Interval,
		Policy:           policy,
		GraceDelay:       c.Carousel.GraceDelay,
		TouchResumeDelay: c.Carousel.TouchResumeDelay,
	}
	if c.Carousel.Resume {
		opts.StartIndex = startIndex
	}
	return opts
}
