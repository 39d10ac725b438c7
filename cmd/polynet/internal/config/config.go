// Package config loads polynet.yaml (or polynet.toml).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/recera/polynet/pkg/export"
	"github.com/recera/polynet/pkg/state"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the polynet configuration file
type Config struct {
	Diagram Diagram `yaml:"diagram" toml:"diagram"`
	Server  Server  `yaml:"server" toml:"server"`
	Log     Log     `yaml:"log" toml:"log"`
	Export  Export  `yaml:"export" toml:"export"`
}

// Diagram holds the startup tunables
type Diagram struct {
	Sides        int     `yaml:"sides" toml:"sides" validate:"gtefield=MinSides,ltefield=MaxSides"`
	MinSides     int     `yaml:"min_sides" toml:"min_sides" validate:"gte=1"`
	MaxSides     int     `yaml:"max_sides" toml:"max_sides" validate:"gtefield=MinSides,lte=64"`
	ChanceDotted float64 `yaml:"chance_dotted" toml:"chance_dotted" validate:"gte=0,lte=1"`
	Colors       Colors  `yaml:"colors" toml:"colors"`
}

// Colors are any CSS hex, rgb or hsl color.
type Colors struct {
	Line       string `yaml:"line" toml:"line" validate:"required,iscolor"`
	Background string `yaml:"background" toml:"background" validate:"required,iscolor"`
	Dotted     string `yaml:"dotted" toml:"dotted" validate:"required,iscolor"`
}

// Server configures `polynet serve`
type Server struct {
	Host    string `yaml:"host" toml:"host" validate:"required"`
	Port    int    `yaml:"port" toml:"port" validate:"gte=1,lte=65535"`
	Metrics bool   `yaml:"metrics" toml:"metrics"`
}

// Log configures the process logger
type Log struct {
	Level  string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" toml:"format" validate:"oneof=text json"`
	File   string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// Export configures where saved frames go
type Export struct {
	Dir      string `yaml:"dir" toml:"dir" validate:"required"`
	Filename string `yaml:"filename" toml:"filename" validate:"required,endswith=.svg"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Diagram: Diagram{
			Sides:        state.DefaultSides,
			MinSides:     state.DefaultMinSides,
			MaxSides:     state.DefaultMaxSides,
			ChanceDotted: state.DefaultChanceDotted,
			Colors: Colors{
				Line:       state.DefaultLineColor,
				Background: state.DefaultBackgroundColor,
				Dotted:     state.DefaultDottedColor,
			},
		},
		Server: Server{
			Host:    "localhost",
			Port:    7070,
			Metrics: true,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Export: Export{
			Dir:      ".",
			Filename: export.DefaultFilename,
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults. Files ending in .toml are TOML, anything else YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if isTOML(path) {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path in the format its extension selects.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// applyDefaults fills fields a file set to empty
func applyDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Server.Host == "" {
		cfg.Server.Host = defaults.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaults.Server.Port
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = defaults.Export.Dir
	}
	if cfg.Export.Filename == "" {
		cfg.Export.Filename = defaults.Export.Filename
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "iscolor":
		return fmt.Sprintf("%s: %q is not a color", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be at least %s", field, strings.ToLower(fe.Param()))
	case "ltefield":
		return fmt.Sprintf("%s must be at most %s", field, strings.ToLower(fe.Param()))
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Tunables converts the diagram section into state tunables
func (c *Config) Tunables() state.Tunables {
	d := c.Diagram
	return state.Tunables{
		Sides:        d.Sides,
		MinSides:     d.MinSides,
		MaxSides:     d.MaxSides,
		ChanceDotted: d.ChanceDotted,
		Colors: state.Colors{
			Line:       d.Colors.Line,
			Background: d.Colors.Background,
			Dotted:     d.Colors.Dotted,
		},
	}
}

// Addr is the listen address for the server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ExportPath is where `save` writes frames
func (c *Config) ExportPath() string {
	return filepath.Join(c.Export.Dir, c.Export.Filename)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
