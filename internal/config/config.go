// Package config holds runtime settings for stackpng: defaults, the optional
// YAML configuration file and validation against an embedded CUE schema.
//
// Precedence is defaults < configuration file < explicitly set flags. The
// CLI applies flags on top of the Config returned by Load and calls
// Validate on the merged result.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the configuration file picked up from the working
// directory when --config is not given.
const DefaultFileName = "stackpng.yaml"

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

//go:embed schema.cue
var schemaSource string

// Config holds all settings for one stackpng run.
type Config struct {
	Name              string `yaml:"name"`                // output base name, without extension
	FrameTime         uint16 `yaml:"frame_time"`          // ticks per animation frame
	Resize            bool   `yaml:"resize"`              // allow rescaling mismatched frames
	IgnoreAspectRatio bool   `yaml:"ignore_aspect_ratio"` // rescale to exact dimensions
	DisableMCMeta     bool   `yaml:"disable_mcmeta"`      // skip the descriptor sidecar
	IgnoreInvalid     bool   `yaml:"ignore_invalid"`      // skip non-PNG inputs
	Sort              string `yaml:"sort"`                // directory ordering: lexical | natural
	OutputDir         string `yaml:"output_dir"`
	History           string `yaml:"history"` // SQLite run history path; empty disables
	LogLevel          string `yaml:"log_level"`
	Color             string `yaml:"color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Name:      "animation",
		FrameTime: 2,
		Sort:      "lexical",
		OutputDir: ".",
		LogLevel:  "info",
		Color:     ColorAuto,
	}
}

// SchemaError reports configuration values rejected by the schema.
type SchemaError struct {
	Source string // file path, or "" for merged settings
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("invalid configuration in %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Discover returns the configuration file to load. An explicit path must
// exist. Otherwise DefaultFileName in dir is used when present, and ""
// means no file.
func Discover(explicit, dir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}
	candidate := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

// Load returns Default overlaid with the file at path. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = path
			return cfg, schemaErr
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode validates a YAML document against the schema and overlays the
// fields it sets onto cfg. Fields absent from the document are untouched.
func Decode(data []byte, cfg *Config) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc == nil {
		return nil
	}
	if err := validateDocument(doc); err != nil {
		return &SchemaError{Err: err}
	}

	// Strict decode also rejects keys the schema would, with YAML line numbers.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// Validate checks the merged settings against the same schema as files.
func (c *Config) Validate() error {
	if err := validateDocument(c.document()); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

func (c *Config) document() map[string]any {
	return map[string]any{
		"name":                c.Name,
		"frame_time":          int(c.FrameTime),
		"resize":              c.Resize,
		"ignore_aspect_ratio": c.IgnoreAspectRatio,
		"disable_mcmeta":      c.DisableMCMeta,
		"ignore_invalid":      c.IgnoreInvalid,
		"sort":                c.Sort,
		"output_dir":          c.OutputDir,
		"history":             c.History,
		"log_level":           c.LogLevel,
		"color":               c.Color,
	}
}

func validateDocument(doc map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	value := def.Unify(ctx.Encode(doc))
	return value.Validate(cue.Concrete(true))
}
