package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stackpng/stackpng/internal/testutil"
)

// Scenario defines a conformance test scenario: a list of frames written to
// disk in order, the pipeline options, and the expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Frames are written as PNG files in this order. An empty list
	// exercises the empty-sequence path.
	Frames []FrameSpec `yaml:"frames"`

	Options Options `yaml:"options,omitempty"`

	Expect Expect `yaml:"expect"`
}

// FrameSpec describes one input file.
type FrameSpec struct {
	// Name is the file name; defaults to frame_NN.png.
	Name string `yaml:"name,omitempty"`

	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Color  string `yaml:"color,omitempty"` // "#rrggbb" or "#rrggbbaa"

	// Raw replaces the PNG encoding with literal file contents.
	Raw string `yaml:"raw,omitempty"`
}

// Options mirror the pipeline and descriptor settings.
type Options struct {
	Resize            bool    `yaml:"resize,omitempty"`
	IgnoreAspectRatio bool    `yaml:"ignore_aspect_ratio,omitempty"`
	FrameTime         *uint16 `yaml:"frame_time,omitempty"` // nil means the descriptor default
}

// Expect is the expected outcome. Error and the image fields are mutually
// exclusive.
type Expect struct {
	// Error is the expected error kind; empty expects success.
	Error string `yaml:"error,omitempty"`

	// Target is the frame size a mismatch error reports, as "WxH".
	Target string `yaml:"target,omitempty"`

	// Ratio is the aspect ratio an aspect error reports, three decimals.
	Ratio string `yaml:"ratio,omitempty"`

	// Width and Height are the composite canvas dimensions.
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`

	// Bands lists the top-left color of each band, "#rrggbbaa".
	Bands []string `yaml:"bands,omitempty"`
}

// Error kinds reported by scenarios.
const (
	ErrorDecode        = "decode"
	ErrorDimension     = "dimension_mismatch"
	ErrorAspectRatio   = "aspect_ratio_mismatch"
	ErrorEmptySequence = "empty_sequence"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "frame:" vs "frames:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	for i, f := range s.Frames {
		if f.Raw != "" {
			continue
		}
		if f.Width <= 0 || f.Height <= 0 {
			return fmt.Errorf("frame %d: width and height must be positive", i)
		}
		if _, err := testutil.ParseColor(f.Color); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}

	switch s.Expect.Error {
	case "":
		if s.Expect.Width <= 0 || s.Expect.Height <= 0 {
			return fmt.Errorf("expect: width and height are required when no error is expected")
		}
	case ErrorDecode, ErrorDimension, ErrorAspectRatio, ErrorEmptySequence:
		if s.Expect.Width != 0 || s.Expect.Height != 0 || len(s.Expect.Bands) > 0 {
			return fmt.Errorf("expect: image fields cannot be combined with error %q", s.Expect.Error)
		}
	default:
		return fmt.Errorf("expect: unknown error kind %q", s.Expect.Error)
	}

	return nil
}
