package mcmeta

import (
	"encoding/json"
	"fmt"

	"github.com/stackpng/stackpng/internal/imaging"
)

// DefaultFrameTime is the frame duration, in ticks, used when none is given.
const DefaultFrameTime uint16 = 2

// Extension is appended to the image file name to form the sidecar name.
const Extension = ".mcmeta"

// Descriptor describes a stacked image as an animation.
type Descriptor struct {
	FrameTime uint16 `json:"frametime"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// New returns the descriptor for frames of the given size shown for
// frameTime ticks each. frameTime is passed through unmodified.
func New(frameTime uint16, frame imaging.Dimensions) Descriptor {
	return Descriptor{
		FrameTime: frameTime,
		Width:     frame.Width,
		Height:    frame.Height,
	}
}

// Frame returns the frame dimensions the descriptor declares.
func (d Descriptor) Frame() imaging.Dimensions {
	return imaging.Dimensions{Width: d.Width, Height: d.Height}
}

// Marshal serializes the descriptor as canonical JSON.
func (d Descriptor) Marshal() ([]byte, error) {
	doc := map[string]any{
		"animation": map[string]any{
			"frametime": d.FrameTime,
			"width":     d.Width,
			"height":    d.Height,
		},
	}
	return MarshalCanonical(doc)
}

type document struct {
	Animation *Descriptor `json:"animation"`
}

// Parse reads a descriptor produced by Marshal (or any JSON with the same shape).
func Parse(data []byte) (Descriptor, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Descriptor{}, fmt.Errorf("parse descriptor: %w", err)
	}
	if doc.Animation == nil {
		return Descriptor{}, fmt.Errorf("parse descriptor: missing \"animation\" object")
	}
	return *doc.Animation, nil
}

// SidecarPath returns the descriptor path for an image path,
// e.g. "water.png" -> "water.png.mcmeta".
func SidecarPath(imagePath string) string {
	return imagePath + Extension
}
