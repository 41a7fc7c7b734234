package imaging

import (
	"fmt"
	"image"
)

// Dimensions is a frame size in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// AspectRatio returns width/height.
func (d Dimensions) AspectRatio() float64 {
	return float64(d.Width) / float64(d.Height)
}

// Frame is one decoded input image. Pixels are stored as non-premultiplied
// 8-bit RGBA.
type Frame struct {
	Path  string
	Image *image.NRGBA
}

// Dimensions reports the frame's width and height.
func (f Frame) Dimensions() Dimensions {
	b := f.Image.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Sequence is an ordered list of frames. Index order is both the vertical
// stacking order and the animation order.
type Sequence []Frame

// Target returns the dimensions every frame must share: those of the first frame.
func (s Sequence) Target() (Dimensions, error) {
	if len(s) == 0 {
		return Dimensions{}, ErrEmptySequence
	}
	return s[0].Dimensions(), nil
}

// firstMismatch returns the index of the first frame whose dimensions differ
// from target, or -1.
func (s Sequence) firstMismatch(target Dimensions) int {
	for i, f := range s {
		if f.Dimensions() != target {
			return i
		}
	}
	return -1
}
