package imaging

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptySequence is returned when the pipeline is given no frames.
var ErrEmptySequence = errors.New("image sequence is empty")

// DecodeError reports an input that could not be opened or parsed as an image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not open/parse image %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DimensionMismatchError is returned when frames differ in size and resizing
// is not permitted.
type DimensionMismatchError struct {
	Target Dimensions // dimensions of the first frame
	Path   string     // first frame that did not match
	Got    Dimensions
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf(
		"all images in sequence must have the same dimensions: first image has dimensions %s (WxH) but %q is %s; enable the resize option to rescale mismatched images",
		e.Target, e.Path, e.Got,
	)
}

// AspectRatioMismatchError is returned when an aspect-preserving resize could
// not bring every frame to the target dimensions.
type AspectRatioMismatchError struct {
	Target Dimensions
	Path   string     // first frame left short of Target
	Got    Dimensions // its size after resizing
}

// Ratio is the target aspect ratio (width/height).
func (e *AspectRatioMismatchError) Ratio() float64 {
	return e.Target.AspectRatio()
}

func (e *AspectRatioMismatchError) Error() string {
	return fmt.Sprintf(
		"all images in sequence must have the same dimensions: resizing while preserving aspect ratio failed because not all images share an aspect ratio; first image has dimensions %s (WxH) and aspect ratio %.3f but %q resized to %s; enable the ignore-aspect-ratio option to force an exact resize",
		e.Target, e.Ratio(), e.Path, e.Got,
	)
}
