package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stackpng/stackpng/internal/imaging"
	"github.com/stackpng/stackpng/internal/mcmeta"
	"github.com/stackpng/stackpng/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario writes its frames into a fresh temporary directory, so
// runs are isolated and paths never leak into the result.
//
// Execution flow:
// 1. Write frames in order
// 2. Run the imaging pipeline with the scenario options
// 3. Encode the descriptor for a successful run
// 4. Evaluate expectations
//
// An error is returned only when the scenario cannot be executed; pipeline
// failures are part of the Result.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "stackpng-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	paths, err := writeFrames(dir, scenario.Frames)
	if err != nil {
		return nil, fmt.Errorf("failed to write frames: %w", err)
	}

	result := NewResult()
	out, err := imaging.Process(paths, imaging.Options{
		Resize:            scenario.Options.Resize,
		IgnoreAspectRatio: scenario.Options.IgnoreAspectRatio,
		Logger:            zap.NewNop(),
	})
	if err != nil {
		if err := result.recordError(err); err != nil {
			return nil, err
		}
	} else {
		result.recordImage(out, frameTime(scenario.Options))
	}

	for _, msg := range Evaluate(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func frameTime(opts Options) uint16 {
	if opts.FrameTime == nil {
		return mcmeta.DefaultFrameTime
	}
	return *opts.FrameTime
}

func writeFrames(dir string, frames []FrameSpec) ([]string, error) {
	paths := make([]string, len(frames))
	for i, f := range frames {
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("frame_%02d.png", i)
		}
		path := filepath.Join(dir, name)
		paths[i] = path

		if f.Raw != "" {
			if err := os.WriteFile(path, []byte(f.Raw), 0644); err != nil {
				return nil, err
			}
			continue
		}
		c, err := testutil.ParseColor(f.Color)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if err := testutil.WritePNG(path, testutil.SolidFrame(f.Width, f.Height, c)); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return paths, nil
}

// recordError classifies a pipeline error. Unknown errors are returned.
func (r *Result) recordError(err error) error {
	var (
		decodeErr *imaging.DecodeError
		dimErr    *imaging.DimensionMismatchError
		aspectErr *imaging.AspectRatioMismatchError
	)
	switch {
	case errors.As(err, &decodeErr):
		r.ErrorKind = ErrorDecode
	case errors.As(err, &dimErr):
		r.ErrorKind = ErrorDimension
		r.Target = dimErr.Target.String()
	case errors.As(err, &aspectErr):
		r.ErrorKind = ErrorAspectRatio
		r.Target = aspectErr.Target.String()
		r.Ratio = fmt.Sprintf("%.3f", aspectErr.Ratio())
	case errors.Is(err, imaging.ErrEmptySequence):
		r.ErrorKind = ErrorEmptySequence
	default:
		return fmt.Errorf("unexpected pipeline error: %w", err)
	}
	return nil
}

func (r *Result) recordImage(out *imaging.Result, frameTime uint16) {
	bounds := out.Image.Bounds()
	r.Canvas = imaging.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()}.String()
	r.Frame = out.Frame.String()
	r.Count = out.Count

	r.Bands = make([]string, out.Count)
	for i := range r.Bands {
		r.Bands[i] = testutil.FormatColor(out.Image.At(bounds.Min.X, bounds.Min.Y+i*out.Frame.Height))
	}

	d := mcmeta.New(frameTime, out.Frame)
	r.Descriptor = &d
}
