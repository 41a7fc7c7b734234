package imaging

import (
	"image"

	"go.uber.org/zap"
)

// Result is the output of a full pipeline run.
type Result struct {
	Image *image.NRGBA
	Frame Dimensions // dimensions of a single frame
	Count int        // number of stacked frames
}

// Process loads, reconciles and composites paths in order. It is
// all-or-nothing: any stage error aborts the run and no Result is returned.
func Process(paths []string, opts Options) (*Result, error) {
	log := opts.logger()

	seq, err := Load(paths, log)
	if err != nil {
		return nil, err
	}

	seq, err = Reconcile(seq, opts)
	if err != nil {
		return nil, err
	}

	canvas, err := Composite(seq)
	if err != nil {
		return nil, err
	}

	frame := seq[0].Dimensions()
	log.Debug("composited sequence",
		zap.Int("frames", len(seq)),
		zap.Stringer("frame", frame),
		zap.Stringer("canvas", Dimensions{Width: canvas.Rect.Dx(), Height: canvas.Rect.Dy()}),
	)
	return &Result{Image: canvas, Frame: frame, Count: len(seq)}, nil
}
