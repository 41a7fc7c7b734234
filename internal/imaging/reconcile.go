package imaging

import (
	"image"
	"math"

	"go.uber.org/zap"
)

// Options controls dimension reconciliation.
type Options struct {
	// Resize permits rescaling frames whose dimensions differ from the first frame.
	Resize bool

	// IgnoreAspectRatio scales mismatched frames to exactly the target
	// dimensions. When false, frames are fit within the target preserving
	// their own aspect ratio. Only meaningful with Resize.
	IgnoreAspectRatio bool

	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Reconcile returns a Sequence in which every frame has the dimensions of
// seq[0]. Conforming frames are passed through untouched; mismatched frames
// are replaced with nearest-neighbor resized copies when opts.Resize is set.
//
// A DimensionMismatchError is returned when frames differ and resizing is
// not permitted. An AspectRatioMismatchError is returned when an
// aspect-preserving resize leaves any frame short of the target; undersized
// frames are rejected rather than padded.
func Reconcile(seq Sequence, opts Options) (Sequence, error) {
	target, err := seq.Target()
	if err != nil {
		return nil, err
	}

	first := seq.firstMismatch(target)
	if first < 0 {
		return seq, nil
	}
	if !opts.Resize {
		return nil, &DimensionMismatchError{Target: target, Path: seq[first].Path, Got: seq[first].Dimensions()}
	}

	log := opts.logger()
	out := make(Sequence, len(seq))
	for i, f := range seq {
		src := f.Dimensions()
		if src == target {
			out[i] = f
			continue
		}
		size := target
		if !opts.IgnoreAspectRatio {
			size = FitWithin(src, target)
		}
		out[i] = Frame{Path: f.Path, Image: scaleNearest(f.Image, size)}
		log.Debug("resized frame",
			zap.String("path", f.Path),
			zap.Stringer("from", src),
			zap.Stringer("to", size),
			zap.Bool("exact", opts.IgnoreAspectRatio),
		)
	}

	if short := out.firstMismatch(target); short >= 0 {
		return nil, &AspectRatioMismatchError{Target: target, Path: out[short].Path, Got: out[short].Dimensions()}
	}
	return out, nil
}

// FitWithin returns the largest size with src's aspect ratio that fits in
// bound. Each side is rounded to the nearest pixel and is at least 1.
func FitWithin(src, bound Dimensions) Dimensions {
	wr := float64(bound.Width) / float64(src.Width)
	hr := float64(bound.Height) / float64(src.Height)
	ratio := math.Min(wr, hr)

	return Dimensions{
		Width:  max(1, int(math.Round(float64(src.Width)*ratio))),
		Height: max(1, int(math.Round(float64(src.Height)*ratio))),
	}
}

// scaleNearest resamples src to size by picking, for each destination
// pixel, the source pixel under its center. Pixels are copied as bytes, never
// recomputed.
func scaleNearest(src *image.NRGBA, size Dimensions) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	for dy := 0; dy < size.Height; dy++ {
		sy := b.Min.Y + (2*dy+1)*sh/(2*size.Height)
		for dx := 0; dx < size.Width; dx++ {
			sx := b.Min.X + (2*dx+1)*sw/(2*size.Width)
			so := src.PixOffset(sx, sy)
			do := dst.PixOffset(dx, dy)
			copy(dst.Pix[do:do+4], src.Pix[so:so+4])
		}
	}
	return dst
}
