package imaging

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Composite stacks the frames of a reconciled Sequence top to bottom on a
// fully transparent canvas of Width x Height*len(seq). Frame i occupies rows
// [i*Height, (i+1)*Height). Source pixels replace the canvas pixels verbatim,
// alpha included; nothing is blended.
//
// Bands are disjoint, so they are written concurrently. Placement is keyed by
// index, never by completion order.
func Composite(seq Sequence) (*image.NRGBA, error) {
	target, err := seq.Target()
	if err != nil {
		return nil, err
	}
	if i := seq.firstMismatch(target); i >= 0 {
		return nil, &DimensionMismatchError{Target: target, Path: seq[i].Path, Got: seq[i].Dimensions()}
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height*len(seq)))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range seq {
		g.Go(func() error {
			copyBand(canvas, f.Image, i*target.Height)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return canvas, nil
}

// copyBand copies src row by row into dst starting at row top, column 0.
func copyBand(dst, src *image.NRGBA, top int) {
	b := src.Bounds()
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		do := dst.PixOffset(0, top+y)
		copy(dst.Pix[do:do+rowBytes], src.Pix[so:so+rowBytes])
	}
}
