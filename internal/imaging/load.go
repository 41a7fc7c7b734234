package imaging

import (
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// Load decodes every path into a Frame, preserving order. Decoding is
// attempted regardless of file extension. The first failure aborts the load
// and no partial Sequence is returned.
func Load(paths []string, log *zap.Logger) (Sequence, error) {
	if len(paths) == 0 {
		return nil, ErrEmptySequence
	}
	if log == nil {
		log = zap.NewNop()
	}

	seq := make(Sequence, 0, len(paths))
	for _, p := range paths {
		img, format, err := decodeFile(p)
		if err != nil {
			return nil, &DecodeError{Path: p, Err: err}
		}
		f := Frame{Path: p, Image: toNRGBA(img)}
		log.Debug("decoded frame",
			zap.String("path", p),
			zap.String("format", format),
			zap.Stringer("size", f.Dimensions()),
		)
		seq = append(seq, f)
	}
	return seq, nil
}

func decodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", errors.Wrap(err, "open")
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", errors.Wrap(err, "decode")
	}
	return img, format, nil
}

// toNRGBA returns img as a zero-origin *image.NRGBA. Straight-alpha colors
// are kept byte for byte: translucent sources are converted per pixel
// through color.NRGBAModel, which is the identity on the NRGBA palette
// entries a PNG with tRNS decodes to. Opaque sources have no alpha to lose
// and go through draw.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.SetNRGBA(x, y, nrgbaAt(img, b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	if n, ok := img.(*image.NRGBA64); ok {
		c := n.NRGBA64At(x, y)
		return color.NRGBA{R: narrow(c.R), G: narrow(c.G), B: narrow(c.B), A: narrow(c.A)}
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// narrow rounds a 16-bit channel to 8 bits.
func narrow(v uint16) uint8 {
	return uint8((uint32(v) + 128) / 257)
}
