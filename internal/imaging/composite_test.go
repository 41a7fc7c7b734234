package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_BandsMatchFrames(t *testing.T) {
	seq := Sequence{frameOf("a", 5, 3), frameOf("b", 5, 3), frameOf("c", 5, 3), frameOf("d", 5, 3)}
	for i := range seq {
		seq[i].Image = newImage(5, 3, pattern(uint8(i*40)))
	}

	canvas, err := Composite(seq)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 5, 12), canvas.Bounds())
	for i, f := range seq {
		requireBand(t, canvas, i, f.Image)
	}
}

func TestComposite_CopiesAlphaVerbatim(t *testing.T) {
	translucent := color.NRGBA{R: 250, G: 10, B: 3, A: 7}
	clear := color.NRGBA{}
	src := newImage(2, 2, func(x, y int) color.NRGBA {
		if x == 0 {
			return translucent
		}
		return clear
	})

	canvas, err := Composite(Sequence{{Path: "a", Image: src}, {Path: "b", Image: src}})
	require.NoError(t, err)

	for band := 0; band < 2; band++ {
		assert.Equal(t, translucent, canvas.NRGBAAt(0, band*2))
		assert.Equal(t, clear, canvas.NRGBAAt(1, band*2+1))
	}
}

func TestComposite_SubImageSource(t *testing.T) {
	full := newImage(6, 6, pattern(9))
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)

	canvas, err := Composite(Sequence{{Path: "sub", Image: sub}})
	require.NoError(t, err)

	assert.Equal(t, full.NRGBAAt(2, 2), canvas.NRGBAAt(0, 0))
	assert.Equal(t, full.NRGBAAt(3, 3), canvas.NRGBAAt(1, 1))
}

func TestComposite_RejectsUnreconciledSequence(t *testing.T) {
	_, err := Composite(Sequence{frameOf("a", 4, 4), frameOf("b", 4, 5)})

	var dimErr *DimensionMismatchError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, "b", dimErr.Path)
}

func TestComposite_Empty(t *testing.T) {
	_, err := Composite(Sequence{})
	assert.ErrorIs(t, err, ErrEmptySequence)
}
