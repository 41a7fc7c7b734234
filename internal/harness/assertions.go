package harness

import (
	"fmt"
	"slices"
)

// Evaluate compares a result with the expected outcome and returns one
// message per mismatch.
func Evaluate(r *Result, want Expect) []string {
	var errs []string
	mismatch := func(field string, expected, actual any) {
		errs = append(errs, fmt.Sprintf("%s: expected %v, got %v", field, expected, actual))
	}

	if want.Error != "" {
		if r.ErrorKind != want.Error {
			mismatch("error", want.Error, orNone(r.ErrorKind))
			return errs
		}
		if want.Target != "" && r.Target != want.Target {
			mismatch("target", want.Target, r.Target)
		}
		if want.Ratio != "" && r.Ratio != want.Ratio {
			mismatch("ratio", want.Ratio, r.Ratio)
		}
		return errs
	}

	if r.ErrorKind != "" {
		mismatch("error", "none", r.ErrorKind)
		return errs
	}
	if canvas := fmt.Sprintf("%dx%d", want.Width, want.Height); r.Canvas != canvas {
		mismatch("canvas", canvas, r.Canvas)
	}
	if want.Bands != nil && !slices.Equal(r.Bands, want.Bands) {
		mismatch("bands", want.Bands, r.Bands)
	}
	return errs
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
