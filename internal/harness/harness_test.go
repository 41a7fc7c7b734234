package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_EqualFrames(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_a_equal_frames.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "16x48", result.Canvas)
	assert.Equal(t, "16x16", result.Frame)
	assert.Equal(t, 3, result.Count)
	require.NotNil(t, result.Descriptor)
	assert.Equal(t, uint16(4), result.Descriptor.FrameTime)
}

func TestRun_DefaultFrameTime(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/scenario_c_resize_square.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	require.NotNil(t, result.Descriptor)
	assert.Equal(t, uint16(2), result.Descriptor.FrameTime)
}

func TestRun_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		file   string
		kind   string
		target string
		ratio  string
	}{
		{"scenario_b_mismatch_without_resize.yaml", ErrorDimension, "16x16", ""},
		{"scenario_d_aspect_mismatch.yaml", ErrorAspectRatio, "16x16", "1.000"},
		{"undecodable_frame.yaml", ErrorDecode, "", ""},
		{"empty_sequence.yaml", ErrorEmptySequence, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", tt.file))
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)

			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Equal(t, tt.kind, result.ErrorKind)
			assert.Equal(t, tt.target, result.Target)
			assert.Equal(t, tt.ratio, result.Ratio)
			assert.Empty(t, result.Canvas)
			assert.Nil(t, result.Descriptor)
		})
	}
}

func TestRun_FailedExpectation(t *testing.T) {
	s := &Scenario{
		Name:        "wrong_order",
		Description: "bands listed in the wrong order",
		Frames: []FrameSpec{
			{Width: 2, Height: 2, Color: "#ff0000"},
			{Width: 2, Height: 2, Color: "#0000ff"},
		},
		Expect: Expect{Width: 2, Height: 4, Bands: []string{"#0000ffff", "#ff0000ff"}},
	}

	result, err := Run(s)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "bands:")
}

func TestEvaluate(t *testing.T) {
	ok := &Result{Canvas: "4x8", Bands: []string{"#000000ff", "#ffffffff"}}
	failed := &Result{ErrorKind: ErrorAspectRatio, Target: "4x4", Ratio: "1.000"}

	tests := []struct {
		name   string
		result *Result
		want   Expect
		errs   []string
	}{
		{
			name:   "matching image",
			result: ok,
			want:   Expect{Width: 4, Height: 8, Bands: []string{"#000000ff", "#ffffffff"}},
		},
		{
			name:   "bands not checked when omitted",
			result: ok,
			want:   Expect{Width: 4, Height: 8},
		},
		{
			name:   "wrong canvas",
			result: ok,
			want:   Expect{Width: 4, Height: 4},
			errs:   []string{"canvas: expected 4x4, got 4x8"},
		},
		{
			name:   "unexpected error",
			result: failed,
			want:   Expect{Width: 4, Height: 8},
			errs:   []string{"error: expected none, got aspect_ratio_mismatch"},
		},
		{
			name:   "missing error",
			result: ok,
			want:   Expect{Error: ErrorDecode},
			errs:   []string{"error: expected decode, got none"},
		},
		{
			name:   "wrong ratio",
			result: failed,
			want:   Expect{Error: ErrorAspectRatio, Target: "4x4", Ratio: "2.000"},
			errs:   []string{"ratio: expected 2.000, got 1.000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.errs, Evaluate(tt.result, tt.want))
		})
	}
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("something broke")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"something broke"}, r.Errors)
}
