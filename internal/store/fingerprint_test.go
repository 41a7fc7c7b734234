package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(a, []byte("abc"), 0644))

	digests, err := DigestFiles([]string{a})
	require.NoError(t, err)
	require.Len(t, digests, 1)
	assert.Equal(t, a, digests[0].Path)
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digests[0].SHA256)

	_, err = DigestFiles([]string{filepath.Join(dir, "missing.png")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFingerprint_Deterministic(t *testing.T) {
	inputs := []InputDigest{{Path: "a.png", SHA256: "aa"}, {Path: "b.png", SHA256: "bb"}}
	settings := Settings{Resize: true, FrameTime: 2}

	fp1, err := Fingerprint(inputs, settings)
	require.NoError(t, err)
	fp2, err := Fingerprint(inputs, settings)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)
}

func TestFingerprint_Sensitivity(t *testing.T) {
	base := []InputDigest{{Path: "a.png", SHA256: "aa"}, {Path: "b.png", SHA256: "bb"}}
	fp, err := Fingerprint(base, Settings{FrameTime: 2})
	require.NoError(t, err)

	reordered := []InputDigest{base[1], base[0]}
	moved := []InputDigest{{Path: "x/a.png", SHA256: "aa"}, {Path: "x/b.png", SHA256: "bb"}}

	tests := []struct {
		name     string
		inputs   []InputDigest
		settings Settings
		same     bool
	}{
		{"reordered inputs", reordered, Settings{FrameTime: 2}, false},
		{"different frame time", base, Settings{FrameTime: 3}, false},
		{"resize enabled", base, Settings{FrameTime: 2, Resize: true}, false},
		{"aspect ratio ignored", base, Settings{FrameTime: 2, IgnoreAspectRatio: true}, false},
		{"descriptor disabled", base, Settings{FrameTime: 2, DisableMCMeta: true}, false},
		{"moved files", moved, Settings{FrameTime: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fingerprint(tt.inputs, tt.settings)
			require.NoError(t, err)
			if tt.same {
				assert.Equal(t, fp, got)
			} else {
				assert.NotEqual(t, fp, got)
			}
		})
	}
}
