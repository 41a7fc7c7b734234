package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/stackpng/stackpng/internal/mcmeta"
)

// DomainInputs prefixes input fingerprints. The version suffix allows the
// fingerprint layout to change without colliding with old rows.
const DomainInputs = "stackpng/inputs/v1"

// InputDigest is the content hash of one input frame.
type InputDigest struct {
	Path   string
	SHA256 string
}

// Settings are the options that influence the bytes a run produces.
type Settings struct {
	Resize            bool
	IgnoreAspectRatio bool
	DisableMCMeta     bool
	FrameTime         uint16
}

// DigestFiles hashes the contents of paths, preserving order.
func DigestFiles(paths []string) ([]InputDigest, error) {
	digests := make([]InputDigest, 0, len(paths))
	for _, p := range paths {
		sum, err := digestFile(p)
		if err != nil {
			return nil, err
		}
		digests = append(digests, InputDigest{Path: p, SHA256: sum})
	}
	return digests, nil
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Fingerprint identifies a build by its ordered input contents and settings.
// Paths are excluded: moving the frames does not change the output.
//
// Format: hex(SHA256(DomainInputs + 0x00 + canonical JSON)).
func Fingerprint(inputs []InputDigest, s Settings) (string, error) {
	hashes := make([]any, len(inputs))
	for i, in := range inputs {
		hashes[i] = in.SHA256
	}
	doc := map[string]any{
		"inputs": hashes,
		"settings": map[string]any{
			"resize":              s.Resize,
			"ignore_aspect_ratio": s.IgnoreAspectRatio,
			"disable_mcmeta":      s.DisableMCMeta,
			"frame_time":          s.FrameTime,
		},
	}

	canonical, err := mcmeta.MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInputs, canonical), nil
}

// hashWithDomain computes SHA-256 with domain separation.
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
