package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/stackpng/stackpng/internal/mcmeta"
)

// snapshot converts a result to a map for canonical JSON serialization.
// Expectation bookkeeping (Pass, Errors) is left out so the golden file
// records only what the pipeline produced.
func (r *Result) snapshot(name string) map[string]any {
	m := map[string]any{"scenario": name}
	if r.ErrorKind != "" {
		m["error"] = r.ErrorKind
		if r.Target != "" {
			m["target"] = r.Target
		}
		if r.Ratio != "" {
			m["ratio"] = r.Ratio
		}
		return m
	}

	bands := make([]any, len(r.Bands))
	for i, b := range r.Bands {
		bands[i] = b
	}
	m["canvas"] = r.Canvas
	m["frame"] = r.Frame
	m["count"] = r.Count
	m["bands"] = bands
	if r.Descriptor != nil {
		m["descriptor"] = map[string]any{
			"animation": map[string]any{
				"frametime": r.Descriptor.FrameTime,
				"width":     r.Descriptor.Width,
				"height":    r.Descriptor.Height,
			},
		}
	}
	return m
}

// RunWithGolden executes a scenario and compares its outcome against
// testdata/golden/{scenario.Name}.golden.
//
// Returns the result so callers can also check Pass; returns an error if
// the scenario could not be executed or serialized.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := mcmeta.MarshalCanonical(result.snapshot(scenario.Name))
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
