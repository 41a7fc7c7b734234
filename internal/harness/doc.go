// Package harness runs declarative conformance scenarios against the
// imaging pipeline and the descriptor encoder.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	frames:
//	  - { width: 16, height: 16, color: "#ff0000" }
//	  - { name: broken.png, raw: "not a png" }
//	options:
//	  resize: true
//	  ignore_aspect_ratio: false
//	  frame_time: 4
//	expect:
//	  width: 16
//	  height: 32
//	  bands: ["#ff0000ff", "#00ff00ff"]
//
// A failing scenario names the error kind instead:
//
//	expect:
//	  error: aspect_ratio_mismatch
//	  target: 16x16
//	  ratio: "1.000"
//
// # Golden Files
//
// RunWithGolden serializes the observed outcome as canonical JSON and
// compares it against testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
