package harness

import "github.com/stackpng/stackpng/internal/mcmeta"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// ErrorKind is set when the pipeline failed.
	ErrorKind string `json:"error,omitempty"`
	Target    string `json:"target,omitempty"`
	Ratio     string `json:"ratio,omitempty"`

	// Canvas and Frame are "WxH" dimensions of a successful run.
	Canvas string   `json:"canvas,omitempty"`
	Frame  string   `json:"frame,omitempty"`
	Count  int      `json:"count,omitempty"`
	Bands  []string `json:"bands,omitempty"`

	Descriptor *mcmeta.Descriptor `json:"descriptor,omitempty"`

	// Errors contains failed expectations.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
