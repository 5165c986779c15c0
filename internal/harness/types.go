package harness

import "github.com/roach88/rexgen/internal/generate"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Reports holds one report per generator run, in order.
	Reports []*generate.Report `json:"reports"`

	// Files maps slash-separated paths, relative to the output root, to
	// the file content after the last run.
	Files map[string][]byte `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Reports: []*generate.Report{},
		Files:   make(map[string][]byte),
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
