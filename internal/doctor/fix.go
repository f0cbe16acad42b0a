package doctor

import "context"

// Fixer is implemented by checks that can repair what they find.
// CanFix and Fix must be called after Run.
type Fixer interface {
	// CanFix returns true if the last Run found something Fix can repair.
	CanFix() bool

	// Fix repairs the issues found by the last Run.
	Fix(ctx context.Context) []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory that was targeted for fixing.
	Path string `json:"path"`

	// Fixed indicates whether the fix was successfully applied.
	Fixed bool `json:"fixed"`

	// Description explains what was fixed or why it couldn't be fixed.
	Description string `json:"description"`

	// Error contains the error if the fix failed.
	Error error `json:"-"`
}

// FixAll runs Fix on every check of r that implements Fixer and reports
// something to fix.
func (r *Runner) FixAll(ctx context.Context) []FixResult {
	var results []FixResult
	for _, c := range r.checks {
		f, ok := c.(Fixer)
		if !ok || !f.CanFix() {
			continue
		}
		results = append(results, f.Fix(ctx)...)
	}
	return results
}
