// Package generate calls an external text-generation service with an
// assembled prompt. Expected failures (missing credential, upstream errors,
// transport problems) come back as diagnostic answer strings rather than
// errors, so callers always have something to show the user.
package generate

import "context"

// Generator produces text for a prompt. Generate never fails: every expected
// failure mode is folded into the returned string with a diagnostic prefix.
type Generator interface {
	Generate(ctx context.Context, prompt string) string

	// Name returns the name of this generation backend.
	Name() string
}
