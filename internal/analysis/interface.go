package analysis

import "context"

// Strategy is one analysis variant: given transcript text, produce
// structured meeting intelligence. Variants are interchangeable and
// independently testable.
type Strategy interface {
	Name() Provider
	// Available reports whether the strategy can be attempted at all.
	// Unavailable strategies are skipped without any network call.
	Available() bool
	Analyze(ctx context.Context, text string) (*Result, error)
}
