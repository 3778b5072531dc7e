package governor

import "context"

// Call acquires budget from the governor, runs fn, and always releases the
// concurrency slot afterward — the common case of "acquire, do one
// inference call, release" collapsed into a single call so stages don't
// have to remember the matching Release on every return path.
func Call(ctx context.Context, g *Governor, estimatedTokens int, label string, fn func(ctx context.Context) error) error {
	if err := g.Acquire(ctx, estimatedTokens, label); err != nil {
		return err
	}
	defer g.Release()

	return fn(ctx)
}
