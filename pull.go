package stream

import "context"

// Pull drives s to completion, calling yield once per produced value in
// whatever order the engine chose (source order for any serial portion,
// unspecified across Alt's branches). It returns the first error
// encountered: a user step's own error or recovered panic, an engine
// invariant violation, or an error returned by yield itself (which stops
// the pull immediately without driving s any further).
func Pull[T any](ctx context.Context, s Stream[T], yield func(T) error) error {
	cur := s
	var active *region[T]

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res, err := cur.step(ctx, active)
		if err != nil {
			return err
		}
		if res.Stop {
			return nil
		}
		if err := yield(res.Value); err != nil {
			return err
		}
		if res.Tail == nil {
			return nil
		}
		cur = res.Tail
		active = res.Ctx
	}
}

// Collect drains s and returns its values as a slice, in whatever order
// Pull delivered them.
func Collect[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	var out []T
	err := Pull(ctx, s, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}
