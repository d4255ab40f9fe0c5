package generation

import "context"

// maxAttempts bounds every generation loop. Fixed across all pipelines.
const maxAttempts = 3

// attemptFunc runs one generation attempt. feedback carries the named errors
// from the previous attempt so the prompt can ask the model to fix them; it
// is nil on the first attempt. An empty error slice means the payload was
// accepted.
type attemptFunc[T any] func(ctx context.Context, feedback []string) (T, []string)

// withRetries calls fn up to max times and returns the first accepted
// payload. On exhaustion it returns the zero payload and the last attempt's
// errors. attempts reports how many calls were made (at least 1 unless the
// context was already cancelled).
func withRetries[T any](ctx context.Context, max int, fn attemptFunc[T]) (payload T, attempts int, lastErrs []string) {
	if max < 1 {
		max = 1
	}
	for attempt := 1; attempt <= max; attempt++ {
		if ctx.Err() != nil {
			if lastErrs == nil {
				lastErrs = []string{"context cancelled: " + ctx.Err().Error()}
			}
			return payload, attempts, lastErrs
		}
		attempts = attempt
		out, errs := fn(ctx, lastErrs)
		if len(errs) == 0 {
			return out, attempts, nil
		}
		lastErrs = errs
	}
	var zero T
	return zero, attempts, lastErrs
}
