package generation

import (
	"context"
	"testing"
)

func TestWithRetriesStopsOnFirstSuccess(t *testing.T) {
	calls := 0
	got, attempts, errs := withRetries(context.Background(), 3, func(ctx context.Context, feedback []string) (string, []string) {
		calls++
		if calls < 2 {
			return "", []string{"bad"}
		}
		return "ok", nil
	})
	if got != "ok" || attempts != 2 || errs != nil {
		t.Fatalf("got=%q attempts=%d errs=%v", got, attempts, errs)
	}
	if calls != 2 {
		t.Fatalf("attempt fn called %d times, want 2", calls)
	}
}

func TestWithRetriesNeverExceedsMax(t *testing.T) {
	calls := 0
	_, attempts, errs := withRetries(context.Background(), 3, func(ctx context.Context, feedback []string) (int, []string) {
		calls++
		return 0, []string{"always bad"}
	})
	if calls != 3 || attempts != 3 {
		t.Fatalf("calls=%d attempts=%d, want 3", calls, attempts)
	}
	if len(errs) == 0 || errs[0] != "always bad" {
		t.Fatalf("last errors not reported: %v", errs)
	}
}

func TestWithRetriesCallsAtLeastOnce(t *testing.T) {
	calls := 0
	_, attempts, _ := withRetries(context.Background(), 1, func(ctx context.Context, feedback []string) (int, []string) {
		calls++
		return 7, nil
	})
	if calls != 1 || attempts != 1 {
		t.Fatalf("calls=%d attempts=%d, want 1", calls, attempts)
	}
}

func TestWithRetriesFeedsBackPreviousErrors(t *testing.T) {
	var seen [][]string
	withRetries(context.Background(), 3, func(ctx context.Context, feedback []string) (int, []string) {
		seen = append(seen, feedback)
		return 0, []string{"violation_x"}
	})
	if len(seen) != 3 {
		t.Fatalf("want 3 attempts, got %d", len(seen))
	}
	if seen[0] != nil {
		t.Fatalf("first attempt must have no feedback, got %v", seen[0])
	}
	if len(seen[1]) != 1 || seen[1][0] != "violation_x" {
		t.Fatalf("second attempt must see first attempt's errors, got %v", seen[1])
	}
}

func TestWithRetriesHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, attempts, errs := withRetries(ctx, 3, func(ctx context.Context, feedback []string) (int, []string) {
		calls++
		return 0, nil
	})
	if calls != 0 || attempts != 0 {
		t.Fatalf("cancelled context must not run attempts: calls=%d", calls)
	}
	if len(errs) == 0 {
		t.Fatalf("cancellation must be reported")
	}
}
