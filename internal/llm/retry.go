package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

const (
	// maxRetries bounds the retry budget for transient upstream failures.
	maxRetries = 2
	// initialBackoff is the first retry delay; it doubles per attempt.
	initialBackoff = 2 * time.Second
)

// SleepFunc suspends until the duration elapses or the context is canceled.
// Injectable so tests can simulate time instead of waiting on real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SystemSleep is the wall-clock SleepFunc used outside of tests.
func SystemSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsQuotaError reports whether err is a quota/rate-limit exhaustion.
// These never succeed on retry and must propagate immediately.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") ||
		strings.Contains(msg, "exhausted") ||
		strings.Contains(msg, "429")
}

// IsTransientError reports whether err is a retryable overload or
// unavailability condition.
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "unavailable")
}

// retryOperation runs op with exponential backoff on transient failures.
// Quota exhaustion and unclassified errors propagate without retry, so the
// caller sees either eventual success or the terminal error.
func retryOperation[T any](ctx context.Context, sleep SleepFunc, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	delay := initialBackoff

	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if IsQuotaError(err) {
			slog.Error("model quota exceeded, not retrying", "error", err)
			return zero, err
		}
		if !IsTransientError(err) || attempt >= maxRetries {
			return zero, err
		}

		slog.Warn("model busy, backing off", "attempt", attempt+1, "delay", delay, "error", err)
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
		delay *= 2
	}
}
