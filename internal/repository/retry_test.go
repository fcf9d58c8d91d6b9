package repository

import (
	"context"
	"errors"
	"testing"
)

func TestWithBackoffTerminalErrorNotRetried(t *testing.T) {
	calls := 0
	err := withBackoff(context.Background(), func() error {
		calls++
		return ErrDuplicateVote
	})
	if err != ErrDuplicateVote {
		t.Fatalf("err = %v, want ErrDuplicateVote", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (terminal errors must not retry)", calls)
	}
}

func TestWithBackoffTransientErrorRetried(t *testing.T) {
	transient := errors.New("connection reset by peer")
	calls := 0
	err := withBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})
	if err != nil {
		t.Fatalf("err = %v, want success after retries", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestWithBackoffGivesUpAfterAttempts(t *testing.T) {
	transient := errors.New("lock wait timeout")
	calls := 0
	err := withBackoff(context.Background(), func() error {
		calls++
		return transient
	})
	if err != transient {
		t.Fatalf("err = %v, want the transient error surfaced", err)
	}
	if calls != retryAttempts {
		t.Fatalf("calls = %d, want %d", calls, retryAttempts)
	}
}

func TestWithBackoffRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	transient := errors.New("broken pipe")
	err := withBackoff(ctx, func() error { return transient })
	if err == nil {
		t.Fatal("expected an error with cancelled context")
	}
}
