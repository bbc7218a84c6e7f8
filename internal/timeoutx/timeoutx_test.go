package timeoutx

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTooSlow = errors.New("demorou demais")

func TestRunReturnsResult(t *testing.T) {
	got, err := Run(context.Background(), time.Second, errTooSlow, nil,
		func(ctx context.Context) (int, error) {
			return 42, nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestRunPropagatesOperationError(t *testing.T) {
	opErr := errors.New("falhou")
	_, err := Run(context.Background(), time.Second, errTooSlow, nil,
		func(ctx context.Context) (int, error) {
			return 0, opErr
		})
	if !errors.Is(err, opErr) {
		t.Errorf("got %v, want %v", err, opErr)
	}
}

func TestRunTimesOut(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), 50*time.Millisecond, errTooSlow, nil,
		func(ctx context.Context) (string, error) {
			time.Sleep(5 * time.Second)
			return "nunca", nil
		})
	if !errors.Is(err, errTooSlow) {
		t.Fatalf("got %v, want timeout sentinel", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took too long: %v", elapsed)
	}
}

func TestRunFiresCleanupOnTimeout(t *testing.T) {
	cleaned := make(chan struct{})
	_, err := Run(context.Background(), 50*time.Millisecond, errTooSlow,
		func() { close(cleaned) },
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	if !errors.Is(err, errTooSlow) {
		t.Fatalf("got %v, want timeout sentinel", err)
	}
	select {
	case <-cleaned:
	case <-time.After(time.Second):
		t.Error("cleanup hook never fired")
	}
}

func TestRunRespectsCanceledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, time.Second, errTooSlow, nil,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
	if err == nil {
		t.Fatal("expected an error from canceled parent")
	}
	if errors.Is(err, errTooSlow) {
		t.Errorf("cancellation must not be reported as timeout: %v", err)
	}
}

func TestDoWrapsRun(t *testing.T) {
	ran := false
	err := Do(context.Background(), time.Second, errTooSlow, nil,
		func(ctx context.Context) error {
			ran = true
			return nil
		})
	if err != nil || !ran {
		t.Errorf("Do failed: err=%v ran=%v", err, ran)
	}
}
