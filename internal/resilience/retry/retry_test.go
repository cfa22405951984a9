package retry

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"

	"daybook/internal/observability/logging"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff(t *testing.T) {
	connLost := &pgconn.PgError{Code: "08006", Message: "connection failure"}
	dupKey := &pgconn.PgError{Code: "23505", Message: "duplicate key"}

	tests := []struct {
		name      string
		attempts  int
		failures  []error // returned by successive calls, then nil
		wantCalls int
		wantErr   error
	}{
		{"first call succeeds", 3, nil, 1, nil},
		{"recovers after transient failures", 3, []error{connLost, syscall.ECONNRESET}, 3, nil},
		{"gives up after max attempts", 3, []error{connLost, connLost, connLost, connLost}, 3, connLost},
		{"non-retryable stops at once", 3, []error{dupKey}, 1, dupKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := WithBackoff(context.Background(), fastConfig(tt.attempts), func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want it to wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestWithBackoff_NonRetryableReturnedUnwrapped(t *testing.T) {
	sentinel := errors.New("entry is invalid")
	err := WithBackoff(context.Background(), fastConfig(3), func() error { return sentinel })
	if err != sentinel {
		t.Errorf("err = %v, want the original error", err)
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Second

	calls := 0
	err := WithBackoff(ctx, cfg, func() error {
		calls++
		cancel()
		return syscall.ECONNRESET
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline exceeded", context.DeadlineExceeded, false},
		{"postgres connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"postgres serialization failure", fmt.Errorf("Update: %w", &pgconn.PgError{Code: "40001"}), true},
		{"postgres deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"bad connection", fmt.Errorf("Get: %w", driver.ErrBadConn), true},
		{"sqlite error with generic code", &sqlite.Error{}, false},
		{"ECONNREFUSED", syscall.ECONNREFUSED, true},
		{"ECONNRESET", syscall.ECONNRESET, true},
		{"ETIMEDOUT", syscall.ETIMEDOUT, true},
		{"ENETUNREACH", syscall.ENETUNREACH, true},
		{"generic error", errors.New("some error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRetryable(tt.err)
			if result != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", result, tt.retryable)
			}
		})
	}
}

func TestNextDelay(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2.0}

	d := cfg.InitialDelay
	var got []time.Duration
	for i := 0; i < 3; i++ {
		d = nextDelay(d, cfg)
		got = append(got, d)
	}

	want := []time.Duration{200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: delay = %v, want %v", i+1, got[i], want[i])
		}
	}
}

func TestDBConfig(t *testing.T) {
	cfg := DBConfig()

	if cfg.MaxAttempts != 3 {
		t.Errorf("expected MaxAttempts=3, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 100*time.Millisecond {
		t.Errorf("expected InitialDelay=100ms, got %v", cfg.InitialDelay)
	}
}

func TestIndexConfig(t *testing.T) {
	cfg := IndexConfig()

	if cfg.MaxAttempts != 2 {
		t.Errorf("expected MaxAttempts=2, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 50*time.Millisecond {
		t.Errorf("expected InitialDelay=50ms, got %v", cfg.InitialDelay)
	}
}

func TestAddJitter(t *testing.T) {
	const d = 100 * time.Millisecond

	if got := addJitter(d, 0); got != d {
		t.Errorf("fraction 0: got %v, want %v", got, d)
	}

	seen := make(map[time.Duration]bool)
	for i := 0; i < 20; i++ {
		got := addJitter(d, 0.2)
		if got < d || got > d+20*time.Millisecond {
			t.Fatalf("fraction 0.2: %v outside [%v, %v]", got, d, d+20*time.Millisecond)
		}
		seen[got] = true
	}
	if len(seen) < 2 {
		t.Error("jitter produced a constant delay")
	}

	if got := addJitter(d, 5); got > 2*d {
		t.Errorf("fraction above 1 not clamped: %v", got)
	}
}

func TestWithBackoff_LogsWithContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With("request_id", "req-7")
	ctx := logging.WithLogger(context.Background(), logger)

	cfg := Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	calls := 0
	err := WithBackoff(ctx, cfg, func() error {
		calls++
		if calls == 1 {
			return driver.ErrBadConn
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "operation failed, retrying") || !strings.Contains(out, `"request_id":"req-7"`) {
		t.Errorf("retry log missing request id: %s", out)
	}
}
