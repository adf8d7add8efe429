package util

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestRetry(t *testing.T) {
	attempts := 0
	targetAttempts := 3

	err := Retry(context.Background(), 5, 0, func() error {
		attempts++
		if attempts < targetAttempts {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry returned unexpected error: %v", err)
	}
	if attempts != targetAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, targetAttempts)
	}
}

func TestRetryAllFail(t *testing.T) {
	attempts := 0
	maxAttempts := 3

	err := Retry(context.Background(), maxAttempts, 0, func() error {
		attempts++
		return errors.New("persistent error")
	})

	if err == nil {
		t.Fatal("Retry should return error when all attempts fail")
	}
	if attempts != maxAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, maxAttempts)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("debug", "json", &buf)
	if log == nil {
		t.Fatal("NewLogger returned nil")
	}
	log.Debug("hello", "k", "v")
	if buf.Len() == 0 {
		t.Error("debug-level logger wrote nothing at debug level")
	}

	buf.Reset()
	log = NewLogger("warn", "text", &buf)
	log.Info("suppressed")
	if buf.Len() != 0 {
		t.Error("warn-level logger should suppress info records")
	}
}
