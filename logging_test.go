// logging_test.go: logging interface tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"sync"
	"testing"
)

// TestLogger_MessageCapture covers Debug(), Info(), Warn() and Error().
func TestLogger_MessageCapture(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(*TestLogger, string, ...any)
		level   string
		message string
		args    []any
	}{
		{"Debug", (*TestLogger).Debug, "DEBUG", "Module initialized", nil},
		{"Info", (*TestLogger).Info, "INFO", "Library loaded", []any{"library", "bot", "path", "/opt/libbot.so"}},
		{"Warn", (*TestLogger).Warn, "WARN", "Optional library not loaded", nil},
		{"Error", (*TestLogger).Error, "ERROR", "Failed to apply host configuration", []any{"error", "boom"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewTestLogger()
			tt.logFunc(logger, tt.message, tt.args...)

			msgs := logger.Messages()
			if len(msgs) != 1 {
				t.Fatalf("Expected 1 message, got %d", len(msgs))
			}
			if msgs[0].Level != tt.level || msgs[0].Message != tt.message {
				t.Errorf("Expected %s %q, got %s %q", tt.level, tt.message, msgs[0].Level, msgs[0].Message)
			}
			if len(msgs[0].Args) != len(tt.args) {
				t.Fatalf("Expected %d args, got %d", len(tt.args), len(msgs[0].Args))
			}
			for i, arg := range tt.args {
				if msgs[0].Args[i] != arg {
					t.Errorf("Arg[%d]: expected %v, got %v", i, arg, msgs[0].Args[i])
				}
			}
		})
	}
}

func TestLogger_WithSharesStore(t *testing.T) {
	logger := NewTestLogger()
	child := logger.With("library", "bot")
	child.Info("Library loaded", "path", "/opt/libbot.so")

	msgs := logger.Messages()
	if len(msgs) != 1 {
		t.Fatalf("Expected child message in parent store, got %d messages", len(msgs))
	}
	want := []any{"library", "bot", "path", "/opt/libbot.so"}
	if len(msgs[0].Args) != len(want) {
		t.Fatalf("Expected args %v, got %v", want, msgs[0].Args)
	}
	for i := range want {
		if msgs[0].Args[i] != want[i] {
			t.Errorf("Arg[%d]: expected %v, got %v", i, want[i], msgs[0].Args[i])
		}
	}

	logger.Info("parent only")
	if got := len(logger.Messages()[1].Args); got != 0 {
		t.Errorf("Parent must not inherit child fields, got %d args", got)
	}
}

func TestLogger_HasMessageAndClear(t *testing.T) {
	logger := NewTestLogger()
	logger.Info("Library loaded")

	if !logger.HasMessage("INFO", "Library loaded") {
		t.Error("Expected to find INFO message")
	}
	if logger.HasMessage("WARN", "Library loaded") {
		t.Error("Expected NOT to find message with WARN level")
	}

	logger.Clear()
	if len(logger.Messages()) != 0 {
		t.Error("Expected no messages after Clear")
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	logger := NewTestLogger()
	child := logger.With("library", "bot")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logger.Debug("parent")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				child.Debug("child")
			}
		}()
	}
	wg.Wait()

	if got := len(logger.Messages()); got != 2000 {
		t.Errorf("Expected 2000 messages, got %d", got)
	}
}

func TestNewLogger(t *testing.T) {
	if _, ok := NewLogger(nil).(*NoOpLogger); !ok {
		t.Error("nil must select NoOpLogger")
	}

	test := NewTestLogger()
	if NewLogger(test) != Logger(test) {
		t.Error("a Logger must be used as-is")
	}

	defer func() {
		if recover() == nil {
			t.Error("unsupported logger types must panic")
		}
	}()
	NewLogger("not a logger")
}

func TestNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	logger.Debug("debug")
	logger.Info("info", "key", "value")
	logger.Warn("warn")
	logger.Error("error")
	if logger.With("key", "value") != Logger(logger) {
		t.Error("With must return the same no-op logger")
	}
}
