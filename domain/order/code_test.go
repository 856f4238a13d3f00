package order

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type stubChecker struct {
	taken map[string]bool
	calls int
	err   error
}

func (s *stubChecker) CodeExists(ctx context.Context, code string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.taken[code], nil
}

func TestRandomCodeShape(t *testing.T) {
	gen := NewCodeGenerator(nil)
	for i := 0; i < 2000; i++ {
		code, err := gen.Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(CodeAlphabet, c) {
				t.Fatalf("code %q contains %q outside [A-Z0-9]", code, c)
			}
		}
		if !IsValidCode(code) {
			t.Fatalf("IsValidCode(%q) = false", code)
		}
	}
	t.Log("✓ Generated codes are 8 chars of [A-Z0-9]")
}

func TestRandomCodeRejectsBiasedBytes(t *testing.T) {
	// 252..255 are above the last full multiple of 36 and must be skipped
	src := bytes.NewReader(append(
		[]byte{255, 254, 253, 252, 0, 1, 2, 3},
		[]byte{4, 5, 6, 35, 36, 71, 72, 251}...,
	))
	code, err := RandomCode(src)
	if err != nil {
		t.Fatalf("RandomCode failed: %v", err)
	}
	// 0..6 -> ABCDEFG, 35 -> 9
	if code != "ABCDEFG9" {
		t.Errorf("RandomCode = %q, want ABCDEFG9", code)
	}
}

func TestRandomCodeShortSource(t *testing.T) {
	if _, err := RandomCode(bytes.NewReader([]byte{1, 2})); err == nil {
		t.Error("expected error from exhausted random source")
	}
}

func TestGenerateRedrawsTakenCodes(t *testing.T) {
	// first draw AAAAAAAA is taken, second BBBBBBBB is free
	src := bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1})
	checker := &stubChecker{taken: map[string]bool{"AAAAAAAA": true}}
	gen := NewCodeGeneratorWithSource(checker, src)

	code, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if code != "BBBBBBBB" {
		t.Errorf("Generate = %q, want BBBBBBBB", code)
	}
	if checker.calls != 2 {
		t.Errorf("checker called %d times, want 2", checker.calls)
	}
}

func TestGenerateStopsOnCancelledContext(t *testing.T) {
	checker := &stubChecker{taken: map[string]bool{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCodeGenerator(checker).Generate(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate error = %v, want context.Canceled", err)
	}
}

func TestGeneratePropagatesCheckerError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewCodeGenerator(&stubChecker{err: boom}).Generate(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Generate error = %v, want wrapped %v", err, boom)
	}
}

func TestIsValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"AB12CD34", true},
		{"ZZZZ9999", true},
		{"ab12cd34", false},
		{"AB12CD3", false},
		{"AB12CD345", false},
		{"AB12-D34", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidCode(tt.code); got != tt.want {
			t.Errorf("IsValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
