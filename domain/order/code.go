package order

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// CodeLength number of characters in an order code
	CodeLength = 8
	// CodeAlphabet symbols an order code is drawn from
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// largest multiple of len(CodeAlphabet) that fits in a byte; bytes at or
	// above it are rejected so every symbol stays equally likely
	codeByteLimit = 256 - 256%len(CodeAlphabet)
)

// CodeChecker answers whether a code is already taken.
// The answer is advisory: the unique index on the orders table is what
// actually rejects a duplicate.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// CodeGenerator draws random order codes until one is free
type CodeGenerator struct {
	checker CodeChecker
	random  io.Reader
}

// NewCodeGenerator checker may be nil, in which case every draw is accepted
// and uniqueness is left entirely to storage.
func NewCodeGenerator(checker CodeChecker) *CodeGenerator {
	return &CodeGenerator{checker: checker, random: rand.Reader}
}

// NewCodeGeneratorWithSource uses r instead of crypto/rand
func NewCodeGeneratorWithSource(checker CodeChecker, r io.Reader) *CodeGenerator {
	return &CodeGenerator{checker: checker, random: r}
}

// Generate returns a code that was free at the time of the check.
// There is no retry cap; the loop ends on success, on a checker error or
// when ctx is done.
func (g *CodeGenerator) Generate(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		code, err := RandomCode(g.random)
		if err != nil {
			return "", err
		}
		if g.checker == nil {
			return code, nil
		}

		taken, err := g.checker.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check order code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
}

// RandomCode draws CodeLength symbols uniformly from CodeAlphabet
func RandomCode(r io.Reader) (string, error) {
	code := make([]byte, 0, CodeLength)
	buf := make([]byte, CodeLength)
	for len(code) < CodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= codeByteLimit {
				continue
			}
			code = append(code, CodeAlphabet[int(b)%len(CodeAlphabet)])
			if len(code) == CodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// IsValidCode reports whether s has the order code shape: 8 chars of [A-Z0-9]
func IsValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
