package mocks

import (
	"context"
	"sync/atomic"

	"storefront/domain/shared"
	"storefront/infrastructure/persistence/retry"
)

// MockUnitOfWork runs fn without a transaction but keeps the retry
// behaviour of the SQL unit of work, so conflict handling can be tested
// against the in-memory repository.
type MockUnitOfWork struct {
	retryConfig retry.Config
	attempts    atomic.Int64
}

// NewMockUnitOfWork retries without delay
func NewMockUnitOfWork() *MockUnitOfWork {
	cfg := retry.DefaultConfig
	cfg.MaxAttempts = 5
	cfg.InitialDelay = 0
	cfg.JitterEnabled = false
	return &MockUnitOfWork{retryConfig: cfg}
}

// NewMockUnitOfWorkWithRetry uses cfg for conflict retries
func NewMockUnitOfWorkWithRetry(cfg retry.Config) *MockUnitOfWork {
	return &MockUnitOfWork{retryConfig: cfg}
}

func (u *MockUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.ExecuteWithRetry(ctx, u.retryConfig, func(ctx context.Context) error {
		u.attempts.Add(1)
		return fn(ctx)
	})
}

// Attempts total number of times fn was invoked
func (u *MockUnitOfWork) Attempts() int64 {
	return u.attempts.Load()
}

var _ shared.UnitOfWork = (*MockUnitOfWork)(nil)
