package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/config"
	"storefront/domain/user"
	"storefront/infrastructure/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "storefront", Version: "test", Env: "test"},
		Server:   config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Type: "mock"},
		Log:      config.LogConfig{Level: "error", Format: "json", Output: "stdout"},
		Auth:     config.AuthConfig{JWTSecret: "0123456789abcdef0123456789abcdef", Issuer: "storefront", TokenTTL: time.Hour},
		Order:    config.OrderConfig{CheckCodeBeforeInsert: true},
		Metrics:  config.MetricsConfig{Enabled: true, Path: "/metrics", Namespace: "storefront"},
	}
}

func TestBuildMockApp(t *testing.T) {
	cfg := testConfig()
	app, err := NewBuilder(cfg).Build()
	require.NoError(t, err)

	token, err := auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Hour).
		IssueToken(user.Identity{ID: "alice", Role: user.RoleCustomer})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[{"product_id":"espresso","quantity":2}]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total_price":"5.00"`)

	w = httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	t.Log("✓ mock-backed app serves orders and metrics")
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = ""
	_, err := NewBuilder(cfg).Build()
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Database.Type = "postgres"
	_, err = NewBuilder(cfg).Build()
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	app, err := NewBuilder(testConfig()).Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
