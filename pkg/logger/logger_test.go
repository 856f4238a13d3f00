package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront/config"
	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNilLoggerSafety(t *testing.T) {
	t.Cleanup(Replace(nil))

	Debug("test debug")
	Info("test info")
	Warn("test warn")
	Error("test error")
	if With(zap.String("key", "value")) == nil {
		t.Error("With() returned nil logger")
	}
	if WithRequestID("test-id") == nil {
		t.Error("WithRequestID() returned nil logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() returned nil logger")
	}
	if err := Sync(); err != nil {
		t.Errorf("Sync on nil logger: %v", err)
	}

	t.Log("✓ Nil logger safety tests passed")
}

func TestFileOutputRotatesThroughLumberjack(t *testing.T) {
	t.Cleanup(Replace(nil))
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	err := Init(&config.LogConfig{Level: "info", Format: "console", Output: "file", FilePath: path}, "production")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Info("order created", zap.String("code", "ABCD1234"))
	Debug("filtered out")
	_ = Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"code":"ABCD1234"`) {
		t.Errorf("file output should be JSON with fields, got %q", content)
	}
	if strings.Contains(content, "filtered out") {
		t.Error("debug entry should be filtered at info level")
	}

	t.Log("✓ File output tests passed")
}

func TestFileOutputRequiresPath(t *testing.T) {
	t.Cleanup(Replace(nil))
	if err := Init(&config.LogConfig{Output: "file"}, "production"); err == nil {
		t.Error("expected error for file output without path")
	}
}

func TestUpdateLevel(t *testing.T) {
	t.Cleanup(Replace(nil))
	if err := Init(&config.LogConfig{Level: "warn", Output: "stdout"}, "development"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Get().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	UpdateLevel("debug")
	if !Get().Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled after UpdateLevel")
	}
}

func TestFromContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(Replace(zap.New(core)))

	ctx := persistence.ContextWithRequestID(context.Background(), "req-42")
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != "req-42" {
		t.Errorf("expected request_id field, got %+v", entries)
	}
}
