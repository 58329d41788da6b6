package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetSugar_UsableBeforeInit(t *testing.T) {
	// 未初始化时不应 panic
	GetSugar().Debugf("noop %d", 1)
	GetLogger().Info("noop")
}

func TestInitLogger_WritesFile(t *testing.T) {
	old, oldSugar := logger, sugarLogger
	t.Cleanup(func() {
		logger, sugarLogger = old, oldSugar
	})

	logFile := filepath.Join(t.TempDir(), "scan.log")
	InitLogger(false, logFile)

	GetSugar().Infof("scan %s started", "abc")
	GetSugar().Debugf("hidden debug line")
	Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "scan abc started") {
		t.Fatalf("expected info line in log, got %q", content)
	}
	if strings.Contains(content, "hidden debug line") {
		t.Fatalf("debug line should be filtered outside debug mode: %q", content)
	}
	if !strings.Contains(content, "|INFO|") {
		t.Fatalf("expected pipe separated capital level, got %q", content)
	}
}
