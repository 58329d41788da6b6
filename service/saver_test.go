package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaver_WritesCSV(t *testing.T) {
	outcome := &ScanOutcome{
		Host:      "localhost",
		StartPort: 21,
		EndPort:   23,
		Results: []PortResult{
			{Port: 21, Status: StatusClosed},
			{Port: 22, Status: StatusOpen, Service: "SSH"},
			{Port: 23, Status: StatusFiltered},
		},
	}

	final := filepath.Join(t.TempDir(), "nested", "out.csv")
	if err := NewSaver(final).Save(outcome); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Port,Status,Service\n21,closed,Unknown\n22,open,SSH\n23,filtered,Unknown\n"
	if string(got) != want {
		t.Fatalf("content mismatch:\n got %q\nwant %q", string(got), want)
	}
}

func TestSaver_FailPreservesOriginal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	dir := t.TempDir()
	final := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(final, []byte("original"), 0o644); err != nil {
		t.Fatalf("setup write original: %v", err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(dir, 0o755)
	})

	if err := NewSaver(final).Save(&ScanOutcome{}); err == nil {
		t.Fatalf("expected Save to fail on unwritable dir")
	}

	got, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("read final: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("original file was modified: %q", string(got))
	}
}

func TestDefaultOutputFile(t *testing.T) {
	if got := DefaultOutputFile("10.0.0.1", 1700000000000); got != "port-scan-10.0.0.1-1700000000000.csv" {
		t.Fatalf("unexpected name %q", got)
	}
}
