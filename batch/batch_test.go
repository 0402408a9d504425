package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/solera/factura"
	"github.com/solera/factura/acquire"
)

func dumpFor(total string) string {
	return fmt.Sprintf(`{
		"full_text": "FACTURA 24/62 TOTAL %s",
		"words": [
			{"text": "FACTURA", "box": [0, 0, 60, 10]},
			{"text": "24/62", "box": [65, 0, 100, 10]},
			{"text": "TOTAL", "box": [0, 900, 50, 910]},
			{"text": "%s", "box": [55, 900, 100, 910]}
		]
	}`, total, total)
}

func makeInputDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	return dir
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_Run(t *testing.T) {
	dir := makeInputDir(t, map[string]string{
		"a.json": dumpFor("100,00"),
		"b.json": dumpFor("250,50"),
	})

	runner := NewRunner(factura.New(), acquire.NewSource(nil), quietLogger(), WithWorkers(2))
	entries, err := runner.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Sorted by source path regardless of worker completion order.
	if filepath.Base(entries[0].Meta.Source) != "a.json" {
		t.Errorf("expected a.json first, got %s", entries[0].Meta.Source)
	}
	for _, e := range entries {
		if e.Record.InvoiceNumber == nil || *e.Record.InvoiceNumber != "24/62" {
			t.Errorf("%s: unexpected invoice number %v", e.Meta.Source, e.Record.InvoiceNumber)
		}
		if e.Meta.ID == "" {
			t.Errorf("%s: expected a document ID", e.Meta.Source)
		}
		if e.Meta.Timestamp.IsZero() {
			t.Errorf("%s: expected a processing timestamp", e.Meta.Source)
		}
	}
	if *entries[0].Record.Total != "100,00" || *entries[1].Record.Total != "250,50" {
		t.Errorf("totals did not follow their sources: %v, %v",
			entries[0].Record.Total, entries[1].Record.Total)
	}
}

func TestRunner_SkipsFailingDocuments(t *testing.T) {
	dir := makeInputDir(t, map[string]string{
		"good.json":   dumpFor("100,00"),
		"broken.json": `{"words": "not an array"}`,
		"notes.txt":   "ignored outright",
	})

	entries, err := NewRunner(factura.New(), acquire.NewSource(nil), quietLogger()).
		Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if filepath.Base(entries[0].Meta.Source) != "good.json" {
		t.Errorf("unexpected survivor: %s", entries[0].Meta.Source)
	}
}

func TestRunner_EmptyDirectory(t *testing.T) {
	entries, err := NewRunner(factura.New(), acquire.NewSource(nil), quietLogger()).
		Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestRunner_MissingDirectory(t *testing.T) {
	_, err := NewRunner(factura.New(), acquire.NewSource(nil), quietLogger()).
		Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRunner_CanceledContext(t *testing.T) {
	dir := makeInputDir(t, map[string]string{"a.json": dumpFor("100,00")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A pre-canceled context may still drain if the queue has room, so
	// force the select by filling beyond the queue.
	runner := NewRunner(factura.New(), acquire.NewSource(nil), quietLogger(),
		WithWorkers(1), WithQueueSize(1))
	if _, err := runner.Run(ctx, dir); err != nil && err != context.Canceled {
		t.Errorf("expected nil or context.Canceled, got %v", err)
	}
}

func TestRunner_TokenDumps(t *testing.T) {
	dir := makeInputDir(t, map[string]string{"a.json": dumpFor("100,00")})
	dumps := t.TempDir()

	runner := NewRunner(factura.New(), acquire.NewSource(nil), quietLogger(), WithTokenDumps(dumps))
	if _, err := runner.Run(context.Background(), dir); err != nil {
		t.Fatalf("run: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dumps, "a_ocr.json")); err != nil {
		t.Errorf("expected token dump: %v", err)
	}
}
