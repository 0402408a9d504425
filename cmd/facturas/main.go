// facturas extracts structured data from invoice documents.
//
// One-shot over a single document, printing the record as JSON and
// writing a workbook next to it:
//
//	facturas -file factura.pdf -out ./salida
//
// Batch over a directory, with per-invoice workbooks plus a
// consolidated one:
//
//	facturas -dir ./facturas -out ./salida
//
// Or as an HTTP service:
//
//	facturas -serve -addr :8080
//
// Configuration comes from flags and the environment (a .env file is
// loaded when present): FACTURAS_DB_DSN enables the Postgres store in
// serve mode, AZURE_CV_ENDPOINT/AZURE_CV_KEY select Azure OCR for
// scanned images, and FACTURAS_OCR_LANG picks the local Tesseract
// language when built with -tags ocr.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/solera/factura"
	"github.com/solera/factura/acquire"
	"github.com/solera/factura/batch"
	"github.com/solera/factura/export"
	"github.com/solera/factura/ocr"
	"github.com/solera/factura/server"
	"github.com/solera/factura/store"
	"github.com/solera/factura/tokenjson"
)

func main() {
	var (
		file    = flag.String("file", "", "process a single invoice document")
		dir     = flag.String("dir", "", "process every supported document in a directory")
		out     = flag.String("out", ".", "directory for generated workbooks")
		saveOCR = flag.Bool("save-ocr", false, "save each document's token stream as JSON under -out")
		serve   = flag.Bool("serve", false, "run the HTTP API instead of a one-shot extraction")
		addr    = flag.String("addr", ":8080", "listen address for -serve")
		lang    = flag.String("lang", "", "OCR language (defaults to FACTURAS_OCR_LANG, then spa)")
		workers = flag.Int("workers", 4, "concurrent extractions for -dir")
		debug   = flag.Bool("debug", false, "verbose logging")
	)
	flag.Parse()

	// Best effort: absent .env files are the normal case.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *lang == "" {
		*lang = getEnv("FACTURAS_OCR_LANG", "spa")
	}

	engine := factura.New()
	source := acquire.NewSource(newOCR(logger, *lang))
	ctx := context.Background()

	switch {
	case *serve:
		runServe(logger, engine, source, *addr)
	case *file != "":
		runFile(ctx, logger, engine, source, *file, *out, *saveOCR)
	case *dir != "":
		runDir(ctx, logger, engine, source, *dir, *out, *saveOCR, *workers)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// newOCR picks the image recognition backend: Azure when credentials
// are configured, the local Tesseract client otherwise. Without either
// the pipeline still handles PDFs and token dumps.
func newOCR(logger *slog.Logger, lang string) acquire.ImageOCR {
	if endpoint := os.Getenv("AZURE_CV_ENDPOINT"); endpoint != "" {
		if key := os.Getenv("AZURE_CV_KEY"); key != "" {
			logger.Info("ocr.azure", "endpoint", endpoint)
			return ocr.NewAzure(endpoint, key)
		}
		logger.Warn("ocr.azure.skipped", "reason", "AZURE_CV_KEY not set")
	}
	client, err := ocr.New(lang)
	if err != nil {
		logger.Warn("ocr.disabled", "error", err)
		return nil
	}
	logger.Info("ocr.tesseract", "lang", lang)
	return client
}

func runFile(ctx context.Context, logger *slog.Logger, engine *factura.Engine, source *acquire.Source, path, out string, saveOCR bool) {
	start := time.Now()
	toks, err := source.FromFile(ctx, path)
	if err != nil {
		fatal(logger, "acquire failed", "path", path, "error", err)
	}
	if saveOCR {
		if err := tokenjson.Save(dumpName(out, path), toks); err != nil {
			logger.Warn("dump.failed", "path", path, "error", err)
		}
	}

	rec := engine.Extract(toks)
	entry := export.Entry{
		Record: rec,
		Meta: factura.Meta{
			ID:        uuid.NewString(),
			Source:    path,
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		},
	}
	if err := export.NewWriter(logger).SaveInvoice(export.SingleName(out, path), entry); err != nil {
		fatal(logger, "export failed", "path", path, "error", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		fatal(logger, "encode failed", "error", err)
	}
	fmt.Println(string(data))
}

func runDir(ctx context.Context, logger *slog.Logger, engine *factura.Engine, source *acquire.Source, dir, out string, saveOCR bool, workers int) {
	opts := []batch.Option{batch.WithWorkers(workers)}
	if saveOCR {
		opts = append(opts, batch.WithTokenDumps(out))
	}

	entries, err := batch.NewRunner(engine, source, logger, opts...).Run(ctx, dir)
	if err != nil {
		fatal(logger, "batch failed", "dir", dir, "error", err)
	}

	writer := export.NewWriter(logger)
	for _, e := range entries {
		if err := writer.SaveInvoice(export.SingleName(out, e.Meta.Source), e); err != nil {
			logger.Error("export.failed", "source", e.Meta.Source, "error", err)
		}
	}
	path := export.ConsolidatedName(out, dir, time.Now())
	if err := writer.SaveConsolidated(path, entries); err != nil {
		fatal(logger, "consolidated export failed", "path", path, "error", err)
	}
}

func runServe(logger *slog.Logger, engine *factura.Engine, source *acquire.Source, addr string) {
	var st *store.Store
	if dsn := os.Getenv("FACTURAS_DB_DSN"); dsn != "" {
		var err error
		if st, err = store.Open(dsn, logger); err != nil {
			fatal(logger, "store failed", "error", err)
		}
	} else {
		logger.Info("store.disabled", "reason", "FACTURAS_DB_DSN not set")
	}

	if err := server.New(engine, source, st, logger).Run(addr); err != nil {
		fatal(logger, "server failed", "error", err)
	}
}

func fatal(logger *slog.Logger, msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// dumpName is the token dump path for one source document, matching
// the naming the batch runner uses.
func dumpName(dir, source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, base+"_ocr.json")
}
