// Package export renders extraction results as XLSX workbooks: one
// workbook per invoice, or a consolidated workbook with one row per
// invoice for batch runs.
package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/solera/factura"
	"github.com/solera/factura/items"
)

const (
	invoiceSheet      = "Datos Extraídos"
	itemsSheet        = "Conceptos"
	consolidatedSheet = "Facturas Procesadas"

	columnWidth = 18
	timeLayout  = "2006-01-02 15:04:05"
	nameLayout  = "20060102_150405"
)

// headers describe one invoice per row. Extracted fields first, then
// the processing metadata.
var headers = []string{
	"Núm. Factura",
	"Fecha",
	"Cliente",
	"NIF/CIF Cliente",
	"Concepto",
	"Total Factura",
	"Archivo Original",
	"Fecha Proceso",
	"Duración (s)",
	"ID Documento",
}

// Entry pairs an extraction with its processing metadata.
type Entry struct {
	Record *factura.Record
	Meta   factura.Meta
}

// Writer builds and saves workbooks.
type Writer struct {
	log *slog.Logger
}

// NewWriter creates a Writer. A nil logger falls back to the default.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{log: logger}
}

// Invoice builds a workbook for a single extraction: the field sheet
// plus a Conceptos sheet with one row per line item.
func (w *Writer) Invoice(e Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	writeHeaders(f, invoiceSheet, st)
	writeEntry(f, invoiceSheet, 2, e, st)
	note := fmt.Sprintf("Procesado: %s", time.Now().Format(timeLayout))
	writeFooter(f, invoiceSheet, 4, 3, note, st)
	_ = f.SetColWidth(invoiceSheet, "A", lastColumn(), columnWidth)

	if err := writeItems(f, e.Record.Items, st); err != nil {
		return nil, err
	}
	return f, nil
}

// Consolidated builds a workbook with one row per extraction plus an
// auto-filtered header row.
func (w *Writer) Consolidated(entries []Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", consolidatedSheet); err != nil {
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	writeHeaders(f, consolidatedSheet, st)
	for i, e := range entries {
		writeEntry(f, consolidatedSheet, 2+i, e, st)
	}

	filterRange := fmt.Sprintf("A1:%s%d", lastColumn(), len(entries)+1)
	if err := f.AutoFilter(consolidatedSheet, filterRange, nil); err != nil {
		return nil, fmt.Errorf("export: auto filter: %w", err)
	}
	_ = f.SetColWidth(consolidatedSheet, "A", lastColumn(), columnWidth)

	note := fmt.Sprintf("Procesado: %s - Total facturas: %d",
		time.Now().Format(timeLayout), len(entries))
	writeFooter(f, consolidatedSheet, len(entries)+3, 4, note, st)

	return f, nil
}

// SaveInvoice writes a single-invoice workbook to path.
func (w *Writer) SaveInvoice(path string, e Entry) error {
	start := time.Now()
	f, err := w.Invoice(e)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	w.log.Info("export.xlsx.ok",
		"path", path,
		"source", e.Meta.Source,
		"items", len(e.Record.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// SaveConsolidated writes a consolidated workbook to path.
func (w *Writer) SaveConsolidated(path string, entries []Entry) error {
	start := time.Now()
	f, err := w.Consolidated(entries)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	w.log.Info("export.xlsx.ok",
		"path", path,
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// SingleName is the output path for one processed invoice: the source
// file's base name with a _procesado suffix, under dir.
func SingleName(dir, source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, base+"_procesado.xlsx")
}

// ConsolidatedName is the output path for a batch run over inputDir.
func ConsolidatedName(dir, inputDir string, now time.Time) string {
	folder := filepath.Base(filepath.Clean(inputDir))
	return filepath.Join(dir, fmt.Sprintf("facturas_%s_%s.xlsx", folder, now.Format(nameLayout)))
}

type styles struct {
	header int
	data   int
	footer int
}

func newStyles(f *excelize.File) (styles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border: thin,
	})
	if err != nil {
		return styles{}, fmt.Errorf("export: header style: %w", err)
	}
	data, err := f.NewStyle(&excelize.Style{Border: thin})
	if err != nil {
		return styles{}, fmt.Errorf("export: data style: %w", err)
	}
	footer, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 8},
	})
	if err != nil {
		return styles{}, fmt.Errorf("export: footer style: %w", err)
	}
	return styles{header: header, data: data, footer: footer}, nil
}

func writeHeaders(f *excelize.File, sheet string, st styles) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	_ = f.SetCellStyle(sheet, "A1", lastColumn()+"1", st.header)
}

func writeEntry(f *excelize.File, sheet string, row int, e Entry, st styles) {
	rec := e.Record
	values := []any{
		orEmpty(rec.InvoiceNumber),
		orEmpty(rec.Date),
		orEmpty(rec.ClientName),
		orEmpty(rec.ClientID),
		conceptText(rec.Items),
		orEmpty(rec.Total),
		e.Meta.Source,
		e.Meta.Timestamp.Format(timeLayout),
		fmt.Sprintf("%.2f", e.Meta.Duration.Seconds()),
		e.Meta.ID,
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	_ = f.SetCellStyle(sheet, first, last, st.data)
}

func writeFooter(f *excelize.File, sheet string, row, span int, note string, st styles) {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetCellValue(sheet, cell, note)
	_ = f.SetCellStyle(sheet, cell, cell, st.footer)
	end, _ := excelize.CoordinatesToCellName(span, row)
	_ = f.MergeCell(sheet, cell, end)
}

func writeItems(f *excelize.File, list []items.Item, st styles) error {
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("export: items sheet: %w", err)
	}
	_ = f.SetCellValue(itemsSheet, "A1", "Concepto")
	_ = f.SetCellValue(itemsSheet, "B1", "Importe")
	_ = f.SetCellStyle(itemsSheet, "A1", "B1", st.header)

	for i, it := range list {
		aCell, _ := excelize.CoordinatesToCellName(1, i+2)
		bCell, _ := excelize.CoordinatesToCellName(2, i+2)
		_ = f.SetCellValue(itemsSheet, aCell, it.Description)
		_ = f.SetCellValue(itemsSheet, bCell, it.Amount)
		_ = f.SetCellStyle(itemsSheet, aCell, bCell, st.data)
	}
	_ = f.SetColWidth(itemsSheet, "A", "A", 40)
	_ = f.SetColWidth(itemsSheet, "B", "B", 14)
	return nil
}

// conceptText summarizes line items for the Concepto column: the only
// description, or the first one with a count of the rest.
func conceptText(list []items.Item) string {
	if len(list) == 0 {
		return ""
	}
	if len(list) == 1 {
		return list[0].Description
	}
	return fmt.Sprintf("%s y %d conceptos más", list[0].Description, len(list)-1)
}

func orEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func lastColumn() string {
	col, _ := excelize.ColumnNumberToName(len(headers))
	return col
}
