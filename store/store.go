// Package store persists extraction results in Postgres through gorm.
// One row per processed document: the record fields, the line items as
// a JSON column, and the processing metadata the pipeline attached.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/solera/factura"
	"github.com/solera/factura/items"
)

// Extraction is one persisted extraction run. Scalar fields keep the
// record's pointer form, so an absent field stays NULL in the database
// rather than collapsing into an empty string.
type Extraction struct {
	ID            string `gorm:"primaryKey"`
	Source        string `gorm:"index"`
	InvoiceNumber *string
	Date          *string
	ClientName    *string
	ClientID      *string
	Total         *string
	Items         []items.Item `gorm:"serializer:json"`
	DurationMS    int64
	ProcessedAt   time.Time
	CreatedAt     time.Time
}

// Record rebuilds the extraction record this row was saved from.
func (e *Extraction) Record() *factura.Record {
	list := e.Items
	if list == nil {
		list = []items.Item{}
	}
	return &factura.Record{
		InvoiceNumber: e.InvoiceNumber,
		Date:          e.Date,
		Total:         e.Total,
		ClientName:    e.ClientName,
		ClientID:      e.ClientID,
		Items:         list,
	}
}

// Meta rebuilds the processing metadata this row was saved with.
func (e *Extraction) Meta() factura.Meta {
	return factura.Meta{
		ID:        e.ID,
		Source:    e.Source,
		Duration:  time.Duration(e.DurationMS) * time.Millisecond,
		Timestamp: e.ProcessedAt,
	}
}

// Store reads and writes extractions.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// Open connects to Postgres with the given DSN, migrates the schema
// and returns a ready store. A nil logger falls back to the default.
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return New(db, logger)
}

// New wraps an existing gorm connection, migrating the schema first.
func New(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := db.AutoMigrate(&Extraction{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db, log: logger}, nil
}

// Save persists one extraction. An empty meta ID gets a fresh UUID;
// the stored ID is always returned on the row.
func (s *Store) Save(ctx context.Context, rec *factura.Record, meta factura.Meta) (*Extraction, error) {
	e := &Extraction{
		ID:            meta.ID,
		Source:        meta.Source,
		InvoiceNumber: rec.InvoiceNumber,
		Date:          rec.Date,
		ClientName:    rec.ClientName,
		ClientID:      rec.ClientID,
		Total:         rec.Total,
		Items:         rec.Items,
		DurationMS:    meta.Duration.Milliseconds(),
		ProcessedAt:   meta.Timestamp,
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, fmt.Errorf("store: save %s: %w", meta.Source, err)
	}
	s.log.Info("store.saved", "id", e.ID, "source", e.Source)
	return e, nil
}

// List returns every stored extraction, newest first.
func (s *Store) List(ctx context.Context) ([]Extraction, error) {
	var rows []Extraction
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return rows, nil
}

// Get returns one extraction by ID. The wrapped error satisfies
// errors.Is against gorm.ErrRecordNotFound for unknown IDs.
func (s *Store) Get(ctx context.Context, id string) (*Extraction, error) {
	var row Extraction
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return &row, nil
}
