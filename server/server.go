// Package server exposes the extraction pipeline over HTTP: token
// streams and uploaded documents in, extraction records out, with an
// optional Postgres store behind the listing endpoints.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solera/factura"
	"github.com/solera/factura/acquire"
	"github.com/solera/factura/store"
	"github.com/solera/factura/tokenjson"
)

// maxUploadBytes bounds document uploads. Single-page invoice scans
// stay well under this.
const maxUploadBytes = 32 << 20

// Response is the body returned for every extraction endpoint.
type Response struct {
	Record *factura.Record `json:"record"`
	Meta   factura.Meta    `json:"meta"`
}

// Server routes extraction requests to the engine.
type Server struct {
	engine *factura.Engine
	source *acquire.Source
	store  *store.Store
	log    *slog.Logger
	router *gin.Engine
}

// New assembles the HTTP surface. The store may be nil, which disables
// persistence: extractions still run, listings answer 503. A nil
// logger falls back to the default.
func New(engine *factura.Engine, source *acquire.Source, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		source: source,
		store:  st,
		log:    logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = maxUploadBytes

	router.GET("/healthz", s.health)
	api := router.Group("/api")
	api.POST("/extract", s.extract)
	api.POST("/invoices", s.upload)
	api.GET("/invoices", s.list)
	api.GET("/invoices/:id", s.get)

	s.router = router
	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info("server.listen", "addr", addr, "store", s.store != nil)
	return s.router.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// extract runs the engine over a token-stream JSON body. The body is
// schema-validated; malformed streams answer 400.
func (s *Server) extract(c *gin.Context) {
	start := time.Now()
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	toks, err := tokenjson.Unmarshal(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.respond(c, start, "tokens", s.engine.Extract(toks))
}

// upload accepts a multipart document (PDF, image or token dump),
// acquires its token stream and runs the engine.
func (s *Server) upload(c *gin.Context) {
	start := time.Now()
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	toks, err := s.source.FromUpload(c.Request.Context(), header.Filename, data)
	switch {
	case errors.Is(err, acquire.ErrNoOCR):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no OCR configured for image uploads"})
		return
	case errors.Is(err, acquire.ErrUnsupported):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported document format"})
		return
	case err != nil:
		s.log.Error("server.acquire.failed", "file", header.Filename, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cannot read document"})
		return
	}

	s.respond(c, start, header.Filename, s.engine.Extract(toks))
}

// respond tags the record with metadata, persists it when a store is
// configured, and writes the response. Store failures are logged, not
// surfaced: the extraction already succeeded.
func (s *Server) respond(c *gin.Context, start time.Time, source string, rec *factura.Record) {
	meta := factura.Meta{
		ID:        uuid.NewString(),
		Source:    source,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}
	if s.store != nil {
		if _, err := s.store.Save(c.Request.Context(), rec, meta); err != nil {
			s.log.Error("server.store.failed", "id", meta.ID, "error", err)
		}
	}
	s.log.Info("server.extract.ok", "id", meta.ID, "source", source,
		"items", len(rec.Items), "elapsed_ms", meta.Duration.Milliseconds())
	c.JSON(http.StatusOK, Response{Record: rec, Meta: meta})
}

func (s *Server) list(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}
	rows, err := s.store.List(c.Request.Context())
	if err != nil {
		s.log.Error("server.list.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) get(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no store configured"})
		return
	}
	row, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown extraction"})
		return
	}
	if err != nil {
		s.log.Error("server.get.failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}
