// Package api handles HTTP and WebSocket API endpoints
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereceipt/ticket-engine/internal/assembler"
	"github.com/thereceipt/ticket-engine/internal/cache"
	"github.com/thereceipt/ticket-engine/internal/registry"
	"github.com/thereceipt/ticket-engine/internal/style"
	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

// Server is the API server
type Server struct {
	router    *gin.Engine
	assembler *assembler.Assembler
	cache     cache.Store
	registry  *registry.Registry
	logger    *log.Logger
	upgrader  websocket.Upgrader

	clients   map[*WSClient]bool
	clientsMu sync.RWMutex
}

// Option configures a Server
type Option func(*Server)

// WithCache enables the rendered document cache
func WithCache(store cache.Store) Option {
	return func(s *Server) { s.cache = store }
}

// WithRegistry exposes the rendered document index
func WithRegistry(reg *registry.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the server logger
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server
func NewServer(asm *assembler.Assembler, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(corsMiddleware())

	server := &Server{
		router:    router,
		assembler: asm,
		logger:    log.Default(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins
			},
		},
		clients: make(map[*WSClient]bool),
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	// HTTP API
	s.router.POST("/tickets/pdf", s.handleRenderPDF)
	s.router.POST("/tickets/preview", s.handlePreview)
	s.router.GET("/styles", s.handleGetStyles)
	s.router.GET("/documents", s.handleGetDocuments)
	s.router.GET("/documents/:reference", s.handleGetDocument)
	s.router.DELETE("/documents/:reference", s.handleDeleteDocument)

	// WebSocket
	s.router.GET("/ws", s.handleWebSocket)

	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

// Handler returns the HTTP handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// bindPurchase decodes and validates the request body
func bindPurchase(c *gin.Context) (*ticketformat.Purchase, bool) {
	var p ticketformat.Purchase
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid purchase: %v", err)})
		return nil, false
	}

	if err := ticketformat.Validate(&p); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid purchase: %v", err)})
		return nil, false
	}

	return &p, true
}

// cached runs render unless the cache already holds key
func (s *Server) cached(ctx context.Context, p *ticketformat.Purchase, render func() ([]byte, error), variant ...string) ([]byte, bool, error) {
	if s.cache == nil {
		data, err := render()
		return data, false, err
	}

	key, err := cache.Key(p, variant...)
	if err != nil {
		return nil, false, err
	}

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Printf("api: cache lookup: %v", err)
	} else if ok {
		return data, true, nil
	}

	data, err := render()
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Printf("api: cache store: %v", err)
	}
	return data, false, nil
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// handleRenderPDF renders the purchase as one PDF document
func (s *Server) handleRenderPDF(c *gin.Context) {
	p, ok := bindPurchase(c)
	if !ok {
		return
	}

	data, hit, err := s.cached(c.Request.Context(), p, func() ([]byte, error) {
		doc, err := s.assembler.Assemble(p.Tickets, *p)
		if err != nil {
			return nil, err
		}
		return doc.Bytes, nil
	}, "pdf")
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to render tickets: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tickets-"+p.Reference+".pdf"))
	c.Header("X-Document-ID", assembler.DocumentID(p.Reference).String())
	c.Header("X-Page-Count", strconv.Itoa(len(p.Tickets)))
	c.Header("X-Cache", cacheHeader(hit))
	c.Data(200, "application/pdf", data)
}

// handlePreview renders one page as PNG. page is 1-based and defaults to 1.
func (s *Server) handlePreview(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		c.JSON(400, gin.H{"error": "page must be a number"})
		return
	}

	p, ok := bindPurchase(c)
	if !ok {
		return
	}

	data, hit, err := s.cached(c.Request.Context(), p, func() ([]byte, error) {
		return s.assembler.Preview(p.Tickets, *p, page-1)
	}, "png", strconv.Itoa(page))
	if errors.Is(err, assembler.ErrPageOutOfRange) {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to render preview: %v", err)})
		return
	}

	c.Header("X-Cache", cacheHeader(hit))
	c.Data(200, "image/png", data)
}

// handleGetStyles returns the ticket class catalog
func (s *Server) handleGetStyles(c *gin.Context) {
	styles := make([]gin.H, 0, len(style.Classes()))
	for _, class := range style.Classes() {
		e := style.Resolve(class)
		styles = append(styles, gin.H{
			"class":          class,
			"display_name":   e.DisplayName,
			"price_label":    e.PriceLabel,
			"unit_label":     e.UnitLabel,
			"gradient_start": e.GradientStart.Hex(),
			"gradient_end":   e.GradientEnd.Hex(),
		})
	}

	c.JSON(200, gin.H{
		"default": style.DefaultClass,
		"styles":  styles,
	})
}

// handleGetDocuments lists the rendered document index
func (s *Server) handleGetDocuments(c *gin.Context) {
	if s.registry == nil {
		c.JSON(200, gin.H{"documents": []*registry.Entry{}})
		return
	}

	c.JSON(200, gin.H{"documents": s.registry.All()})
}

// handleGetDocument returns one index entry by purchase reference or,
// failing that, by document ID
func (s *Server) handleGetDocument(c *gin.Context) {
	var entry *registry.Entry
	if s.registry != nil {
		key := c.Param("reference")
		entry = s.registry.Get(key)
		if entry == nil {
			entry = s.registry.Lookup(key)
		}
	}

	if entry == nil {
		c.JSON(404, gin.H{"error": "document not found"})
		return
	}

	c.JSON(200, entry)
}

// handleDeleteDocument drops an entry from the index. The rendered file
// is left in place.
func (s *Server) handleDeleteDocument(c *gin.Context) {
	if s.registry == nil {
		c.JSON(404, gin.H{"error": "document not found"})
		return
	}

	removed, err := s.registry.Remove(c.Param("reference"))
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to remove document: %v", err)})
		return
	}
	if !removed {
		c.JSON(404, gin.H{"error": "document not found"})
		return
	}

	c.JSON(200, gin.H{"status": "removed"})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Document-ID, X-Page-Count, X-Cache")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
