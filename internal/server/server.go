// Package server exposes the audit pipeline and its collaborators over
// HTTP. Handlers stay thin: decode, delegate, encode. All document
// understanding lives in the internal packages.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/pricing"
	"github.com/gyeh/billaudit/internal/rag"
	"github.com/gyeh/billaudit/internal/textextract"
)

// Completer produces response text for a composed prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Options configures a Server. Table may be nil (price-dependent rules
// stay silent); Retriever and LLM may be nil when those backends are
// not configured.
type Options struct {
	Table     *pricing.Table
	Extractor textextract.Source
	Retriever rag.Retriever
	LLM       Completer
	TopK      int
	Log       zerolog.Logger
}

// Server routes audit requests to the pipeline and the generation
// collaborators.
type Server struct {
	router    *gin.Engine
	table     *pricing.Table
	extractor textextract.Source
	retriever rag.Retriever
	llm       Completer
	topK      int
	log       zerolog.Logger
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:    gin.New(),
		table:     opts.Table,
		extractor: opts.Extractor,
		retriever: opts.Retriever,
		llm:       opts.LLM,
		topK:      opts.TopK,
		log:       opts.Log,
	}
	if s.extractor == nil {
		s.extractor = textextract.PlainText{}
	}
	if s.retriever == nil {
		s.retriever = rag.Noop{}
	}
	if s.topK <= 0 {
		s.topK = rag.DefaultTopK
	}

	s.router.Use(gin.Recovery())
	s.router.GET("/healthz", s.healthz)
	s.router.POST("/validate-bill", s.validateBill)
	s.router.POST("/explain-bill", s.explainBill)
	s.router.POST("/draft-appeal", s.draftAppeal)
	return s
}

// Router exposes the underlying engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("server listening")
	return s.router.Run(addr)
}
