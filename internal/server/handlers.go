package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gyeh/billaudit/internal/assemble"
	"github.com/gyeh/billaudit/internal/confidence"
	"github.com/gyeh/billaudit/internal/llm"
	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/pipeline"
	"github.com/gyeh/billaudit/internal/rag"
	"github.com/gyeh/billaudit/internal/textextract"
)

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) validateBill(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	text, err := s.extractor.ExtractText(c.Request.Context(), content, contentType)
	switch {
	case errors.Is(err, textextract.ErrUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	case errors.Is(err, textextract.ErrNoText):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("text extraction failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "text extraction failed"})
		return
	}

	result, err := pipeline.Run(text, s.table, s.log)
	if err != nil {
		if errors.Is(err, assemble.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Error().Err(err).Msg("audit pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "audit failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// flagInput is the caller-facing flag shape for generation requests.
type flagInput struct {
	FlagID     string  `json:"flag_id"`
	FlagType   string  `json:"flag_type"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}

type generateRequest struct {
	ParsedData model.ParsedBill `json:"parsed_data"`
	Flags      []flagInput      `json:"flags"`
}

func (r *generateRequest) toFlags() []model.ValidationFlag {
	flags := make([]model.ValidationFlag, len(r.Flags))
	for i, f := range r.Flags {
		flags[i] = model.ValidationFlag{
			FlagID:         f.FlagID,
			FlagType:       f.FlagType,
			Message:        f.Message,
			RuleConfidence: f.Confidence,
		}
	}
	return flags
}

func (s *Server) explainBill(c *gin.Context) {
	s.generate(c, llm.ExplanationPrompt, func(text string, citations []model.Citation, flags []model.ValidationFlag) any {
		return model.ExplanationResponse{ExplanationText: text, Citations: citations, Flags: flags}
	})
}

func (s *Server) draftAppeal(c *gin.Context) {
	s.generate(c, llm.AppealPrompt, func(text string, citations []model.Citation, flags []model.ValidationFlag) any {
		return model.AppealDraftResponse{AppealDraftText: text, Citations: citations, Flags: flags}
	})
}

// generate runs the shared retrieve → combine → prompt → complete path
// for both generation endpoints.
func (s *Server) generate(
	c *gin.Context,
	buildPrompt func(validationJSON, context string) string,
	buildResponse func(text string, citations []model.Citation, flags []model.ValidationFlag) any,
) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Flags) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one flag is required"})
		return
	}
	if s.llm == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "llm backend not configured"})
		return
	}

	ctx := c.Request.Context()
	flags := req.toFlags()

	evidence, err := s.retriever.Retrieve(ctx, rag.BuildQuery(flags), s.topK)
	if err != nil {
		// Retrieval is advisory. Degrade to unsupported findings
		// rather than failing the whole request.
		s.log.Warn().Err(err).Msg("retrieval failed, continuing without evidence")
		evidence = nil
	}
	flags = confidence.Combine(flags, evidence)

	result := model.ValidationResult{ParsedData: req.ParsedData, Flags: flags}
	validationJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode validation data"})
		return
	}

	prompt := buildPrompt(string(validationJSON), llm.FormatContext(evidence))
	text, err := s.llm.Complete(ctx, llm.SystemPrompt, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "llm backend not configured"})
			return
		}
		s.log.Error().Err(err).Msg("llm completion failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
		return
	}

	citations := make([]model.Citation, len(evidence))
	for i, ev := range evidence {
		citations[i] = model.Citation{Source: ev.Source, Content: ev.Content}
	}
	c.JSON(http.StatusOK, buildResponse(text, citations, flags))
}
