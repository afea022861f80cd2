package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/llm"
	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/processor"
	"github.com/rezonia/digital-invoice/internal/sl"
)

// Config holds server configuration
type Config struct {
	Address              string
	APIKey               string
	LLMBaseURL           string
	LLMModel             string
	LLMVisionModel       string
	RequireArticleNumber bool
	ReadTimeout          time.Duration
	WriteTimeout         time.Duration
	Debug                bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	parser   *extraction.Parser
	log      *slog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID())
	if config.Debug {
		router.Use(gin.Logger())
	}

	log := slog.Default().With(sl.Module("server"))

	var llmExtractor *llm.Extractor
	if config.APIKey != "" {
		var clientOpts []llm.ClientOption
		if config.LLMBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(config.LLMBaseURL))
		}

		client := llm.NewClient(config.APIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if config.LLMModel != "" {
			extractorOpts = append(extractorOpts, llm.WithTextModel(config.LLMModel))
		}
		if config.LLMVisionModel != "" {
			extractorOpts = append(extractorOpts, llm.WithVisionModel(config.LLMVisionModel))
		}

		llmExtractor = llm.NewExtractor(client, extractorOpts...)
		log.Info("llm extraction enabled", sl.Secret("api_key", config.APIKey))
	}

	var parserOpts []extraction.Option
	if config.RequireArticleNumber {
		parserOpts = append(parserOpts, extraction.WithRequiredArticleNumber())
	}

	pipeline := processor.NewPipeline(
		processor.WithLLMExtractor(llmExtractor),
		processor.WithParserOptions(parserOpts...),
	)

	s := &Server{
		config:   config,
		router:   router,
		pipeline: pipeline,
		parser:   extraction.NewParser(parserOpts...),
		log:      log,
	}

	s.setupRoutes()
	return s
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoice/parse", s.handleParse)
		v1.POST("/invoice/reconcile", s.handleReconcile)
		v1.POST("/process/document", s.handleProcessDocument)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleParse(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result := s.pipeline.ProcessPayload(ctx, body)
	if result.Error != nil {
		s.log.Warn("payload parse failed", sl.Err(result.Error))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:    result.Error.Error(),
			Warnings: result.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Invoice:    invoiceView(result.Invoice),
		Method:     string(result.Method),
		Confidence: result.Confidence,
		Warnings:   result.Warnings,
	})
}

func (s *Server) handleReconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invoice, err := s.parser.Parse(req.Payload)
	if err != nil {
		s.log.Warn("payload parse failed", sl.Err(err))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
		return
	}

	for i, edit := range req.Edits {
		if err := applyEdit(invoice, edit); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("edit %d: %v", i, err),
			})
			return
		}
	}

	c.JSON(http.StatusOK, ReconcileResponse{
		Invoice:  invoiceView(invoice),
		Feedback: extraction.ToPayload(invoice),
	})
}

func applyEdit(inv *model.Invoice, edit Edit) error {
	return model.ApplyEdit(inv, model.Edit{
		Op:       model.EditOp(edit.Op),
		Index:    edit.Index,
		Quantity: edit.Quantity,
		Price:    edit.Price,
		Name:     edit.Name,
		ReasonID: edit.ReasonID,
	})
}

func (s *Server) handleProcessDocument(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	result := s.pipeline.Process(ctx, body, c.GetHeader("Content-Type"))
	if result.Error != nil {
		s.log.Warn("document processing failed", sl.Err(result.Error))
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:    result.Error.Error(),
			Warnings: result.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Invoice:    invoiceView(result.Invoice),
		Method:     string(result.Method),
		Confidence: result.Confidence,
		Warnings:   result.Warnings,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}

	c.JSON(http.StatusOK, InfoResponse{
		Format: processor.DetectFormat(body).String(),
		Size:   len(body),
	})
}

func invoiceView(inv *model.Invoice) InvoiceView {
	items := inv.LineItems()
	views := make([]LineItemView, 0, len(items))
	for _, li := range items {
		views = append(views, LineItemView{
			Name:          li.Name(),
			ArticleNumber: li.ArticleNumber(),
			Description:   li.Description(),
			Quantity:      li.Quantity(),
			UnitPrice:     li.UnitPrice().Format(),
			TotalPrice:    li.TotalPrice().Format(),
			Selected:      li.IsSelected(),
			Reason:        li.DeselectionReason(),
			UserAdded:     li.IsUserAdded(),
		})
	}

	addons := inv.Addons()
	addonViews := make([]AddonView, 0, len(addons))
	for _, a := range addons {
		addonViews = append(addonViews, AddonView{
			Kind:        string(a.Kind),
			DisplayName: a.DisplayName(),
			Price:       a.Price.Format(),
		})
	}

	var total *string
	if t, ok := inv.Total(); ok {
		formatted := t.Format()
		total = &formatted
	}

	return InvoiceView{
		LineItems:         views,
		Addons:            addonViews,
		AmountToPay:       inv.AmountToPay().Format(),
		Total:             total,
		Currency:          inv.Currency(),
		NumSelected:       inv.NumSelected(),
		NumTotal:          inv.NumTotal(),
		InaccurateResults: inv.HasInaccurateResults(),
		ReturnReasons:     inv.ReturnReasons(),
	}
}
