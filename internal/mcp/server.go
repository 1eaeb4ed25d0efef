package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/mcp-pdf-identity/internal/config"
	"github.com/a3tai/mcp-pdf-identity/internal/descriptions"
	"github.com/a3tai/mcp-pdf-identity/internal/extract"
	"github.com/a3tai/mcp-pdf-identity/internal/identifier"
	"github.com/a3tai/mcp-pdf-identity/internal/logger"
	"github.com/a3tai/mcp-pdf-identity/internal/pdf"
	"github.com/a3tai/mcp-pdf-identity/internal/reference"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	docs      *pdf.Service
	engine    *extract.Engine
	mcpServer *server.MCPServer
	log       logger.Logger

	stdin  io.Reader
	stdout io.Writer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, docs *pdf.Service, engine *extract.Engine, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if docs == nil {
		return nil, errors.New("document service cannot be nil")
	}
	if engine == nil {
		return nil, errors.New("extraction engine cannot be nil")
	}
	if log == nil {
		log = logger.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // the tool set is fixed
		server.WithRecovery(),
	)

	s := &Server{
		config:    cfg,
		docs:      docs,
		engine:    engine,
		mcpServer: mcpServer,
		log:       log,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}
	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ExtractPersonsTool,
		mcp.WithDescription(descriptions.ExtractPersonsDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Document path, relative to the document directory"),
		),
	), s.handleExtractPersons)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ExtractEntitiesTool,
		mcp.WithDescription(descriptions.ExtractEntitiesDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Document path, relative to the document directory"),
		),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Kinds to extract: nombre, dni, cuil, cuit, cuif, matricula"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleExtractEntities)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.CompareReferenceTool,
		mcp.WithDescription(descriptions.CompareReferenceDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Document path, relative to the document directory"),
		),
		mcp.WithString("reference",
			mcp.Description("Inline reference: a JSON object or \"clave: valor\" lines"),
		),
		mcp.WithString("reference_path",
			mcp.Description("Reference file inside the document directory (used when reference is empty)"),
		),
	), s.handleCompareReference)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.DetectTextTool,
		mcp.WithDescription(descriptions.DetectTextDescription),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw text to analyze"),
		),
		mcp.WithArray("entities",
			mcp.Description("Optional kinds for a selective report"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), s.handleDetectText)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ValidateIdentifierTool,
		mcp.WithDescription(descriptions.ValidateIdentifierDescription),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("DNI, CUIL, CUIT, CUIF or MATRICULA"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Identifier value; separators are ignored"),
		),
	), s.handleValidateIdentifier)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ListDocumentsTool,
		mcp.WithDescription(descriptions.ListDocumentsDescription),
		mcp.WithString("directory",
			mcp.Description("Subdirectory to list (uses the document directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Case-insensitive filter on file names"),
		),
	), s.handleListDocuments)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ValidateDocumentTool,
		mcp.WithDescription(descriptions.ValidateDocumentDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Document path, relative to the document directory"),
		),
	), s.handleValidateDocument)

	s.mcpServer.AddTool(mcp.NewTool(
		descriptions.ServerInfoTool,
		mcp.WithDescription(descriptions.ServerInfoDescription),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractPersons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	pages, err := extract.LoadPages(ctx, s.docs, path)
	if err != nil {
		return s.errorResult(err), nil
	}
	report, err := s.engine.Compare(ctx, pages, nil)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(report)
}

func (s *Server) handleExtractEntities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kinds, err := entityKinds(request.GetArguments()["entities"])
	if err != nil {
		return s.errorResult(err), nil
	}

	pages, err := extract.LoadPages(ctx, s.docs, path)
	if err != nil {
		return s.errorResult(err), nil
	}
	report, err := s.engine.ExtractEntities(ctx, pages, kinds)
	if err != nil {
		return s.errorResult(err), nil
	}
	report.Source = path
	return jsonResult(report)
}

func (s *Server) handleCompareReference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fields, err := s.referenceFields(request)
	if err != nil {
		return s.errorResult(err), nil
	}

	pages, err := extract.LoadPages(ctx, s.docs, path)
	if err != nil {
		return s.errorResult(err), nil
	}
	report, err := s.engine.Compare(ctx, pages, fields)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(report)
}

// referenceFields reads the inline reference, or the reference file when
// no inline content is given.
func (s *Server) referenceFields(request mcp.CallToolRequest) ([]reference.Field, error) {
	if inline := request.GetString("reference", ""); strings.TrimSpace(inline) != "" {
		return extract.ParseReference([]byte(inline))
	}
	refPath := request.GetString("reference_path", "")
	if refPath == "" {
		return nil, extract.NewInputError(extract.ErrorInvalidRequest, "either reference or reference_path is required")
	}
	data, err := s.docs.ReadFile(refPath)
	if err != nil {
		return nil, extract.FromDocumentError(err)
	}
	return extract.ParseReference(data)
}

func (s *Server) handleDetectText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pages := []string{text}

	raw, ok := request.GetArguments()["entities"]
	if !ok || raw == nil {
		report, err := s.engine.Compare(ctx, pages, nil)
		if err != nil {
			return s.errorResult(err), nil
		}
		return jsonResult(report)
	}

	kinds, err := entityKinds(raw)
	if err != nil {
		return s.errorResult(err), nil
	}
	report, err := s.engine.ExtractEntities(ctx, pages, kinds)
	if err != nil {
		return s.errorResult(err), nil
	}
	return jsonResult(report)
}

type validationResult struct {
	Kind identifier.Kind `json:"tipo"`
	identifier.Validation
	Detail string `json:"detalle,omitempty"`
}

func (s *Server) handleValidateIdentifier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kindArg, err := request.RequireString("kind")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := identifier.ParseKind(kindArg)
	if err != nil {
		return s.errorResult(extract.NewInputError(extract.ErrorInvalidRequest, err.Error()).
			WithContext("valid", identifier.Kinds)), nil
	}

	v := identifier.Validate(kind, value)
	return jsonResult(validationResult{Kind: kind, Validation: v, Detail: v.Reason.Message()})
}

func (s *Server) handleListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.docs.List(pdf.ListRequest{
		Directory: request.GetString("directory", ""),
		Query:     request.GetString("query", ""),
	})
	if err != nil {
		return s.errorResult(extract.FromDocumentError(err)), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No documents found in directory: %s", result.Directory)
		if result.Query != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultText(formatListResult(result)), nil
}

func (s *Server) handleValidateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.docs.Validate(path)
	if !result.Valid {
		return mcp.NewToolResultText(fmt.Sprintf("Document validation failed for %s: %s", result.Path, result.Message)), nil
	}
	text := fmt.Sprintf("Document %s is valid and readable", result.Path)
	if result.Pages > 0 {
		text += fmt.Sprintf(" (%d pages)", result.Pages)
	}
	if result.Message != "" {
		text += fmt.Sprintf("\nWarning: %s", result.Message)
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

// entityKinds accepts the "entities" argument as a list or as a single
// string (JSON array or comma-separated).
func entityKinds(raw any) ([]extract.EntityKind, error) {
	switch v := raw.(type) {
	case nil:
		return extract.ParseEntityKinds(nil)
	case string:
		return extract.ParseEntityKinds([]string{v})
	case []string:
		return extract.ParseEntityKinds(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, extract.NewInputError(extract.ErrorInvalidRequest, "entities must be strings").
					WithContext("item", item)
			}
			items = append(items, str)
		}
		return extract.ParseEntityKinds(items)
	default:
		return nil, extract.NewInputError(extract.ErrorInvalidRequest, "entities must be a list or a string")
	}
}

type errorBody struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// errorResult reports input errors as structured JSON; anything else is
// logged and reported as text.
func (s *Server) errorResult(err error) *mcp.CallToolResult {
	ie, ok := extract.IsInputError(err)
	if !ok {
		s.log.Error("tool failed", "error", err)
		return mcp.NewToolResultError(err.Error())
	}
	s.log.Debug("input rejected", "type", ie.Type.String(), "message", ie.Message)
	body := errorBody{Error: ie.Type.String(), Message: ie.Message, Context: ie.Context}
	if ie.Cause != nil && body.Message == "" {
		body.Message = ie.Cause.Error()
	}
	data, jerr := json.MarshalIndent(body, "", "  ")
	if jerr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// Formatting methods
func formatListResult(result *pdf.ListResult) string {
	text := fmt.Sprintf("Found %d document(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Search query: %s\n", result.Query)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}
	return text
}

func (s *Server) formatServerInfo() string {
	ext := s.engine.Config()
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Document Directory: %s\n", s.docs.Directory())
	text += fmt.Sprintf("Max File Size: %d MB\n", s.docs.MaxFileSize()/(1024*1024))
	if s.config.NERURL != "" {
		text += fmt.Sprintf("NER Fallback: enabled (%s, timeout %s)\n", s.config.NERURL, ext.NERTimeout)
	} else {
		text += "NER Fallback: disabled (names need a rule or a nearby cue)\n"
	}
	if s.config.ProfilePath != "" {
		text += fmt.Sprintf("Extraction Profile: %s\n", s.config.ProfilePath)
	}
	t := ext.Fuzzy.Thresholds
	text += fmt.Sprintf("Category Thresholds: exacta >= %g, alta >= %g, media >= %g\n", t.Exacta, t.Alta, t.Media)

	if cs := s.docs.CacheStats(); cs.Hits+cs.Misses > 0 {
		text += fmt.Sprintf("Page Cache: %d document(s), %.0f%% hit rate\n", cs.Documents, cs.HitRate*100)
	}
	if docs, err := s.docs.List(pdf.ListRequest{}); err == nil {
		text += fmt.Sprintf("Documents Available: %d\n", docs.TotalCount)
	}

	text += "\nAvailable Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		summary, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("  • %s: %s\n", name, summary)
	}
	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves on stdin/stdout until the input closes or ctx is done
func (s *Server) runStdioMode(ctx context.Context) error {
	s.log.Info("starting identity server in stdio mode", "directory", s.docs.Directory())

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(logger.StandardLog(s.log.With("transport", "stdio"), logger.ErrorLevel))
	if err := stdio.Listen(ctx, s.stdin, s.stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves over SSE until ctx is done
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))
	s.log.Info("starting identity server in SSE mode", "address", addr, "directory", s.docs.Directory())

	errCh := make(chan error, 1)
	go func() { errCh <- sse.Start(addr) }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve SSE: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.log.Info("shutting down SSE server")
		if err := sse.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("failed to shut down SSE server: %w", err)
		}
		return nil
	}
}
