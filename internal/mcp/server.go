package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Backend is what the tools read from. *app.App implements it.
type Backend interface {
	Retrieve(ctx context.Context, query string, maxResults int) ([]retrieval.Hit, error)
	SearchChapter(ctx context.Context, query string, chapter, maxResults int) ([]retrieval.Hit, error)
	BuildContext(ctx context.Context, query string, maxChars int) (*retrieval.QueryContext, error)
	ContextualVerses(ctx context.Context, chapter, verse, radius int) ([]retrieval.Hit, error)
	IndexStats() vectordb.Stats
}

// Server wraps an MCP server that exposes verse retrieval tools.
type Server struct {
	backend Backend
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over backend.
func NewServer(backend Backend) *Server {
	s := &Server{backend: backend}

	s.mcp = server.NewMCPServer(
		"gitaguide",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchVersesTool, s.handleSearchVerses)
	s.mcp.AddTool(buildContextTool, s.handleBuildContext)
	s.mcp.AddTool(getVerseContextTool, s.handleGetVerseContext)
	s.mcp.AddTool(indexStatsTool, s.handleIndexStats)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
