package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/themes"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

const notIndexedMessage = "The verse index is not built yet. Run `gitaguide index` first."

func (s *Server) handleSearchVerses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", retrieval.DefaultMaxResults)
	if limit <= 0 {
		limit = retrieval.DefaultMaxResults
	}

	var hits []retrieval.Hit
	if chapter := request.GetInt("chapter", 0); chapter > 0 {
		hits, err = s.backend.SearchChapter(ctx, query, chapter, limit)
	} else {
		hits, err = s.backend.Retrieve(ctx, query, limit)
	}
	if err != nil {
		return toolError("search", err), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("No verses found."), nil
	}
	return mcp.NewToolResultText(formatHits(hits)), nil
}

func (s *Server) handleBuildContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	qc, err := s.backend.BuildContext(ctx, query, request.GetInt("max_chars", 0))
	if err != nil {
		return toolError("build context", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Themes: %s\n", strings.Join(themes.Strings(qc.QueryThemes), ", "))
	fmt.Fprintf(&sb, "Verses used: %d\n\n", qc.TotalVerses)
	sb.WriteString(qc.FormattedContext)
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetVerseContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	chapter, err := request.RequireInt("chapter")
	if err != nil || chapter < 1 {
		return mcp.NewToolResultError("chapter must be a positive integer"), nil
	}
	verse, err := request.RequireInt("verse")
	if err != nil || verse < 1 {
		return mcp.NewToolResultError("verse must be a positive integer"), nil
	}
	radius := request.GetInt("radius", 2)
	if radius < 0 {
		radius = 0
	}

	hits, err := s.backend.ContextualVerses(ctx, chapter, verse, radius)
	if err != nil {
		return toolError("verse lookup", err), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("Chapter %d, Verse %d is not in the index.", chapter, verse)), nil
	}

	var sb strings.Builder
	for _, h := range hits {
		marker := "  "
		if h.Verse == verse {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%s\n", marker, h.Label()+": "+h.Text)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.backend.IndexStats()
	if !st.Ready {
		return mcp.NewToolResultText(notIndexedMessage), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Units: %d\n", st.UnitCount)
	fmt.Fprintf(&sb, "Generation: %d\n", st.Generation)
	fmt.Fprintf(&sb, "Embedding model: %s\n", st.EmbeddingModel)
	if len(st.ThemeCounts) > 0 {
		names := make([]string, 0, len(st.ThemeCounts))
		for name := range st.ThemeCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString("Themes:\n")
		for _, name := range names {
			fmt.Fprintf(&sb, "  %s: %d\n", name, st.ThemeCounts[name])
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func toolError(op string, err error) *mcp.CallToolResult {
	if errors.Is(err, vectordb.ErrIndexUnavailable) {
		return mcp.NewToolResultError(notIndexedMessage)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

// formatHits renders ranked hits for an agent to read.
func formatHits(hits []retrieval.Hit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d result(s):\n", len(hits))

	for i, h := range hits {
		fmt.Fprintf(&sb, "\n--- Result %d ---\n", i+1)
		fmt.Fprintf(&sb, "%s\n", h.Label())
		if h.Theme != "" {
			fmt.Fprintf(&sb, "Theme: %s\n", h.Theme)
		}
		fmt.Fprintf(&sb, "Relevance: %.1f%%\n", h.RelevanceScore*100)
		sb.WriteString("\n")
		sb.WriteString(h.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
