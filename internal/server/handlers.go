package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/gitaguide/internal/composer"
	"github.com/ziadkadry99/gitaguide/internal/corpus"
	"github.com/ziadkadry99/gitaguide/internal/embeddings"
	"github.com/ziadkadry99/gitaguide/internal/logger"
	"github.com/ziadkadry99/gitaguide/internal/retrieval"
	"github.com/ziadkadry99/gitaguide/internal/vectordb"
)

const defaultContextRadius = 2

// Answers are plain markdown from the model; raw HTML in them stays escaped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type queryRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
	MaxChars   int    `json:"max_chars,omitempty"`
	Chapter    int    `json:"chapter,omitempty"`
}

type retrieveResponse struct {
	Query string          `json:"query"`
	Hits  []retrieval.Hit `json:"hits"`
}

type askResponse struct {
	composer.Result
	ResponseHTML string `json:"response_html"`
}

type statsResponse struct {
	Index    vectordb.Stats `json:"index"`
	Provider string         `json:"provider"`
	Model    string         `json:"model,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{Index: s.app.IndexStats(), Provider: s.app.ProviderName()}
	if resp.Provider != "" {
		resp.Model = s.app.Config.Model
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	var hits []retrieval.Hit
	var err error
	switch {
	case req.Chapter < 0:
		writeError(w, http.StatusBadRequest, "chapter must be a positive integer")
		return
	case req.Chapter > 0:
		hits, err = s.app.SearchChapter(r.Context(), req.Query, req.Chapter, req.MaxResults)
	default:
		hits, err = s.app.Retrieve(r.Context(), req.Query, req.MaxResults)
	}
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if hits == nil {
		hits = []retrieval.Hit{}
	}
	writeJSON(w, http.StatusOK, retrieveResponse{Query: req.Query, Hits: hits})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	qc, err := s.app.BuildContext(r.Context(), req.Query, req.MaxChars)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qc)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeQuery(w, r)
	if !ok {
		return
	}
	res, err := s.app.Ask(r.Context(), req.Query)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(res.Response), &buf); err != nil {
		logger.Warn("rendering answer: %v", err)
	}
	writeJSON(w, http.StatusOK, askResponse{Result: res, ResponseHTML: buf.String()})
}

func (s *Server) handleVerseContext(w http.ResponseWriter, r *http.Request) {
	chapter, err1 := strconv.Atoi(chi.URLParam(r, "chapter"))
	verse, err2 := strconv.Atoi(chi.URLParam(r, "verse"))
	if err1 != nil || err2 != nil || chapter < 1 || verse < 1 {
		writeError(w, http.StatusBadRequest, "chapter and verse must be positive integers")
		return
	}
	radius := defaultContextRadius
	if v := r.URL.Query().Get("radius"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "radius must be a non-negative integer")
			return
		}
		radius = n
	}

	hits, err := s.app.ContextualVerses(r.Context(), chapter, verse, radius)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	if hits == nil {
		hits = []retrieval.Hit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"verse_id": corpus.VerseID(chapter, verse),
		"verses":   hits,
	})
}

func decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return req, false
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return req, false
	}
	return req, true
}

// writeQueryError maps retrieval failures to status codes. Embedding
// backend details are logged, not returned.
func writeQueryError(w http.ResponseWriter, err error) {
	var sErr *embeddings.ServiceError
	switch {
	case errors.Is(err, vectordb.ErrIndexUnavailable):
		writeError(w, http.StatusServiceUnavailable, "index is not built yet")
	case errors.As(err, &sErr):
		logger.Warn("embedding failed: %v", err)
		writeError(w, http.StatusBadGateway, "embedding service unavailable")
	default:
		logger.Warn("query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
