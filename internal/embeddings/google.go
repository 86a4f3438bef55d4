package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// googleMaxBatch is the request limit of batchEmbedContents.
const googleMaxBatch = 100

// GoogleModel represents a supported Google embedding model.
type GoogleModel string

const (
	ModelGeminiEmbedding001 GoogleModel = "gemini-embedding-001"
	ModelTextEmbedding004   GoogleModel = "text-embedding-004"
)

func (m GoogleModel) dimensions() int {
	if m == ModelGeminiEmbedding001 {
		return 3072
	}
	return 768
}

// GoogleEmbedder embeds with the Gemini batchEmbedContents endpoint.
type GoogleEmbedder struct {
	apiKey  string
	model   GoogleModel
	baseURL string
	client  *http.Client
}

func NewGoogleEmbedder(apiKey string, model GoogleModel) *GoogleEmbedder {
	return &GoogleEmbedder{
		apiKey:  apiKey,
		model:   model,
		baseURL: googleBaseURL,
		client:  &http.Client{},
	}
}

func (e *GoogleEmbedder) Name() string {
	return "google/" + string(e.model)
}

func (e *GoogleEmbedder) Dimensions() int {
	return e.model.dimensions()
}

type googlePart struct {
	Text string `json:"text"`
}

type googleEmbedRequest struct {
	Model   string `json:"model"`
	Content struct {
		Parts []googlePart `json:"parts"`
	} `json:"content"`
	TaskType string `json:"taskType,omitempty"`
}

type googleBatchRequest struct {
	Requests []googleEmbedRequest `json:"requests"`
}

type googleBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += googleMaxBatch {
		end := min(start+googleMaxBatch, len(texts))
		vecs, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *GoogleEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	modelPath := "models/" + string(e.model)
	req := googleBatchRequest{Requests: make([]googleEmbedRequest, len(texts))}
	for i, text := range texts {
		r := googleEmbedRequest{Model: modelPath, TaskType: "SEMANTIC_SIMILARITY"}
		r.Content.Parts = []googlePart{{Text: text}}
		req.Requests[i] = r
	}

	endpoint := fmt.Sprintf("%s/%s:batchEmbedContents?key=%s", e.baseURL, modelPath, url.QueryEscape(e.apiKey))
	var resp googleBatchResponse
	if err := postJSON(ctx, e.client, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("google embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("google returned %d embeddings, expected %d", len(resp.Embeddings), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		vecs[i] = emb.Values
	}
	return vecs, nil
}
