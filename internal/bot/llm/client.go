// Package llm talks to the Google Generative Language REST API for text
// generation and embeddings.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fundedhub/backend/internal/common/config"
	"github.com/fundedhub/backend/internal/observability/metrics"
)

type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

type GoogleClient struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

func NewGoogleClient(cfg config.LLMConfig) *GoogleClient {
	return &GoogleClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.AskTimeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GoogleClient) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.GenerateModel, c.cfg.APIKey)

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	var respBody generateResponse
	if err := c.post(ctx, "generate", url, reqBody, &respBody); err != nil {
		return "", err
	}

	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("language model returned no candidates")
	}

	return respBody.Candidates[0].Content.Parts[0].Text, nil
}

type embedBatchRequest struct {
	Requests []embedRequest `json:"requests"`
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type embedBatchResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

func (c *GoogleClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	url := fmt.Sprintf("%s/models/%s:batchEmbedContents?key=%s", c.cfg.BaseURL, c.cfg.EmbedModel, c.cfg.APIKey)

	reqBody := embedBatchRequest{}
	for _, text := range texts {
		reqBody.Requests = append(reqBody.Requests, embedRequest{
			Model:   "models/" + c.cfg.EmbedModel,
			Content: content{Parts: []part{{Text: text}}},
		})
	}

	var respBody embedBatchResponse
	if err := c.post(ctx, "embed", url, reqBody, &respBody); err != nil {
		return nil, err
	}

	if len(respBody.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(respBody.Embeddings))
	}

	vectors := make([][]float64, len(respBody.Embeddings))
	for i, e := range respBody.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (c *GoogleClient) post(ctx context.Context, kind, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", kind, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("%s request failed: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.LLMRequestsTotal.WithLabelValues(kind, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s request returned status %d: %s", kind, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("failed to decode %s response: %w", kind, err)
	}

	metrics.LLMRequestsTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}
