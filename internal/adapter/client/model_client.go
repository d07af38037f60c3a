package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LoadModelRequest asks the serving sidecar to load a model artifact
type LoadModelRequest struct {
	Path string `json:"path"`
}

// LoadModelResponse reports whether the artifact was loaded
type LoadModelResponse struct {
	Success      bool   `json:"success"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version"`
	Error        string `json:"error,omitempty"`
}

// PredictBatchRequest scores every text in one call, requesting the top-k labels
type PredictBatchRequest struct {
	Texts []string `json:"texts"`
	K     int      `json:"k"`
}

// PredictBatchResponse carries parallel label/score matrices, one row per text
type PredictBatchResponse struct {
	Success      bool        `json:"success"`
	Labels       [][]string  `json:"labels"`
	Scores       [][]float64 `json:"scores"`
	ModelVersion string      `json:"model_version"`
}

// PredictRequest scores a single document
type PredictRequest struct {
	Text string `json:"text"`
}

// LabelScore is one labelled probability attached to a document
type LabelScore struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// PredictResponse carries the full labelled distribution for one document
type PredictResponse struct {
	Success      bool         `json:"success"`
	Labels       []LabelScore `json:"labels"`
	ModelVersion string       `json:"model_version"`
}

// HealthResponse represents the serving sidecar health check response
type HealthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version"`
}

// ModelClient is an HTTP client for a model-serving sidecar
type ModelClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewModelClient creates a new model-serving client
func NewModelClient(baseURL string, timeout time.Duration) *ModelClient {
	return &ModelClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LoadModel asks the sidecar to materialize the artifact at the given path
func (c *ModelClient) LoadModel(ctx context.Context, path string) (*LoadModelResponse, error) {
	var result LoadModelResponse
	if err := c.postJSON(ctx, "/models/load", LoadModelRequest{Path: path}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PredictBatch sends every text in one call with an explicit top-k
func (c *ModelClient) PredictBatch(ctx context.Context, texts []string, k int) (*PredictBatchResponse, error) {
	var result PredictBatchResponse
	if err := c.postJSON(ctx, "/predict/batch", PredictBatchRequest{Texts: texts, K: k}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Predict sends a single document for scoring
func (c *ModelClient) Predict(ctx context.Context, text string) (*PredictResponse, error) {
	var result PredictResponse
	if err := c.postJSON(ctx, "/predict", PredictRequest{Text: text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks the serving sidecar health
func (c *ModelClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model service returned status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *ModelClient) postJSON(ctx context.Context, path string, reqBody, result interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("model service returned status %d", resp.StatusCode)
		}
		return fmt.Errorf("model service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
