package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/service"
)

// ExplainRequest configures one explanation on the LIME sidecar. The sidecar
// queries callback_url with perturbed text batches while sampling.
type ExplainRequest struct {
	Text            string   `json:"text"`
	CallbackURL     string   `json:"callback_url"`
	TopLabels       int      `json:"top_labels"`
	NumFeatures     int      `json:"num_features"`
	ClassNames      []string `json:"class_names"`
	SplitExpression string   `json:"split_expression"`
	BagOfWords      bool     `json:"bow"`
}

// ExplainResponse is the sidecar's explanation for one text
type ExplainResponse struct {
	Success  bool                    `json:"success"`
	TopLabel int                     `json:"top_label"`
	Features []service.FeatureWeight `json:"features"`
	HTML     string                  `json:"html"`
}

// LimeExplainer drives a LIME sidecar over HTTP. The scoring callback handed
// to Explain is exposed to the sidecar through the callback registry for the
// duration of the call and released afterwards.
type LimeExplainer struct {
	baseURL    string
	httpClient *http.Client
	callbacks  service.CallbackRegistry
	classNames []string
}

// NewLimeExplainer creates a new LIME sidecar client
func NewLimeExplainer(baseURL string, timeout time.Duration, callbacks service.CallbackRegistry, classNames []string) service.Explainer {
	return &LimeExplainer{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		callbacks:  callbacks,
		classNames: classNames,
	}
}

// Explain requests one explanation for the given text
func (e *LimeExplainer) Explain(ctx context.Context, text string, score service.ScoreFunc, topLabels, numFeatures int) (service.Explanation, error) {
	callbackURL, release := e.callbacks.Bind(score)
	defer release()

	// The classifiers are sequence/context sensitive, so bag-of-words
	// perturbation stays disabled and tokens split on whitespace only.
	reqBody := ExplainRequest{
		Text:            text,
		CallbackURL:     callbackURL,
		TopLabels:       topLabels,
		NumFeatures:     numFeatures,
		ClassNames:      e.classNames,
		SplitExpression: "whitespace",
		BagOfWords:      false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/explain", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("explanation service returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("explanation service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ExplainResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("explanation service reported failure for text %q", text)
	}

	return &limeExplanation{
		topLabel: result.TopLabel,
		features: result.Features,
		html:     []byte(result.HTML),
	}, nil
}

// limeExplanation is the opaque per-(text, method) explanation artifact
type limeExplanation struct {
	topLabel int
	features []service.FeatureWeight
	html     []byte
}

func (e *limeExplanation) TopLabel() int {
	return e.topLabel
}

func (e *limeExplanation) Features() []service.FeatureWeight {
	return e.features
}

func (e *limeExplanation) WriteHTML(w io.Writer) error {
	_, err := w.Write(e.html)
	return err
}
