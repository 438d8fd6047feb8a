package imagemodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the production Client implementation: a plain JSON/HTTP
// adapter to the external image model service.
type HTTPClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewHTTPClient builds an HTTPClient with sane request timeout defaults.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type submitRequest struct {
	PromptText   string           `json:"prompt_text"`
	NegativeText string           `json:"negative_text"`
	References   []ReferenceInput `json:"references,omitempty"`
	Width        int              `json:"width"`
	Height       int              `json:"height"`
	Steps        int              `json:"steps"`
	CFGScale     float64          `json:"cfg_scale"`
	Sampler      string           `json:"sampler"`
	Seed         int64            `json:"seed,omitempty"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

func (c *HTTPClient) Submit(ctx context.Context, req GenerationRequest) (GenerationHandle, error) {
	body := submitRequest{
		PromptText:   req.PromptText,
		NegativeText: req.NegativeText,
		References:   req.References,
		Width:        req.Width,
		Height:       req.Height,
		Steps:        req.Steps,
		CFGScale:     req.CFGScale,
		Sampler:      req.Sampler,
		Seed:         req.Seed,
	}

	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/generations", body, &resp); err != nil {
		return GenerationHandle{}, err
	}
	return GenerationHandle{JobID: resp.JobID}, nil
}

type pollResponse struct {
	Status       string  `json:"status"`
	ImagePointer string  `json:"image_pointer"`
	ModelVersion string  `json:"model_version"`
	Seed         int64   `json:"seed"`
	Cost         float64 `json:"cost"`
	ErrorCode    string  `json:"error_code"`
	ErrorDetail  string  `json:"error_detail"`
}

func (c *HTTPClient) Poll(ctx context.Context, handle GenerationHandle) (GenerationResult, error) {
	var resp pollResponse
	if err := c.do(ctx, http.MethodGet, "/v1/generations/"+handle.JobID, nil, &resp); err != nil {
		return GenerationResult{}, err
	}

	if resp.ErrorCode == "content_policy_blocked" {
		return GenerationResult{Status: GenerationStatusFailed, ErrorDetail: resp.ErrorDetail}, ErrContentPolicyBlocked
	}

	status := GenerationStatusPending
	switch resp.Status {
	case "succeeded":
		status = GenerationStatusSucceeded
	case "failed":
		status = GenerationStatusFailed
	}

	return GenerationResult{
		Status:       status,
		ImagePointer: resp.ImagePointer,
		ModelVersion: resp.ModelVersion,
		Seed:         resp.Seed,
		Cost:         resp.Cost,
		ErrorDetail:  resp.ErrorDetail,
	}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("imagemodel: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("imagemodel: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamTransient, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUpstreamTransient, err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUpstreamTransient, resp.StatusCode)
	}
	if resp.StatusCode >= 400 && resp.StatusCode != 422 {
		return fmt.Errorf("imagemodel: status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("imagemodel: decode response: %w", err)
		}
	}

	return nil
}
