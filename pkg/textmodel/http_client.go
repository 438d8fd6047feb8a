package textmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/novelenchant/enchant/pkg/retrypolicy"
)

// HTTPClient is the production Client implementation: a plain JSON/HTTP
// adapter to the external text model service. Configuration is supplied
// by the caller (endpoint, key, timeout) rather than read from the
// environment here, so the same client type serves tests with a fake
// endpoint.
type HTTPClient struct {
	BaseURL     string
	APIKey      string
	HTTPClient  *http.Client
	Logger      *slog.Logger
	RetryPolicy retrypolicy.Policy
}

// NewHTTPClient builds an HTTPClient with sane request timeout defaults
// and the spec's built-in text-model retry policy (§9); callers may
// override RetryPolicy with cfg.GetRetryPolicy("text") after construction
// to honor an operator's YAML overlay.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Logger:      slog.Default(),
		RetryPolicy: retrypolicy.Text,
	}
}

type extractScenesRequest struct {
	ChunkText   string   `json:"chunk_text"`
	Title       string   `json:"title"`
	StylePreset string   `json:"style_preset"`
	Characters  []string `json:"known_characters"`
	Locations   []string `json:"known_locations"`
	MaxScenes   int      `json:"max_scenes"`
}

type extractScenesResponse struct {
	Scenes []RawScene `json:"scenes"`
}

func (c *HTTPClient) ExtractScenes(ctx context.Context, chunkText string, workCtx WorkContext, maxScenes int) ([]RawScene, error) {
	req := extractScenesRequest{
		ChunkText:   chunkText,
		Title:       workCtx.Title,
		StylePreset: workCtx.StylePreset,
		Characters:  workCtx.KnownCharacters,
		Locations:   workCtx.KnownLocations,
		MaxScenes:   maxScenes,
	}

	var resp extractScenesResponse
	if err := c.post(ctx, "/v1/extract-scenes", req, &resp); err != nil {
		return nil, err
	}
	return resp.Scenes, nil
}

type extractEntitiesRequest struct {
	SceneText     string   `json:"scene_text"`
	KnownMentions []string `json:"known_mentions"`
}

type extractEntitiesResponse struct {
	Entities []RawEntity `json:"entities"`
}

func (c *HTTPClient) ExtractEntities(ctx context.Context, sceneText string, knownMentions []string) ([]RawEntity, error) {
	req := extractEntitiesRequest{SceneText: sceneText, KnownMentions: knownMentions}

	var resp extractEntitiesResponse
	if err := c.post(ctx, "/v1/extract-entities", req, &resp); err != nil {
		return nil, err
	}
	return resp.Entities, nil
}

type assessAdherenceRequest struct {
	ImagePointer string `json:"image_pointer"`
	PromptText   string `json:"prompt_text"`
	SceneContext string `json:"scene_context,omitempty"`
}

func (c *HTTPClient) AssessAdherence(ctx context.Context, imagePointer, promptText, sceneContext string) (AdherenceAssessment, error) {
	req := assessAdherenceRequest{ImagePointer: imagePointer, PromptText: promptText, SceneContext: sceneContext}

	var resp AdherenceAssessment
	if err := c.post(ctx, "/v1/assess-adherence", req, &resp); err != nil {
		return AdherenceAssessment{}, err
	}
	return resp, nil
}

// post wraps the single HTTP attempt in c.RetryPolicy (retrypolicy.Text,
// §9: (2, 500ms, 2.0), when MaxAttempts is unset), retrying only a
// transient upstream failure or a context deadline; under the Text
// default that is one retry before the error reaches the caller.
func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	policy := c.RetryPolicy
	if policy.MaxAttempts == 0 {
		policy = retrypolicy.Text
	}
	policy.Retryable = isTransientOrTimeout

	return retrypolicy.Do(ctx, policy, func(ctx context.Context) error {
		return c.doPost(ctx, path, body, out)
	})
}

func isTransientOrTimeout(err error) bool {
	return errors.Is(err, ErrUpstreamTransient) || errors.Is(err, context.DeadlineExceeded)
}

func (c *HTTPClient) doPost(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("textmodel: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("textmodel: build request: %w", err)
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
	if resp.StatusCode >= 400 {
		return fmt.Errorf("textmodel: status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.Logger.Warn("malformed text model reply", "path", path, "error", err)
		return fmt.Errorf("%w: %v", ErrExtractionFormat, err)
	}

	return nil
}
