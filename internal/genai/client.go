package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fivejjs/gemini3-sample-chronos/internal/domain"
	"github.com/fivejjs/gemini3-sample-chronos/internal/imaging"
)

// Model identifiers are fixed; they are part of the product contract, not
// configuration.
const (
	EditingModel  = "gemini-2.5-flash-image"
	AnalysisModel = "gemini-3-pro-preview"
)

const analysisInstruction = "Analyze this image in detail. Describe the person, the setting, the clothing, and the artistic style. Be concise but thorough."

// CredentialSource resolves the API credential at call time.
type CredentialSource interface {
	GeminiAPIKey(ctx context.Context) (string, error)
}

// Options controls how the Gemini client is configured.
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Logger      zerolog.Logger
	Credentials CredentialSource
}

// Client is a thin request/response wrapper over the Gemini generateContent
// REST API. Every invocation is one fresh remote call: no caching, no retry,
// no client-side rate limiting.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
	creds      CredentialSource
}

// NewClient constructs a Gemini client with sane defaults. Callers may pass a
// nil HTTP client; one with a generation-friendly timeout is created.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        opts.Logger,
		creds:      opts.Credentials,
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// Transform sends the image plus instruction to the editing model and returns
// the first image the response carries, re-wrapped as a PNG payload.
func (c *Client) Transform(ctx context.Context, payload imaging.Payload, instruction string) (imaging.Payload, error) {
	response, err := c.generate(ctx, EditingModel, instruction, payload)
	if err != nil {
		return "", err
	}

	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return imaging.Payload("data:image/png;base64," + part.InlineData.Data), nil
			}
		}
	}
	return "", domain.ErrNoImageProduced
}

// Analyze sends the image to the analysis model with the fixed analysis
// instruction and returns the textual response.
func (c *Client) Analyze(ctx context.Context, payload imaging.Payload) (string, error) {
	response, err := c.generate(ctx, AnalysisModel, analysisInstruction, payload)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.ErrEmptyAnalysis
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, model, instruction string, payload imaging.Payload) (*geminiGenerateContentResponse, error) {
	key, err := c.creds.GeminiAPIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve credential: %w", err)
	}
	if key == "" {
		return nil, domain.ErrMissingCredential
	}

	// The outbound leg always declares JPEG regardless of the payload's own
	// declared format.
	request := geminiGenerateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: instruction},
				{InlineData: &geminiInlineData{MimeType: imaging.MIMEJPEG, Data: payload.Base64()}},
			},
		}},
	}

	started := time.Now()
	var response geminiGenerateContentResponse
	if err := c.invoke(ctx, key, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model)), request, &response); err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("model", model).
		Dur("elapsed", time.Since(started)).
		Int("candidates", len(response.Candidates)).
		Msg("genai: generateContent completed")

	return &response, nil
}

func (c *Client) invoke(ctx context.Context, key, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", key)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: gemini status %d: %s", domain.ErrRemoteService, resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("%w: gemini status %d: %s", domain.ErrRemoteService, resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("%w: gemini status %d", domain.ErrRemoteService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrRemoteService, err)
	}
	return nil
}
