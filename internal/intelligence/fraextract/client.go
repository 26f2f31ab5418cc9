package fraextract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/fra-monitor/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/fra-monitor/pkg/errors"
)

const (
	defaultBaseURL  = "https://generativelanguage.googleapis.com"
	defaultModel    = "gemini-2.5-flash"
	defaultTimeout  = 120 * time.Second
	endpointPattern = "/v1beta/models/{model}:generateContent"
	pdfMIMEType     = "application/pdf"
)

// Document is an uploaded report handed to the model.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Extractor is the contract the ingestion path depends on.
type Extractor interface {
	Extract(ctx context.Context, doc Document) (*Response, error)
}

// Config holds the Gemini endpoint parameters.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPrompt replaces the extraction instructions.
func WithPrompt(p string) Option {
	return func(c *Client) {
		if strings.TrimSpace(p) != "" {
			c.prompt = p
		}
	}
}

// Client calls the Gemini generateContent endpoint with a PDF attached and
// a response schema, and validates what comes back.
type Client struct {
	hc     *http.Client
	url    string
	model  string
	apiKey string
	prompt string
	logger logging.Logger
}

// NewClient builds a Client.  An API key is required.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "extraction: missing api key")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	path := strings.ReplaceAll(endpointPattern, "{model}", url.PathEscape(cfg.Model))
	c := &Client{
		hc:     &http.Client{Timeout: cfg.Timeout},
		url:    strings.TrimRight(cfg.BaseURL, "/") + path,
		model:  cfg.Model,
		apiKey: cfg.APIKey,
		prompt: ExtractionPrompt,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────────────────────────────────────────

type gmInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type gmPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *gmInlineData `json:"inline_data,omitempty"`
}

type gmContent struct {
	Role  string   `json:"role,omitempty"`
	Parts []gmPart `json:"parts"`
}

type gmGenerationConfig struct {
	ResponseMIMEType string         `json:"response_mime_type"`
	ResponseSchema   map[string]any `json:"response_schema"`
}

type gmReq struct {
	Contents         []gmContent         `json:"contents"`
	GenerationConfig *gmGenerationConfig `json:"generationConfig"`
}

type gmResp struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Extract
// ─────────────────────────────────────────────────────────────────────────────

// Extract sends doc to the model and returns the validated, decoded output.
// Errors carry ErrCodeModelRateLimited for HTTP 429, ErrCodeModelError for
// upstream 5xx and unusable output, and ErrCodeExtractionFailed otherwise.
func (c *Client) Extract(ctx context.Context, doc Document) (*Response, error) {
	mime := doc.MIMEType
	if mime == "" {
		mime = pdfMIMEType
	}
	body, err := json.Marshal(&gmReq{
		Contents: []gmContent{{
			Role: "user",
			Parts: []gmPart{
				{Text: c.prompt},
				{InlineData: &gmInlineData{MIMEType: mime, Data: base64.StdEncoding.EncodeToString(doc.Data)}},
			},
		}},
		GenerationConfig: &gmGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ModelSchema(),
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "extraction: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "extraction: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		// url.Error repeats the request URL; keep only the cause.
		var uerr *url.Error
		if stderrors.As(err, &uerr) {
			err = uerr.Err
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "extraction: request cancelled")
		}
		return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "extraction: request failed")
	}
	defer resp.Body.Close()

	c.logger.Debug("model responded",
		logging.String("model", c.model),
		logging.String("document", doc.Name),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", time.Since(start)))

	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		msg := strings.TrimSpace(string(slurp))
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, errors.New(errors.ErrCodeModelRateLimited, "model rate limited").WithDetail(msg)
		case resp.StatusCode/100 == 5:
			return nil, errors.Newf(errors.ErrCodeModelError, "model upstream %d", resp.StatusCode).WithDetail(msg)
		default:
			return nil, errors.Newf(errors.ErrCodeExtractionFailed, "extraction upstream %d", resp.StatusCode).WithDetail(msg)
		}
	}

	var gr gmResp
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelError, "model response is not valid JSON")
	}
	if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
		return nil, errors.New(errors.ErrCodeModelError, "model blocked the request").WithDetail(gr.PromptFeedback.BlockReason)
	}
	if len(gr.Candidates) == 0 {
		return nil, errors.New(errors.ErrCodeModelError, "model returned no candidates")
	}

	var text strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	raw := strings.TrimSpace(text.String())
	if raw == "" {
		return nil, errors.New(errors.ErrCodeModelError, "model returned empty content").WithDetail(gr.Candidates[0].FinishReason)
	}

	out, err := DecodeResponse([]byte(stripCodeFence(raw)))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelError, "model output rejected")
	}
	c.logger.Info("extracted report",
		logging.String("document", doc.Name),
		logging.Int("rows", len(out.StatesData)))
	return out, nil
}

// stripCodeFence removes a ```json fence some models wrap structured output in.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// String identifies the client in logs.
func (c *Client) String() string {
	return fmt.Sprintf("gemini(%s)", c.model)
}

//Personal.AI order the ending
