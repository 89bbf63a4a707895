// Package sheets posts survey submissions to the spreadsheet-backed endpoint
// (a Google Apps Script web app) and decodes its reply.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/models"
	"github.com/SAP-F-2025/survey-service/internal/validator"
)

const maxResponseBytes = 1 << 20

var (
	// ErrTransport covers connection failures and non-2xx statuses
	ErrTransport = errors.New("sheets: transport failure")
	// ErrMalformedResponse is returned when the body cannot be decoded or is incomplete
	ErrMalformedResponse = errors.New("sheets: malformed response")
	// ErrRejected is returned when the endpoint answers with a failure discriminator
	ErrRejected = errors.New("sheets: submission rejected")
)

// Config controls how the client behaves.
type Config struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Validator  *validator.Validator
}

// Client submits records with a single POST per call. It never retries.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	validator  *validator.Validator
}

func New(cfg Config) (*Client, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("sheets: endpoint URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	v := cfg.Validator
	if v == nil {
		v = validator.New()
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		logger:     logger,
		validator:  v,
	}, nil
}

// Submit posts the record as a JSON body. The request carries no explicit
// Content-Type so the endpoint treats it as a simple request.
func (c *Client) Submit(ctx context.Context, record models.SubmissionRecord) (*models.SubmitResponse, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("sheets: marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sheets: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	c.logger.Debug("Sheet endpoint responded",
		"status_code", resp.StatusCode,
		"duration", time.Since(start).String(),
		"bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	return c.decode(data)
}

func (c *Client) decode(data []byte) (*models.SubmitResponse, error) {
	var out models.SubmitResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := c.validator.ValidateStruct(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !out.Success {
		return &out, fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}
	return &out, nil
}
