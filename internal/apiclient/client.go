// Package apiclient is the HTTP transport shared by the media and course clients.
//
// Every endpoint answers with a models.Envelope; Do decodes it and turns non-2xx
// statuses and unsuccessful envelopes into *apperr.RemoteError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coursecraft/lms/internal/apperr"
	"github.com/coursecraft/lms/internal/middlewares"
	"github.com/coursecraft/lms/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a non-JSON error response is kept as the message
const maxErrorBody = 512

// Options configures a Client
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client sends authenticated requests to the LMS API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a client for the API rooted at opts.BaseURL
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Minute}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(opts.Token),
		http:    httpClient,
		logger:  logger,
	}, nil
}

// NewRequest builds a request for path relative to the base URL and attaches the bearer token
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middlewares.RequestIDHeader, uuid.NewString())
	return req, nil
}

// JSON sends in as a JSON body (when not nil) and decodes the envelope data into out (when not nil)
func (c *Client) JSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.Do(req, op, out)
}

// Do sends req and decodes the envelope data into out.
//
// "op" names the operation in errors and logs.
//
// Returns *apperr.RemoteError for transport failures, non-2xx statuses and envelopes with success=false.
func (c *Client) Do(req *http.Request, op string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("op", op),
			zap.String("request_id", req.Header.Get(middlewares.RequestIDHeader)),
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return &apperr.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("op", op),
		zap.String("request_id", req.Header.Get(middlewares.RequestIDHeader)),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	var envelope models.Envelope
	decodeErr := json.Unmarshal(data, &envelope)

	if resp.StatusCode >= http.StatusMultipleChoices {
		enveloped := decodeErr == nil && !envelope.Success && envelope.Message != ""
		message := envelope.Message
		if !enveloped {
			message = errorText(data, resp.Status)
		}
		return &apperr.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: message, Enveloped: enveloped}
	}
	if decodeErr != nil {
		return &apperr.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response body", Err: decodeErr}
	}
	if !envelope.Success {
		message := envelope.Message
		if message == "" {
			message = "request was not successful"
		}
		return &apperr.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &apperr.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "response has no data"}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &apperr.RemoteError{Op: op, StatusCode: resp.StatusCode, Message: "invalid response data", Err: err}
	}
	return nil
}

func errorText(body []byte, status string) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return status
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}
