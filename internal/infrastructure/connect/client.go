package connect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DanielPopoola/connect-fulfillment/internal/config"
	"github.com/google/uuid"
)

const requestIDPrefix = "api-request-"

// Response is the raw outcome of one platform call.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends one call to the platform. Paths are relative to the
// configured API endpoint.
type Transport interface {
	Send(ctx context.Context, method, path string, body []byte) (*Response, error)
}

type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(cfg config.ConnectConfig, logger *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.APIEndpoint), "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (c *HTTPClient) Send(ctx context.Context, method, path string, body []byte) (*Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	requestID := requestIDPrefix + uuid.NewString()
	httpReq.Header.Set("Authorization", "ApiKey "+c.apiKey)
	httpReq.Header.Set("Request-ID", requestID)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Info("http request", "method", method, "url", url, "request_id", requestID)
	c.logger.Debug("http request headers",
		"authorization", "ApiKey "+mask(c.apiKey),
		"request_id", requestID,
		"content_type", "application/json",
	)
	if body != nil {
		c.logger.Debug("http request body", "request_id", requestID, "body", string(body))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	c.logger.Info("http response", "request_id", requestID, "status", resp.StatusCode)
	c.logger.Debug("http response body", "request_id", requestID, "body", string(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		apiErr.Code = errResp.Code
		apiErr.Message = strings.Join(errResp.Errors, "; ")
	}
	return apiErr
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
