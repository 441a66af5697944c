package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/model"
)

// Client calls a running server's /extract-fields endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Extract posts transcript to the server and returns the scored fields.
func (c *Client) Extract(ctx context.Context, transcript string) ([]model.ExtractedField, error) {
	body, err := json.Marshal(map[string]string{"transcript": transcript})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract-fields", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && !urlErr.Timeout() && ctx.Err() == nil {
			return nil, common.NewUserError("Could not connect to the server. Please ensure the backend service is running.", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if json.Unmarshal(data, &errResp) != nil || errResp.Error == "" {
			errResp.Error = "Unknown error occurred"
		}
		return nil, common.NewUserError(errResp.Error, fmt.Errorf("server returned status %d", resp.StatusCode))
	}

	var result ExtractResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Fields == nil {
		result.Fields = []model.ExtractedField{}
	}

	return result.Fields, nil
}
