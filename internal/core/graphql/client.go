// Package graphql posts query templates to a Ceres GraphQL endpoint and
// returns the parsed response.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/generalbioinformatics/gbapi/internal/types"
)

// maxErrorBody bounds how much of a failed response is kept on StatusError.
const maxErrorBody = 512

// ReadTemplate reads a .graphql query template from path.
func ReadTemplate(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read query template: %w", err)
	}
	return string(b), nil
}

// Response is a successful GraphQL response. Raw is the body as received.
type Response struct {
	Raw   []byte
	Value types.Value
}

// Client posts queries to a single endpoint. Authentication is the
// responsibility of the supplied *http.Client (see auth.HTTPClient).
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient creates a client for endpoint. A nil logger discards output.
func NewClient(endpoint string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{endpoint: endpoint, http: httpClient, logger: logger}
}

// Endpoint returns the URL queries are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

type requestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Run executes query with variables.
func (c *Client) Run(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	body, err := json.Marshal(requestBody{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("query failed",
			zap.Int("status", resp.StatusCode),
			zap.String("query", query),
			zap.Any("variables", variables))
		snippet := raw
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if err := c.checkShape(raw); err != nil {
		return nil, err
	}

	v, err := types.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	c.logger.Debug("query complete", zap.Int("bytes", len(raw)))
	return &Response{Raw: raw, Value: v}, nil
}

// checkShape validates the top level of a response body.
func (c *Client) checkShape(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%w: invalid JSON", ErrInvalidResponse)
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return fmt.Errorf("%w: got %s", ErrInvalidResponse, root.Type)
	}

	errs := root.Get("errors")
	if !errs.IsArray() || len(errs.Array()) == 0 {
		return nil
	}

	var messages []string
	errs.ForEach(func(_, e gjson.Result) bool {
		if msg := e.Get("message"); msg.Exists() {
			messages = append(messages, msg.String())
		} else {
			messages = append(messages, e.Raw)
		}
		return true
	})

	data := root.Get("data")
	if data.Exists() && data.Type != gjson.Null {
		c.logger.Warn("graphql returned partial data with errors", zap.Strings("errors", messages))
		return nil
	}
	return &GraphQLError{Messages: messages}
}
