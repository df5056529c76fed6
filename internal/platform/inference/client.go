// Package inference is the HTTP client for the external retinal image
// classification service.
package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrInference is the sentinel all classification failures unwrap to.
var ErrInference = errors.New("inference failed")

// Error carries the upstream failure detail for server-side logging. Detail
// must never be echoed to clients. Retryable distinguishes transport-level
// failures from terminal ones; no caller retries today, but the split keeps
// that decision out of this package.
type Error struct {
	Op        string
	Detail    string
	Retryable bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("inference %s: %s", e.Op, e.Detail)
}

func (e *Error) Unwrap() error { return ErrInference }

// Result is the classification outcome returned by the model service.
type Result struct {
	PredictedClass  string  `json:"predicted_class"`
	ConfidenceScore float64 `json:"confidence_score"`
	Heatmap         string  `json:"heatmap"`
}

// Classifier is implemented by the HTTP client and by test stubs.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (*Result, error)
}

// Client sends images to the configured inference endpoint. One attempt per
// call; the timeout bounds the whole exchange.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	Image string `json:"image"`
}

const maxResponseBytes = 1 << 20

// Classify posts the base64-encoded image and parses the model response.
func (c *Client) Classify(ctx context.Context, image []byte) (*Result, error) {
	payload, err := json.Marshal(classifyRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, &Error{Op: "encode", Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Op: "request", Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Op: "send", Detail: err.Error(), Retryable: true}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &Error{Op: "read", Detail: err.Error(), Retryable: true}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:        "status",
			Detail:    fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, body),
			Retryable: resp.StatusCode >= 500,
		}
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Error{Op: "decode", Detail: fmt.Sprintf("%v: %s", err, body)}
	}
	if result.PredictedClass == "" {
		return nil, &Error{Op: "decode", Detail: "response missing predicted_class"}
	}
	if result.ConfidenceScore < 0 || result.ConfidenceScore > 1 {
		return nil, &Error{Op: "decode", Detail: fmt.Sprintf("confidence_score %f out of range", result.ConfidenceScore)}
	}

	return &result, nil
}
