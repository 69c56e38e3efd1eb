// Package llm wraps the Azure OpenAI chat-completions endpoint behind a
// single capability: given a structured prompt, return the model's output or
// fail. Connection settings are fixed at construction and safe for
// concurrent use.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/veriview/veriview/config"
	"github.com/veriview/veriview/internal/prompt"
	"github.com/veriview/veriview/pkg/vision"
)

// ModelInvocationError reports a provider-side or transport failure after
// the retry budget is exhausted. The evaluator converts it into a failed
// verdict; it never crosses the public check boundary as an error.
type ModelInvocationError struct {
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Err)
}

func (e *ModelInvocationError) Unwrap() error { return e.Err }

// Invoker is the capability the evaluator consumes. Tests substitute fakes.
type Invoker interface {
	// Invoke sends the prompt and returns the raw model output.
	Invoke(ctx context.Context, messages []prompt.Message) (string, error)
	// Structured reports whether the provider enforces the response schema.
	Structured() bool
}

var retryDelay = 2 * time.Second

// Client talks to an Azure OpenAI deployment over HTTP.
type Client struct {
	cfg   config.ModelConfig
	httpc *http.Client
}

// New creates a client from the process-wide model configuration.
func New(cfg config.ModelConfig) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		// First headers can take a while on vision inputs; the overall
		// bound comes from the caller's context.
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}

	return &Client{
		cfg: cfg,
		httpc: &http.Client{
			Timeout:   0,
			Transport: tr,
		},
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g., for custom
// timeouts or tracing).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpc = hc
	}
	return c
}

// Structured reports whether the deployment runs in structured-output mode.
func (c *Client) Structured() bool { return c.cfg.StructuredOutput }

func (c *Client) requestURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Deployment, c.cfg.APIVersion)
}

// Invoke sends the messages to the configured deployment, retrying transient
// failures up to the configured budget, and returns the assistant content.
func (c *Client) Invoke(ctx context.Context, messages []prompt.Message) (string, error) {
	payload, err := json.Marshal(c.requestBody(messages))
	if err != nil {
		return "", &ModelInvocationError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	attempts := c.cfg.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &ModelInvocationError{Err: ctx.Err()}
			case <-time.After(retryDelay):
			}
		}

		out, retryable, err := c.doRequest(ctx, payload)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", &ModelInvocationError{Err: lastErr}
}

func (c *Client) requestBody(messages []prompt.Message) map[string]any {
	wire := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		content := make([]map[string]any, 0, len(m.Parts))
		for _, p := range m.Parts {
			switch p.Type {
			case prompt.PartImage:
				content = append(content, map[string]any{
					"type":      "image_url",
					"image_url": map[string]any{"url": p.ImageURL},
				})
			default:
				content = append(content, map[string]any{
					"type": "text",
					"text": p.Text,
				})
			}
		}
		wire = append(wire, map[string]any{"role": m.Role, "content": content})
	}

	body := map[string]any{
		"messages":    wire,
		"temperature": 0,
	}
	if c.cfg.StructuredOutput {
		body["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   vision.SchemaName,
				"strict": true,
				"schema": vision.ResponseSchema(),
			},
		}
	}
	return body
}

// doRequest performs one HTTP attempt. The second return value reports
// whether the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, payload []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.requestURL(), bytes.NewReader(payload))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("provider returned %d: %s", resp.StatusCode, truncate(raw, 512))
	}

	var env struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if len(env.Choices) == 0 || strings.TrimSpace(env.Choices[0].Message.Content) == "" {
		return "", false, fmt.Errorf("empty model output; body=%s", truncate(raw, 512))
	}
	return env.Choices[0].Message.Content, false, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
