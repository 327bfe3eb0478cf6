package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	loopsAPIURL  = "https://app.loops.so/api/v1/transactional"
	loopsTimeout = 15 * time.Second
)

// LoopsClient sends transactional email through the Loops API.
type LoopsClient struct {
	apiKey          string
	resetTemplateID string
	baseURL         string
	httpClient      *http.Client
}

// NewLoopsClient constructs a Loops mailer.
func NewLoopsClient(apiKey, resetTemplateID string) (*LoopsClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("LOOPS_API_KEY is required")
	}
	if strings.TrimSpace(resetTemplateID) == "" {
		return nil, fmt.Errorf("LOOPS_RESET_TEMPLATE_ID is required")
	}
	return &LoopsClient{
		apiKey:          apiKey,
		resetTemplateID: resetTemplateID,
		baseURL:         loopsAPIURL,
		httpClient: &http.Client{
			Timeout: loopsTimeout,
		},
	}, nil
}

// SendPasswordReset emails the reset link.
func (c *LoopsClient) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	return c.send(ctx, c.resetTemplateID, email, map[string]string{"url": resetURL})
}

func (c *LoopsClient) send(ctx context.Context, transactionalID, email string, dataVariables map[string]string) error {
	payload, err := json.Marshal(map[string]any{
		"transactionalId": transactionalID,
		"email":           email,
		"dataVariables":   dataVariables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		if len(body) > 512 {
			body = body[:512]
		}
		return fmt.Errorf("loops send template=%s status=%d: %s", transactionalID, resp.StatusCode, body)
	}
	return nil
}
