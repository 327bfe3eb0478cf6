package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	ocrAPIBase = "https://api.mistral.ai/v1"
	ocrModel   = "mistral-ocr-latest"
	ocrTimeout = 120 * time.Second
	ocrPurpose = "ocr"
)

// OCRClient extracts text from scanned documents via the Mistral OCR API:
// upload the file, resolve a signed URL, run OCR, concatenate the per-page
// markdown in page order. The uploaded file stays on the provider side until
// DeleteFile is called.
type OCRClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOCRClient constructs an OCR-backed extractor.
func NewOCRClient(apiKey string) (*OCRClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("MISTRAL_API_KEY is required")
	}
	return &OCRClient{
		apiKey:  apiKey,
		baseURL: ocrAPIBase,
		httpClient: &http.Client{
			Timeout: ocrTimeout,
		},
	}, nil
}

func (c *OCRClient) Extract(ctx context.Context, data []byte, mimeType, fileName string) (Result, error) {
	if normalizeMimeType(mimeType, fileName, data) != mimePDF {
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	fileID, err := c.uploadFile(ctx, data, fileName)
	if err != nil {
		return Result{}, fmt.Errorf("ocr upload: %w", err)
	}

	signedURL, err := c.signedURL(ctx, fileID)
	if err != nil {
		return Result{}, fmt.Errorf("ocr signed url file=%s: %w", fileID, err)
	}

	text, err := c.process(ctx, signedURL)
	if err != nil {
		return Result{}, fmt.Errorf("ocr process file=%s: %w", fileID, err)
	}
	return Result{Text: text, OCRFileID: fileID}, nil
}

// DeleteFile removes an uploaded file from the provider.
func (c *OCRClient) DeleteFile(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/files/"+fileID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ocr delete file=%s status=%d: %s", fileID, resp.StatusCode, truncate(string(body)))
	}
	return nil
}

func (c *OCRClient) uploadFile(ctx context.Context, data []byte, fileName string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("purpose", ocrPurpose); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var parsed struct {
		ID string `json:"id"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("upload response missing file id")
	}
	return parsed.ID, nil
}

func (c *OCRClient) signedURL(ctx context.Context, fileID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/"+fileID+"/url", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var parsed struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	if parsed.URL == "" {
		return "", fmt.Errorf("signed url response missing url")
	}
	return parsed.URL, nil
}

func (c *OCRClient) process(ctx context.Context, documentURL string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model": ocrModel,
		"document": map[string]any{
			"type":         "document_url",
			"document_url": documentURL,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var parsed struct {
		Pages []struct {
			Index    int    `json:"index"`
			Markdown string `json:"markdown"`
		} `json:"pages"`
	}
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Pages) == 0 {
		return "", fmt.Errorf("ocr response has no pages")
	}
	// The provider is not contractually ordered; page index decides.
	sort.SliceStable(parsed.Pages, func(i, j int) bool {
		return parsed.Pages[i].Index < parsed.Pages[j].Index
	})

	var b strings.Builder
	for i, page := range parsed.Pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page.Markdown)
	}
	return b.String(), nil
}

func (c *OCRClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status=%d: %s", resp.StatusCode, truncate(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("response parse: %w", err)
	}
	return nil
}

func truncate(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

var _ Extractor = (*OCRClient)(nil)
