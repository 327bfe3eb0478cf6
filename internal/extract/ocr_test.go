package extract

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newOCRTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "upload")
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("purpose"); got != "ocr" {
			t.Errorf("expected purpose ocr, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "file-123"})
	})
	mux.HandleFunc("GET /files/file-123/url", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "signed-url")
		_ = json.NewEncoder(w).Encode(map[string]any{"url": "https://signed.example/file-123"})
	})
	mux.HandleFunc("POST /ocr", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "ocr")
		var req struct {
			Document struct {
				URL string `json:"document_url"`
			} `json:"document"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode ocr request: %v", err)
		}
		if req.Document.URL != "https://signed.example/file-123" {
			t.Errorf("unexpected document url %q", req.Document.URL)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pages": []map[string]any{
				{"index": 0, "markdown": "# Page one"},
				{"index": 1, "markdown": "Glucose: 95 mg/dL"},
			},
		})
	})
	mux.HandleFunc("DELETE /files/file-123", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, "delete")
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux), &calls
}

func TestOCRClientExtractConcatenatesPages(t *testing.T) {
	server, calls := newOCRTestServer(t)
	t.Cleanup(server.Close)

	client, err := NewOCRClient("test-key")
	if err != nil {
		t.Fatalf("NewOCRClient: %v", err)
	}
	client.baseURL = server.URL

	result, err := client.Extract(context.Background(), []byte("%PDF-1.4 fake"), "application/pdf", "report.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if result.OCRFileID != "file-123" {
		t.Fatalf("expected provider file id, got %q", result.OCRFileID)
	}
	want := "# Page one\n\nGlucose: 95 mg/dL"
	if result.Text != want {
		t.Fatalf("expected %q, got %q", want, result.Text)
	}
	if len(*calls) != 3 {
		t.Fatalf("expected upload, signed-url, ocr calls, got %v", *calls)
	}

	if err := client.DeleteFile(context.Background(), "file-123"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
}

func TestOCRClientOrdersPagesByIndex(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /files", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "file-9"})
	})
	mux.HandleFunc("GET /files/file-9/url", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"url": "https://signed.example/file-9"})
	})
	mux.HandleFunc("POST /ocr", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"pages": []map[string]any{
				{"index": 2, "markdown": "third"},
				{"index": 0, "markdown": "first"},
				{"index": 1, "markdown": "second"},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := NewOCRClient("test-key")
	if err != nil {
		t.Fatalf("NewOCRClient: %v", err)
	}
	client.baseURL = server.URL

	result, err := client.Extract(context.Background(), []byte("%PDF-1.4 fake"), "application/pdf", "report.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if want := "first\n\nsecond\n\nthird"; result.Text != want {
		t.Fatalf("expected %q, got %q", want, result.Text)
	}
}

func TestOCRClientRejectsNonPDF(t *testing.T) {
	client, err := NewOCRClient("test-key")
	if err != nil {
		t.Fatalf("NewOCRClient: %v", err)
	}
	_, err = client.Extract(context.Background(), []byte("plain text"), "text/plain", "notes.txt")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestNormalizeMimeTypeSniffsPDF(t *testing.T) {
	if got := normalizeMimeType("application/octet-stream", "report.bin", []byte("%PDF-1.7")); got != mimePDF {
		t.Fatalf("header sniff failed, got %s", got)
	}
	if got := normalizeMimeType("application/octet-stream", "report.pdf", nil); got != mimePDF {
		t.Fatalf("extension fallback failed, got %s", got)
	}
	if got := normalizeMimeType("Application/PDF; charset=binary", "x", nil); got != mimePDF {
		t.Fatalf("parameter strip failed, got %s", got)
	}
}
