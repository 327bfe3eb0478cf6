package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"healthtrack-backend/internal/documents"
	"healthtrack-backend/internal/extract"
	"healthtrack-backend/internal/ingest"
	"healthtrack-backend/internal/llm"
	"healthtrack-backend/internal/markers"
)

type fakeExtractor struct {
	failFor map[string]bool
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte, mimeType, fileName string) (extract.Result, error) {
	if f.failFor[fileName] {
		return extract.Result{}, errors.New("malformed document")
	}
	return extract.Result{Text: "Glucose: 95 mg/dL (70-99)"}, nil
}

type fakeLLM struct {
	output string
	err    error
	lastIn llm.ExtractInput
	calls  int
}

func (f *fakeLLM) ExtractMarkers(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	f.calls++
	f.lastIn = input
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.output), nil
}

const goodOutput = `{
	"date": "2025-03-10",
	"title": "Blood Panel",
	"notes": "Fasting",
	"markers": [
		{"name": "Glucose", "value": "95", "unit": "mg/dL", "category": "Blood", "referenceMin": "70", "referenceMax": "99"},
		{"name": "Iron", "value": "80", "unit": "ug/dL", "category": "Blood", "referenceMin": null, "referenceMax": null}
	]
}`

type fixture struct {
	svc        *ingest.Service
	docStore   *documents.MemoryRepo
	markerRepo *markers.MemoryRepo
	llm        *fakeLLM
	extractor  *fakeExtractor
}

func newFixture(output string) *fixture {
	markerRepo := markers.NewMemoryRepo()
	docStore := documents.NewMemoryRepo(markerRepo)
	client := &fakeLLM{output: output}
	extractor := &fakeExtractor{failFor: map[string]bool{}}
	svc := ingest.NewService(
		nil,
		extractor,
		client,
		markers.NewService(markerRepo),
		&ingest.MemoryRecorder{Docs: docStore, Markers: markerRepo},
	)
	return &fixture{svc: svc, docStore: docStore, markerRepo: markerRepo, llm: client, extractor: extractor}
}

func file(name string) ingest.UploadFile {
	return ingest.UploadFile{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 " + name)}
}

func TestProcessUploadPersistsDocumentAndMarkers(t *testing.T) {
	fx := newFixture(goodOutput)
	ctx := context.Background()

	if err := fx.svc.ProcessUpload(ctx, "user-1", []ingest.UploadFile{file("report.pdf")}); err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	docs, err := fx.docStore.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected exactly 1 document, got %d", len(docs))
	}
	doc := docs[0]
	if doc.Title != "Blood Panel" || doc.Date.Format("2006-01-02") != "2025-03-10" {
		t.Fatalf("unexpected document: %+v", doc.Document)
	}
	if doc.MarkerCount != 2 {
		t.Fatalf("expected 2 markers on the document, got %d", doc.MarkerCount)
	}

	rows, err := fx.markerRepo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("list markers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected exactly 2 marker rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.UserID != "user-1" {
			t.Fatalf("marker must carry the uploader's user id, got %q", row.UserID)
		}
		if row.DocumentID != doc.ID {
			t.Fatalf("marker must reference the new document")
		}
	}
}

func TestProcessUploadEmptyMarkerListIsValid(t *testing.T) {
	fx := newFixture(`{"date":"2025-03-10","title":"Empty Panel","notes":"","markers":[]}`)
	ctx := context.Background()

	if err := fx.svc.ProcessUpload(ctx, "user-1", []ingest.UploadFile{file("report.pdf")}); err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	docs, _ := fx.docStore.ListByUser(ctx, "user-1")
	if len(docs) != 1 || docs[0].MarkerCount != 0 {
		t.Fatalf("expected 1 document with no markers, got %+v", docs)
	}
}

func TestProcessUploadFailedExtractionPersistsNothing(t *testing.T) {
	fx := newFixture(goodOutput)
	fx.extractor.failFor["report.pdf"] = true
	ctx := context.Background()

	err := fx.svc.ProcessUpload(ctx, "user-1", []ingest.UploadFile{file("report.pdf")})
	if err == nil {
		t.Fatalf("expected error for failed extraction")
	}
	docs, _ := fx.docStore.ListByUser(ctx, "user-1")
	if len(docs) != 0 {
		t.Fatalf("failed extraction must not create a document, got %d", len(docs))
	}
	if fx.llm.calls != 0 {
		t.Fatalf("llm should not be called when extraction fails")
	}
}

func TestProcessUploadBadDateFailsWholeFile(t *testing.T) {
	fx := newFixture(`{"date":"around easter","title":"Panel","notes":"","markers":[]}`)
	ctx := context.Background()

	if err := fx.svc.ProcessUpload(ctx, "user-1", []ingest.UploadFile{file("report.pdf")}); err == nil {
		t.Fatalf("expected error for uncoercible date")
	}
	docs, _ := fx.docStore.ListByUser(ctx, "user-1")
	if len(docs) != 0 {
		t.Fatalf("bad date must not create a document")
	}
}

func TestProcessUploadSecondFileFailureKeepsFirst(t *testing.T) {
	fx := newFixture(goodOutput)
	fx.extractor.failFor["second.pdf"] = true
	ctx := context.Background()

	err := fx.svc.ProcessUpload(ctx, "user-1", []ingest.UploadFile{file("first.pdf"), file("second.pdf")})
	if err == nil {
		t.Fatalf("expected failure for the second file")
	}

	docs, _ := fx.docStore.ListByUser(ctx, "user-1")
	if len(docs) != 1 {
		t.Fatalf("first file should stay persisted, got %d documents", len(docs))
	}
	if docs[0].FileName != "first.pdf" {
		t.Fatalf("persisted document should be the first file, got %s", docs[0].FileName)
	}
}

func TestProcessUploadPassesVocabularyToLLM(t *testing.T) {
	fx := newFixture(goodOutput)
	ctx := context.Background()

	if _, err := markers.NewService(fx.markerRepo).AddManual(ctx, "user-1", "Body Weight", "82"); err != nil {
		t.Fatalf("seed marker: %v", err)
	}
	if err := fx.svc.ProcessUpload(ctx, "user-1", []ingest.UploadFile{file("report.pdf")}); err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	if len(fx.llm.lastIn.ExistingMarkers) != 1 || fx.llm.lastIn.ExistingMarkers[0] != "Body Weight" {
		t.Fatalf("existing marker names should reach the prompt, got %v", fx.llm.lastIn.ExistingMarkers)
	}
	if fx.llm.lastIn.DocumentText == "" {
		t.Fatalf("document text should reach the prompt")
	}
}

func TestProcessUploadSequentialOrder(t *testing.T) {
	fx := newFixture(goodOutput)
	ctx := context.Background()

	var names []string
	for i := 0; i < 3; i++ {
		names = append(names, fmt.Sprintf("file-%d.pdf", i))
	}
	var files []ingest.UploadFile
	for _, name := range names {
		files = append(files, file(name))
	}
	if err := fx.svc.ProcessUpload(ctx, "user-1", files); err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}
	docs, _ := fx.docStore.ListByUser(ctx, "user-1")
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
}
