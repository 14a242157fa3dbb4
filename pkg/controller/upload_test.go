package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
)

func TestClassifyUpload(t *testing.T) {
	if kind, err := classifyUpload("Angebot.PDF"); err != nil || kind != "pdf" {
		t.Errorf("expected pdf, got (%q, %v)", kind, err)
	}
	if kind, err := classifyUpload("lv.onlv"); err != nil || kind != "onlv" {
		t.Errorf("expected onlv, got (%q, %v)", kind, err)
	}
	if _, err := classifyUpload("notizen.txt"); err == nil {
		t.Error("expected rejection for .txt")
	}
	if _, err := classifyUpload("README"); err == nil {
		t.Error("expected rejection for extensionless name")
	}
}

func TestUploadRunSequentialAndIsolated(t *testing.T) {
	var mu sync.Mutex
	var inFlight, maxInFlight int
	var order []string

	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected file part: %v", err)
		}

		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		order = append(order, header.Filename)
		mu.Unlock()

		if header.Filename == "kaputt.pdf" {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"detail":"disk full"}`)
		} else {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"message":"File uploaded successfully","file":{"id":"f-%s","filename":"%s"}}`, header.Filename, header.Filename)
		}

		mu.Lock()
		inFlight--
		mu.Unlock()
	}))

	upload := NewUpload(api, nil)
	files := []UploadFile{
		{Name: "angebot.pdf", Content: strings.NewReader("%PDF")},
		{Name: "notizen.txt", Content: strings.NewReader("nope")},
		{Name: "kaputt.pdf", Content: strings.NewReader("%PDF")},
		{Name: "lv.onlv", Content: strings.NewReader("{}")},
	}

	summary := upload.Run(context.Background(), "p-1", "", files)

	if summary.PDFCount != 1 {
		t.Errorf("expected 1 pdf uploaded, got %d", summary.PDFCount)
	}
	if summary.ONLVCount != 1 {
		t.Errorf("expected 1 onlv uploaded, got %d", summary.ONLVCount)
	}
	if len(summary.Failures) != 2 {
		t.Errorf("expected 2 failures, got %v", summary.Failures)
	}
	if _, ok := summary.Failures["notizen.txt"]; !ok {
		t.Error("expected the rejected file in Failures")
	}
	if _, ok := summary.Failures["kaputt.pdf"]; !ok {
		t.Error("expected the server-failed file in Failures")
	}

	// The rejected file never reached the server; uploads ran one at a time
	// in input order.
	mu.Lock()
	defer mu.Unlock()
	if maxInFlight != 1 {
		t.Errorf("expected strictly sequential uploads, saw %d in flight", maxInFlight)
	}
	want := []string{"angebot.pdf", "kaputt.pdf", "lv.onlv"}
	if len(order) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected upload order %v, got %v", want, order)
		}
	}
}

func TestUploadStates(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message":"File uploaded successfully","file":{"id":"f-1","filename":"angebot.pdf"}}`)
	}))

	upload := NewUpload(api, nil)
	upload.Run(context.Background(), "p-1", "", []UploadFile{
		{Name: "angebot.pdf", Content: strings.NewReader("%PDF")},
		{Name: "notizen.txt", Content: strings.NewReader("nope")},
	})

	done, ok := upload.State("angebot.pdf")
	if !ok || done.Status != UploadStatusDone {
		t.Errorf("expected Done state, got (%+v, %v)", done, ok)
	}
	if done.Record == nil || done.Record.ID != "f-1" {
		t.Errorf("expected file record attached, got %+v", done.Record)
	}
	if !done.Status.IsFinished() {
		t.Error("expected Done to be terminal")
	}

	failed, ok := upload.State("notizen.txt")
	if !ok || failed.Status != UploadStatusFailed {
		t.Errorf("expected Failed state, got (%+v, %v)", failed, ok)
	}
	if failed.Reason == "" {
		t.Error("expected a rejection reason")
	}

	if _, ok := upload.State("unbekannt.pdf"); ok {
		t.Error("expected no state for a file outside the batch")
	}
}

func TestUploadSummaryMessage(t *testing.T) {
	empty := &UploadSummary{Failures: map[string]string{}}
	if got := empty.Message(); got != "No files uploaded" {
		t.Errorf("unexpected empty message %q", got)
	}

	mixed := &UploadSummary{
		PDFCount:  2,
		ONLVCount: 1,
		Failures:  map[string]string{"notizen.txt": "unsupported file type: .txt"},
	}
	msg := mixed.Message()
	for _, want := range []string{"2 PDF file(s) uploaded", "1 ONLV file(s) uploaded", "1 failed", "notizen.txt"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in message %q", want, msg)
		}
	}
}
