package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(Options{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, server
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Error("expected error for missing base url")
	}
}

func TestNormalizeEnvelope(t *testing.T) {
	cases := []struct {
		label   string
		raw     string
		want    string
		wantErr bool
	}{
		{"raw passthrough", `{"id":"e-1"}`, `{"id":"e-1"}`, false},
		{"success wrapper", `{"success":true,"data":{"id":"e-1"}}`, `{"id":"e-1"}`, false},
		{"failure wrapper", `{"success":false,"detail":"boom"}`, "", true},
		{"failure wrapper error key", `{"success":false,"error":"broke"}`, "", true},
		{"non-object", `[1,2,3]`, `[1,2,3]`, false},
	}

	for _, tc := range cases {
		got, err := normalizeEnvelope([]byte(tc.raw))
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tc.label)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.label, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("%s: got %s, want %s", tc.label, got, tc.want)
		}
	}
}

func TestAPIErrorParsing(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"not found: element missing","ok":false}`)
	}))

	_, err := c.GetElement(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Detail, "element missing") {
		t.Errorf("expected detail from body, got %q", apiErr.Detail)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to match")
	}
}

func TestAPIErrorFallbackDetail(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "upstream says no")
	}))

	_, err := c.GetElement(context.Background(), "e-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if !strings.Contains(apiErr.Detail, "502") {
		t.Errorf("expected synthesized detail with status, got %q", apiErr.Detail)
	}
}

func TestElementPageTotalResolution(t *testing.T) {
	n := int64(42)
	fallbackCount := 7

	cases := []struct {
		label string
		page  ElementPage
		want  int64
	}{
		{"unfiltered key", ElementPage{TotalElements: &n}, 42},
		{"per-user key", ElementPage{TotalElementsForUser: &n}, 42},
		{"per-type key", ElementPage{TotalElementsOfType: &n}, 42},
		{"fallback to count", ElementPage{Count: fallbackCount}, 7},
	}

	for _, tc := range cases {
		if got := tc.page.Total(); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.label, got, tc.want)
		}
	}
}

func TestListElementsQuery(t *testing.T) {
	var gotPath, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"elements":[],"count":0,"limit":20,"offset":40,"total_elements":0}`)
	}))

	if _, err := c.ListElements(context.Background(), 20, 40); err != nil {
		t.Fatalf("ListElements failed: %v", err)
	}
	if gotPath != "/api/elements" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "limit=20") || !strings.Contains(gotQuery, "offset=40") {
		t.Errorf("expected pagination query, got %q", gotQuery)
	}
}

func TestCreateElementPostsBody(t *testing.T) {
	var received map[string]interface{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message":"Element created successfully","element":{"id":"e-1","name":"Wand A"}}`)
	}))

	element, err := c.CreateElement(context.Background(), ElementInput{
		Name:   "Wand A",
		Type:   "wall",
		UserID: "user-1",
	})
	if err != nil {
		t.Fatalf("CreateElement failed: %v", err)
	}
	if element.ID != "e-1" {
		t.Errorf("expected unwrapped element, got %+v", element)
	}
	if received["name"] != "Wand A" || received["user_id"] != "user-1" {
		t.Errorf("unexpected request body: %v", received)
	}
}

func TestUploadFileSendsMultipart(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if r.FormValue("project_id") != "p-1" {
			t.Errorf("expected project_id field, got %q", r.FormValue("project_id"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "angebot.pdf" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "%PDF-1.4" {
			t.Errorf("unexpected file content %q", content)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"message":"File uploaded successfully","file":{"id":"f-1","filename":"angebot.pdf"}}`)
	}))

	record, err := c.UploadFile(context.Background(), "p-1", "", "angebot.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadFile failed: %v", err)
	}
	if record.ID != "f-1" {
		t.Errorf("expected file record, got %+v", record)
	}
}

func TestSearchRegulationsUnifiedNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"No regulations found for query: nichts","ok":false}`)
	}))

	_, err := c.SearchRegulationsUnified(context.Background(), "nichts", 50)
	if !IsNotFound(err) {
		t.Errorf("expected not-found APIError, got %v", err)
	}
}
