package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/elementdb/pkg/client"
)

// listAPIStub records which list endpoint each fetch hit and serves a
// configurable element page. Count endpoints always answer.
type listAPIStub struct {
	mu        sync.Mutex
	paths     []string
	elements  []map[string]interface{}
	totalKey  string
	total     int64
	failPaths map[string]int // path substring -> status to return
}

func (s *listAPIStub) lastListPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.paths) == 0 {
		return ""
	}
	return s.paths[len(s.paths)-1]
}

func (s *listAPIStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	s.mu.Lock()
	for substr, status := range s.failPaths {
		if strings.Contains(path, substr) {
			s.mu.Unlock()
			w.WriteHeader(status)
			io.WriteString(w, `{"detail":"stub failure"}`)
			return
		}
	}
	s.mu.Unlock()

	switch {
	case strings.Contains(path, "/stats/element/"):
		io.WriteString(w, `{"regulation_count":3}`)
	case r.Method == http.MethodDelete:
		io.WriteString(w, `{"message":"deleted"}`)
	default:
		s.mu.Lock()
		s.paths = append(s.paths, path)
		elements := s.elements
		totalKey := s.totalKey
		total := s.total
		s.mu.Unlock()

		if totalKey == "" {
			totalKey = "total_elements"
		}
		body := map[string]interface{}{
			"elements": elements,
			"count":    len(elements),
			"limit":    20,
			"offset":   0,
			totalKey:   total,
		}
		json.NewEncoder(w).Encode(body)
	}
}

func stubElement(id, name, elementType string, created time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"name":       name,
		"type":       elementType,
		"user_id":    "user-1",
		"created_at": created.Format(time.RFC3339),
		"updated_at": created.Format(time.RFC3339),
	}
}

func TestFetchPagePrecedence(t *testing.T) {
	stub := &listAPIStub{total: 0}
	api := newTestAPI(t, stub)
	list := NewElementList(api, 20, nil)

	cases := []struct {
		label  string
		filter Filter
		want   string
	}{
		{"category wins over everything", Filter{CategoryID: "c-1", UserID: "u-1", Type: "wall"}, "/api/elements/category/c-1"},
		{"user+type", Filter{UserID: "u-1", Type: "wall"}, "/api/elements/user/u-1/type/wall"},
		{"user only", Filter{UserID: "u-1"}, "/api/elements/user/u-1"},
		{"type only", Filter{Type: "wall"}, "/api/elements/type/wall"},
		{"unfiltered", Filter{}, "/api/elements"},
	}

	for _, tc := range cases {
		if err := list.SetFilter(context.Background(), tc.filter); err != nil {
			t.Fatalf("%s: SetFilter failed: %v", tc.label, err)
		}
		if got := stub.lastListPath(); got != tc.want {
			t.Errorf("%s: hit %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{41, 20, 3},
	}

	for _, tc := range cases {
		stub := &listAPIStub{total: tc.total}
		api := newTestAPI(t, stub)
		list := NewElementList(api, tc.limit, nil)
		if err := list.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}
		if got := list.TotalPages(); got != tc.want {
			t.Errorf("total %d limit %d: got %d pages, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestSetPageOutOfRangeIsNoOp(t *testing.T) {
	stub := &listAPIStub{total: 45}
	api := newTestAPI(t, stub)
	list := NewElementList(api, 20, nil)
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	before := list.RefreshCount()

	// 45 rows at 20/page = 3 pages; 0 and 4 are out of range.
	for _, page := range []int{0, -1, 4} {
		if err := list.SetPage(context.Background(), page); err != nil {
			t.Fatalf("SetPage(%d) returned error: %v", page, err)
		}
	}
	if list.Page() != 1 {
		t.Errorf("expected page unchanged at 1, got %d", list.Page())
	}
	if list.RefreshCount() != before {
		t.Error("expected no refetch for out-of-range pages")
	}

	if err := list.SetPage(context.Background(), 3); err != nil {
		t.Fatalf("SetPage(3) failed: %v", err)
	}
	if list.Page() != 3 {
		t.Errorf("expected page 3, got %d", list.Page())
	}
	if list.RefreshCount() != before+1 {
		t.Error("expected exactly one refetch for the valid page change")
	}
}

func TestSortElementsByCreatedDesc(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []client.Element{
		{ID: "e-3", Name: "C", CreatedAt: base.Add(3 * time.Hour)},
		{ID: "e-1", Name: "A", CreatedAt: base.Add(1 * time.Hour)},
		{ID: "e-2", Name: "B", CreatedAt: base.Add(2 * time.Hour)},
	}

	sortElements(items, "created_at", "desc")

	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"e-3", "e-2", "e-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("desc created_at order: got %v, want %v", got, want)
		}
	}

	sortElements(items, "created_at", "asc")
	if items[0].ID != "e-1" || items[2].ID != "e-3" {
		t.Errorf("asc created_at order wrong: %v", []string{items[0].ID, items[1].ID, items[2].ID})
	}
}

func TestSortElementsByNameCaseInsensitive(t *testing.T) {
	items := []client.Element{
		{ID: "e-1", Name: "zehn"},
		{ID: "e-2", Name: "Acht"},
		{ID: "e-3", Name: "mitte"},
	}
	sortElements(items, "name", "asc")
	if items[0].ID != "e-2" || items[1].ID != "e-3" || items[2].ID != "e-1" {
		t.Errorf("case-insensitive name order wrong: %v", []string{items[0].ID, items[1].ID, items[2].ID})
	}
}

func TestRefreshAttachesCounts(t *testing.T) {
	stub := &listAPIStub{
		elements: []map[string]interface{}{stubElement("e-1", "Wand A", "wall", time.Now())},
		total:    1,
	}
	api := newTestAPI(t, stub)
	list := NewElementList(api, 20, nil)

	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	items := list.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RegulationCount != 3 {
		t.Errorf("expected count from stats endpoint, got %d", items[0].RegulationCount)
	}
}

func TestRefreshCountFailureDefaultsToZero(t *testing.T) {
	stub := &listAPIStub{
		elements:  []map[string]interface{}{stubElement("e-1", "Wand A", "wall", time.Now())},
		total:     1,
		failPaths: map[string]int{"/stats/element/": http.StatusInternalServerError},
	}
	api := newTestAPI(t, stub)
	list := NewElementList(api, 20, nil)

	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	items := list.Items()
	if len(items) != 1 || items[0].RegulationCount != 0 {
		t.Errorf("expected count 0 after fan-out failure, got %+v", items)
	}
}

func TestUnlinkRegulationDecrementsFlooredAtZero(t *testing.T) {
	stub := &listAPIStub{
		elements: []map[string]interface{}{stubElement("e-1", "Wand A", "wall", time.Now())},
		total:    1,
	}
	api := newTestAPI(t, stub)
	list := NewElementList(api, 20, nil)
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// The stub attaches count 3; four unlinks must stop at 0.
	for i := 0; i < 4; i++ {
		if err := list.UnlinkRegulation(context.Background(), "e-1", int64(i+1)); err != nil {
			t.Fatalf("UnlinkRegulation failed: %v", err)
		}
	}
	items := list.Items()
	if items[0].RegulationCount != 0 {
		t.Errorf("expected count floored at 0, got %d", items[0].RegulationCount)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	var mu sync.Mutex
	deleted := []string{}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			id := strings.TrimPrefix(r.URL.Path, "/api/elements/")
			if id == "e-2" {
				w.WriteHeader(http.StatusNotFound)
				io.WriteString(w, `{"detail":"not found"}`)
				return
			}
			mu.Lock()
			deleted = append(deleted, id)
			mu.Unlock()
			io.WriteString(w, `{"message":"Element deleted successfully"}`)
			return
		}
		// List fetch with three rows.
		fmt.Fprintf(w, `{"elements":[%s,%s,%s],"count":3,"limit":20,"offset":0,"total_elements":3}`,
			`{"id":"e-1","name":"A","type":"wall"}`,
			`{"id":"e-2","name":"B","type":"wall"}`,
			`{"id":"e-3","name":"C","type":"wall"}`)
	})

	api := newTestAPI(t, handler)
	list := NewElementList(api, 20, nil)
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	result := list.BulkDelete(context.Background(), []string{"e-1", "e-2", "e-3"})
	if result.DeletedCount != 2 {
		t.Errorf("expected 2 deletions, got %d", result.DeletedCount)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "e-2") {
		t.Errorf("expected one error naming e-2, got %v", result.Errors)
	}

	// Successes are gone locally; the failure stays.
	items := list.Items()
	if len(items) != 1 || items[0].ID != "e-2" {
		t.Errorf("expected only e-2 left, got %+v", items)
	}
	if list.Total() != 1 {
		t.Errorf("expected total decremented to 1, got %d", list.Total())
	}
}

func TestCategoryListRefresh(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/elements/count") {
			io.WriteString(w, `{"total_elements":5}`)
			return
		}
		io.WriteString(w, `{"categories":[{"id":"c-1","name":"Trockenbau","user_id":"user-1"}],"count":1,"limit":20,"offset":0,"total_categories":1}`)
	})

	api := newTestAPI(t, handler)
	list := NewCategoryList(api, "user-1", 20, nil)
	if err := list.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	items := list.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 category, got %d", len(items))
	}
	if items[0].ElementCount != 5 {
		t.Errorf("expected element count fan-out, got %d", items[0].ElementCount)
	}
	if list.TotalPages() != 1 {
		t.Errorf("expected 1 page, got %d", list.TotalPages())
	}
}
