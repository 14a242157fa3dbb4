package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// waitForResult polls the callback counter until it reaches want.
func waitForCalls(t *testing.T, calls *int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(calls) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d callback calls, got %d", want, atomic.LoadInt32(calls))
}

func TestElementSearchDebouncesToOneRequest(t *testing.T) {
	var requests int32
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		io.WriteString(w, `{"elements":[{"id":"e-1","name":"Gipskartonwand"}],"count":1,"limit":100,"offset":0}`)
	}))

	var callbacks int32
	search := NewElementSearch(api, "user-1", 30*time.Millisecond, func(*SearchResult) {
		atomic.AddInt32(&callbacks, 1)
	}, nil)

	// Rapid keystrokes within the debounce window.
	for _, term := range []string{"g", "gi", "gip", "gips"} {
		search.SetQuery(context.Background(), term)
	}

	waitForCalls(t, &callbacks, 1)
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("expected 1 request for the burst, got %d", got)
	}

	result := search.Result()
	if result == nil || result.Count != 1 {
		t.Errorf("expected applied result with 1 element, got %+v", result)
	}
}

func TestElementSearchBlankQueryClears(t *testing.T) {
	var requests int32
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		io.WriteString(w, `{"elements":[],"count":0,"limit":100,"offset":0}`)
	}))

	var callbacks int32
	search := NewElementSearch(api, "user-1", 20*time.Millisecond, func(*SearchResult) {
		atomic.AddInt32(&callbacks, 1)
	}, nil)

	search.SetQuery(context.Background(), "gips")
	waitForCalls(t, &callbacks, 1)

	search.SetQuery(context.Background(), "   ")
	waitForCalls(t, &callbacks, 2)

	if search.Result() != nil {
		t.Error("expected nil result after clearing")
	}
}

func TestElementSearchErrorKeptInResult(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"boom"}`)
	}))

	var callbacks int32
	search := NewElementSearch(api, "user-1", 10*time.Millisecond, func(*SearchResult) {
		atomic.AddInt32(&callbacks, 1)
	}, nil)

	search.SetQuery(context.Background(), "gips")
	waitForCalls(t, &callbacks, 1)

	result := search.Result()
	if result == nil {
		t.Fatal("expected a result object carrying the error")
	}
	if result.Err == nil {
		t.Error("expected the search error in the result")
	}
	if result.Elements == nil || len(result.Elements) != 0 {
		t.Errorf("expected empty element slice on error, got %v", result.Elements)
	}
}

func TestElementSearchHistory(t *testing.T) {
	var served int32
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&served, 1)
		io.WriteString(w, `{"elements":[],"count":0,"limit":100,"offset":0}`)
	}))

	var callbacks int32
	search := NewElementSearch(api, "user-1", 5*time.Millisecond, func(*SearchResult) {
		atomic.AddInt32(&callbacks, 1)
	}, nil)

	for i := 1; i <= 7; i++ {
		search.SetQuery(context.Background(), fmt.Sprintf("term-%d", i))
		waitForCalls(t, &callbacks, int32(i))
	}

	history := search.History()
	if len(history) != 5 {
		t.Fatalf("expected history capped at 5, got %d", len(history))
	}
	if history[0] != "term-7" {
		t.Errorf("expected most recent first, got %v", history)
	}

	// Re-searching an existing term moves it to the front without duplicating.
	search.SetQuery(context.Background(), "term-5")
	waitForCalls(t, &callbacks, 8)
	history = search.History()
	if history[0] != "term-5" || len(history) != 5 {
		t.Errorf("expected term-5 promoted without duplicate, got %v", history)
	}
	seen := map[string]int{}
	for _, h := range history {
		seen[h]++
		if seen[h] > 1 {
			t.Errorf("duplicate history entry %q in %v", h, history)
		}
	}
}
