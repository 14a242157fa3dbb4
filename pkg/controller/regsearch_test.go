package controller

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/localnerve/elementdb/pkg/client"
)

func TestRegulationSearchMinLengthGate(t *testing.T) {
	var requests int32
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		io.WriteString(w, `{"query":"003901C","search_type":"number","total_results":1,"results":[{"id":7,"entity_type":"Folgeposition"}]}`)
	}))

	var callbacks int32
	search := NewRegulationSearch(api, 10*time.Millisecond, func(*client.UnifiedSearchResult, error) {
		atomic.AddInt32(&callbacks, 1)
	}, nil)

	// Five characters stay below the gate; nothing fires.
	search.SetQuery(context.Background(), "00390")
	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&requests) != 0 {
		t.Errorf("expected no request below the minimum length, got %d", requests)
	}

	// Six characters fire.
	search.SetQuery(context.Background(), "003901")
	waitForCalls(t, &callbacks, 1)
	if atomic.LoadInt32(&requests) != 1 {
		t.Errorf("expected 1 request at minimum length, got %d", requests)
	}
	if candidates := search.Candidates(); len(candidates) != 1 || candidates[0].ID != 7 {
		t.Errorf("expected the served candidate, got %v", candidates)
	}
}

func TestRegulationSearchShortQueryCancelsPending(t *testing.T) {
	var requests int32
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		io.WriteString(w, `{"query":"003901","search_type":"number","total_results":1,"results":[{"id":7}]}`)
	}))

	search := NewRegulationSearch(api, 50*time.Millisecond, nil, nil)

	search.SetQuery(context.Background(), "003901")
	// Backspacing below the gate before the window elapses cancels the search.
	search.SetQuery(context.Background(), "00390")

	time.Sleep(150 * time.Millisecond)
	if atomic.LoadInt32(&requests) != 0 {
		t.Errorf("expected pending search cancelled, got %d requests", requests)
	}
	if len(search.Candidates()) != 0 {
		t.Error("expected candidates cleared")
	}
}

func TestRegulationSearchNoMatchesClearsCandidates(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"No regulations found for query: 999999"}`)
	}))

	var callbacks int32
	search := NewRegulationSearch(api, 10*time.Millisecond, func(*client.UnifiedSearchResult, error) {
		atomic.AddInt32(&callbacks, 1)
	}, nil)

	search.SetQuery(context.Background(), "999999")
	waitForCalls(t, &callbacks, 1)

	if len(search.Candidates()) != 0 {
		t.Error("expected no candidates for a 404")
	}
	if !client.IsNotFound(search.Err()) {
		t.Errorf("expected not-found error retained, got %v", search.Err())
	}
}

func TestRegulationSearchPickUnpick(t *testing.T) {
	search := NewRegulationSearch(nil, time.Millisecond, nil, nil)

	if !search.Pick(clientRegulation(101)) {
		t.Error("expected first pick to change the selection")
	}
	if search.Pick(clientRegulation(101)) {
		t.Error("expected re-pick of the same id to be a no-op")
	}
	if !search.Pick(clientRegulation(202)) {
		t.Error("expected second pick to change the selection")
	}

	if !search.IsSelected(101) || !search.IsSelected(202) {
		t.Error("expected both ids selected")
	}

	ids := search.SelectedIDs()
	if len(ids) != 2 || ids[0] != 101 || ids[1] != 202 {
		t.Errorf("expected pick order [101 202], got %v", ids)
	}

	if !search.Unpick(101) {
		t.Error("expected Unpick to remove 101")
	}
	if search.Unpick(101) {
		t.Error("expected second Unpick to report false")
	}
	if search.IsSelected(101) {
		t.Error("expected 101 no longer selected")
	}
	if ids := search.SelectedIDs(); len(ids) != 1 || ids[0] != 202 {
		t.Errorf("expected [202] left, got %v", ids)
	}
}
