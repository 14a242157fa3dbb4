// search.go
//
// A data service and client toolkit for construction element and regulation management
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of elementdb.
// elementdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// elementdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with elementdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/localnerve/elementdb/pkg/client"
	"go.uber.org/zap"
)

const (
	// DefaultSearchDelay is the element search debounce window.
	DefaultSearchDelay = 300 * time.Millisecond
	searchHistoryCap   = 5
)

// SearchResult is what an element search yields. A failed search carries the
// error here instead of propagating it, so the caller renders an empty state
// with the message inline.
type SearchResult struct {
	Elements []client.Element
	Count    int
	Err      error
}

// ElementSearch debounces free-text element searches. A nil result (after
// Clear) means "no active search": the parent falls back to the list.
type ElementSearch struct {
	api      *client.Client
	log      *zap.SugaredLogger
	userID   string
	debounce *Debouncer
	onResult func(*SearchResult)

	mu      sync.Mutex
	result  *SearchResult
	history []string
}

// NewElementSearch creates a search controller scoped to one user. userID
// may be empty for a global search. onResult is invoked after every applied
// result change, including Clear; it may be nil.
func NewElementSearch(api *client.Client, userID string, delay time.Duration, onResult func(*SearchResult), log *zap.SugaredLogger) *ElementSearch {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ElementSearch{
		api:      api,
		log:      log,
		userID:   userID,
		debounce: NewDebouncer(delay),
		onResult: onResult,
	}
}

// SetQuery schedules a debounced search for term. A blank term clears the
// active search instead.
func (s *ElementSearch) SetQuery(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		s.Clear()
		return
	}
	s.debounce.Schedule(func() {
		s.run(ctx, term)
	})
}

// Clear cancels any pending search and resets the result to nil.
func (s *ElementSearch) Clear() {
	s.debounce.Cancel()
	s.mu.Lock()
	s.result = nil
	onResult := s.onResult
	s.mu.Unlock()
	if onResult != nil {
		onResult(nil)
	}
}

// Result returns the current search result, or nil when no search is active.
func (s *ElementSearch) Result() *SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// History returns the recent search terms, most recent first, capped at 5.
// In-memory only; nothing survives a restart.
func (s *ElementSearch) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]string, len(s.history))
	copy(history, s.history)
	return history
}

func (s *ElementSearch) run(ctx context.Context, term string) {
	page, err := s.api.SearchElements(ctx, term, s.userID, 0, 0)

	result := &SearchResult{}
	if err != nil {
		s.log.Debugw("element search failed", "term", term, "error", err)
		result.Elements = []client.Element{}
		result.Err = err
	} else {
		result.Elements = page.Elements
		result.Count = page.Count
	}

	s.mu.Lock()
	s.result = result
	if err == nil {
		s.recordHistoryLocked(term)
	}
	onResult := s.onResult
	s.mu.Unlock()
	if onResult != nil {
		onResult(result)
	}
}

func (s *ElementSearch) recordHistoryLocked(term string) {
	kept := make([]string, 0, searchHistoryCap)
	kept = append(kept, term)
	for _, h := range s.history {
		if h == term {
			continue
		}
		kept = append(kept, h)
		if len(kept) == searchHistoryCap {
			break
		}
	}
	s.history = kept
}
