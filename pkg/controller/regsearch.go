// regsearch.go
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
	// RegulationSearchMinLength gates the unified search; shorter queries
	// never fire.
	RegulationSearchMinLength = 6
	// DefaultRegulationSearchDelay is the unified search debounce window.
	DefaultRegulationSearchDelay = 500 * time.Millisecond
)

// RegulationSearch debounces unified regulation searches and accumulates a
// selection. Selected regulations stay in the candidate list (the caller
// renders them dimmed); re-picking is an id-guarded no-op.
type RegulationSearch struct {
	api      *client.Client
	log      *zap.SugaredLogger
	debounce *Debouncer
	onResult func(*client.UnifiedSearchResult, error)

	mu         sync.Mutex
	candidates []client.Regulation
	selected   []client.Regulation
	lastErr    error
}

// NewRegulationSearch creates a regulation search slot. onResult is invoked
// after every applied search; it may be nil.
func NewRegulationSearch(api *client.Client, delay time.Duration, onResult func(*client.UnifiedSearchResult, error), log *zap.SugaredLogger) *RegulationSearch {
	if delay <= 0 {
		delay = DefaultRegulationSearchDelay
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &RegulationSearch{
		api:      api,
		log:      log,
		debounce: NewDebouncer(delay),
		onResult: onResult,
	}
}

// SetQuery schedules a debounced unified search once the query reaches the
// minimum length; shorter queries cancel any pending search and clear the
// candidates.
func (r *RegulationSearch) SetQuery(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if len(query) < RegulationSearchMinLength {
		r.debounce.Cancel()
		r.mu.Lock()
		r.candidates = nil
		r.lastErr = nil
		r.mu.Unlock()
		return
	}
	r.debounce.Schedule(func() {
		r.run(ctx, query)
	})
}

func (r *RegulationSearch) run(ctx context.Context, query string) {
	result, err := r.api.SearchRegulationsUnified(ctx, query, 0)

	r.mu.Lock()
	if err != nil {
		r.log.Debugw("regulation search failed", "query", query, "error", err)
		r.candidates = nil
		r.lastErr = err
	} else {
		r.candidates = result.Results
		r.lastErr = nil
	}
	onResult := r.onResult
	r.mu.Unlock()

	if onResult != nil {
		onResult(result, err)
	}
}

// Candidates returns the current search results. Already-selected entries
// are included; IsSelected tells the caller which to dim.
func (r *RegulationSearch) Candidates() []client.Regulation {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidates := make([]client.Regulation, len(r.candidates))
	copy(candidates, r.candidates)
	return candidates
}

// Err returns the most recent search error, if any.
func (r *RegulationSearch) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// IsSelected reports whether the regulation id is already in the selection.
func (r *RegulationSearch) IsSelected(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOfLocked(id) >= 0
}

// Pick adds a candidate to the selection. Picking an already-selected id is
// a no-op; it reports whether the selection changed.
func (r *RegulationSearch) Pick(reg client.Regulation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOfLocked(reg.ID) >= 0 {
		return false
	}
	r.selected = append(r.selected, reg)
	return true
}

// Unpick removes a regulation id from the selection.
func (r *RegulationSearch) Unpick(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOfLocked(id)
	if i < 0 {
		return false
	}
	r.selected = append(r.selected[:i], r.selected[i+1:]...)
	return true
}

// Selected returns the selection in pick order.
func (r *RegulationSearch) Selected() []client.Regulation {
	r.mu.Lock()
	defer r.mu.Unlock()
	selected := make([]client.Regulation, len(r.selected))
	copy(selected, r.selected)
	return selected
}

// SelectedIDs returns the selected regulation ids in pick order.
func (r *RegulationSearch) SelectedIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, len(r.selected))
	for i, reg := range r.selected {
		ids[i] = reg.ID
	}
	return ids
}

func (r *RegulationSearch) indexOfLocked(id int64) int {
	for i, reg := range r.selected {
		if reg.ID == id {
			return i
		}
	}
	return -1
}
