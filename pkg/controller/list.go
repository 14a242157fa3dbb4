// list.go
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
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/localnerve/elementdb/pkg/client"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultPageLimit = 20

// Filter selects which slice of the element list to show. The zero value is
// the unfiltered list.
type Filter struct {
	Type       string
	UserID     string
	CategoryID string
	SortBy     string // name, type, created_at, updated_at
	SortOrder  string // asc or desc
}

// ElementList is the list/filter/pagination state machine for elements.
// Every re-fetch funnels through the refresh counter, and each fetch carries
// a sequence token so only the latest request's response is applied
// (last-request-wins).
type ElementList struct {
	api *client.Client
	log *zap.SugaredLogger

	fetchSeq atomic.Uint64

	mu       sync.Mutex
	filter   Filter
	page     int
	limit    int
	total    int64
	items    []client.Element
	refreshN uint64
	lastErr  error
}

// NewElementList creates a controller with the given page size.
func NewElementList(api *client.Client, limit int, log *zap.SugaredLogger) *ElementList {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ElementList{
		api:   api,
		log:   log,
		page:  1,
		limit: limit,
	}
}

// Items returns a copy of the current page's rows.
func (l *ElementList) Items() []client.Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]client.Element, len(l.items))
	copy(items, l.items)
	return items
}

// Page returns the current 1-based page number.
func (l *ElementList) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Total returns the server-side total for the active filter scope.
func (l *ElementList) Total() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// TotalPages is ceil(total/limit); at least 1 so an empty list still has a
// current page.
func (l *ElementList) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalPagesLocked()
}

func (l *ElementList) totalPagesLocked() int {
	pages := int((l.total + int64(l.limit) - 1) / int64(l.limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// RefreshCount returns the monotonic refresh counter.
func (l *ElementList) RefreshCount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshN
}

// Err returns the error of the most recently applied refresh, if any.
func (l *ElementList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// SetFilter replaces the filter, resets to page 1, and refreshes.
func (l *ElementList) SetFilter(ctx context.Context, f Filter) error {
	l.mu.Lock()
	l.filter = f
	l.page = 1
	l.mu.Unlock()
	return l.Refresh(ctx)
}

// SetPage navigates to page. Pages outside [1, TotalPages()] are a no-op
// leaving state unchanged.
func (l *ElementList) SetPage(ctx context.Context, page int) error {
	l.mu.Lock()
	if page < 1 || page > l.totalPagesLocked() || page == l.page {
		l.mu.Unlock()
		return nil
	}
	l.page = page
	l.mu.Unlock()
	return l.Refresh(ctx)
}

// Refresh issues exactly one list fetch for the active filter, fans out the
// per-row regulation-count fetches, and applies the result unless a newer
// refresh has started since (the stale response is discarded).
func (l *ElementList) Refresh(ctx context.Context) error {
	token := l.fetchSeq.Add(1)

	l.mu.Lock()
	filter := l.filter
	page := l.page
	limit := l.limit
	l.refreshN++
	l.mu.Unlock()

	pageData, err := l.fetchPage(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		l.applyError(token, err)
		return err
	}

	items := pageData.Elements
	l.attachCounts(ctx, items)
	sortElements(items, filter.SortBy, filter.SortOrder)

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.fetchSeq.Load() {
		l.log.Debugw("discarding stale list response", "token", token)
		return nil
	}
	l.items = items
	l.total = pageData.Total()
	l.lastErr = nil
	return nil
}

func (l *ElementList) applyError(token uint64, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.fetchSeq.Load() {
		return
	}
	l.lastErr = err
}

// fetchPage picks the single most specific endpoint for the filter:
// category > user+type > user > type > unfiltered.
func (l *ElementList) fetchPage(ctx context.Context, f Filter, offset, limit int) (*client.ElementPage, error) {
	switch {
	case f.CategoryID != "":
		return l.api.ElementsByCategory(ctx, f.CategoryID, limit, offset)
	case f.UserID != "" && f.Type != "":
		return l.api.ElementsByUserAndType(ctx, f.UserID, f.Type, limit, offset)
	case f.UserID != "":
		return l.api.ElementsByUser(ctx, f.UserID, limit, offset)
	case f.Type != "":
		return l.api.ElementsByType(ctx, f.Type, limit, offset)
	default:
		return l.api.ListElements(ctx, limit, offset)
	}
}

// attachCounts fans out one regulation-count fetch per row. An individual
// failure defaults that row's count to 0 and never fails the page.
func (l *ElementList) attachCounts(ctx context.Context, items []client.Element) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		i := i
		g.Go(func() error {
			count, err := l.api.ElementLinkCount(gctx, items[i].ID)
			if err != nil {
				l.log.Debugw("count fetch failed", "element_id", items[i].ID, "error", err)
				items[i].RegulationCount = 0
				return nil
			}
			items[i].RegulationCount = count
			return nil
		})
	}
	_ = g.Wait()
}

// UnlinkRegulation deletes the link by composite key and decrements the
// row's locally-held regulation count, floored at 0, without re-fetching.
func (l *ElementList) UnlinkRegulation(ctx context.Context, elementID string, regulationID int64) error {
	if err := l.api.DeleteLinkByPair(ctx, elementID, regulationID); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == elementID {
			if l.items[i].RegulationCount > 0 {
				l.items[i].RegulationCount--
			}
			break
		}
	}
	return nil
}

// BulkDeleteResult reports a bulk delete: successes are removed from local
// state even when other deletions failed.
type BulkDeleteResult struct {
	DeletedCount int
	Errors       []string
}

// BulkDelete deletes elements one by one; each id succeeds or fails alone.
// Successful deletions leave local state immediately; failures are
// aggregated, never rolled back.
func (l *ElementList) BulkDelete(ctx context.Context, ids []string) *BulkDeleteResult {
	result := &BulkDeleteResult{}
	deleted := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := l.api.DeleteElement(ctx, id); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		deleted[id] = true
		result.DeletedCount++
	}

	l.mu.Lock()
	kept := l.items[:0]
	for _, item := range l.items {
		if !deleted[item.ID] {
			kept = append(kept, item)
		}
	}
	l.items = kept
	if l.total >= int64(result.DeletedCount) {
		l.total -= int64(result.DeletedCount)
	} else {
		l.total = 0
	}
	l.mu.Unlock()
	return result
}

// sortElements sorts in place by one field. Dates are coerced to timestamps
// before comparison and strings compare case-insensitively; "desc" flips the
// comparator. Tie order is unspecified.
func sortElements(items []client.Element, sortBy, sortOrder string) {
	if sortBy == "" {
		return
	}
	desc := strings.EqualFold(sortOrder, "desc")
	sort.Slice(items, func(i, j int) bool {
		if desc {
			i, j = j, i
		}
		return elementLess(&items[i], &items[j], sortBy)
	})
}

func elementLess(a, b *client.Element, sortBy string) bool {
	switch sortBy {
	case "created_at":
		return a.CreatedAt.Before(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Before(b.UpdatedAt)
	case "type":
		return strings.ToLower(a.Type) < strings.ToLower(b.Type)
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

// CategoryList is the list controller for categories: user-scoped paging
// with a per-row element-count fan-out.
type CategoryList struct {
	api *client.Client
	log *zap.SugaredLogger

	fetchSeq atomic.Uint64

	mu       sync.Mutex
	userID   string
	page     int
	limit    int
	total    int64
	items    []client.Category
	refreshN uint64
	lastErr  error
}

// NewCategoryList creates a controller scoped to one user.
func NewCategoryList(api *client.Client, userID string, limit int, log *zap.SugaredLogger) *CategoryList {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CategoryList{
		api:    api,
		log:    log,
		userID: userID,
		page:   1,
		limit:  limit,
	}
}

// Items returns a copy of the current page's rows.
func (l *CategoryList) Items() []client.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]client.Category, len(l.items))
	copy(items, l.items)
	return items
}

// Page returns the current 1-based page number.
func (l *CategoryList) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// TotalPages is ceil(total/limit), at least 1.
func (l *CategoryList) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	pages := int((l.total + int64(l.limit) - 1) / int64(l.limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Err returns the error of the most recently applied refresh, if any.
func (l *CategoryList) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// SetPage navigates to page; out-of-range pages are a no-op.
func (l *CategoryList) SetPage(ctx context.Context, page int) error {
	l.mu.Lock()
	pages := int((l.total + int64(l.limit) - 1) / int64(l.limit))
	if pages < 1 {
		pages = 1
	}
	if page < 1 || page > pages || page == l.page {
		l.mu.Unlock()
		return nil
	}
	l.page = page
	l.mu.Unlock()
	return l.Refresh(ctx)
}

// Refresh fetches the user's category page and fans out per-row element
// counts; an individual count failure defaults to 0. Stale responses are
// discarded via the sequence token.
func (l *CategoryList) Refresh(ctx context.Context) error {
	token := l.fetchSeq.Add(1)

	l.mu.Lock()
	userID := l.userID
	offset := (l.page - 1) * l.limit
	limit := l.limit
	l.refreshN++
	l.mu.Unlock()

	page, err := l.api.CategoriesByUser(ctx, userID, limit, offset)
	if err != nil {
		l.mu.Lock()
		if token == l.fetchSeq.Load() {
			l.lastErr = err
		}
		l.mu.Unlock()
		return err
	}

	items := page.Categories
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		i := i
		g.Go(func() error {
			count, err := l.api.CategoryElementCount(gctx, items[i].ID)
			if err != nil {
				l.log.Debugw("count fetch failed", "category_id", items[i].ID, "error", err)
				items[i].ElementCount = 0
				return nil
			}
			items[i].ElementCount = count
			return nil
		})
	}
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.fetchSeq.Load() {
		l.log.Debugw("discarding stale list response", "token", token)
		return nil
	}
	l.items = items
	l.total = page.TotalCategories
	l.lastErr = nil
	return nil
}
