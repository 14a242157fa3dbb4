package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Link is one element-regulation join row.
type Link struct {
	ID           string    `json:"id"`
	ElementID    string    `json:"element_id"`
	RegulationID int64     `json:"regulation_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// LinkedRegulation pairs a link with its regulation.
type LinkedRegulation struct {
	Link       Link       `json:"link"`
	Regulation Regulation `json:"regulation"`
}

// LinkedElement pairs a link with its element.
type LinkedElement struct {
	Link    Link    `json:"link"`
	Element Element `json:"element"`
}

// BulkLinkResult reports a multi-link create: each id succeeds or fails on
// its own.
type BulkLinkResult struct {
	Links          []Link   `json:"links"`
	CreatedCount   int      `json:"created_count"`
	RequestedCount int      `json:"requested_count"`
	Errors         []string `json:"errors"`
}

// ElementWithLinks reports the two-phase create-element-with-regulations
// outcome. Warning is non-empty when the element was created but some or all
// links failed.
type ElementWithLinks struct {
	Element         *Element `json:"element"`
	RegulationLinks []Link   `json:"regulation_links"`
	Warning         string   `json:"warning"`
}

// LinkCount pairs an id with how many links reference it.
type LinkCount struct {
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// CreateLink links one element to one regulation. A duplicate pair yields an
// *APIError with status 409.
func (c *Client) CreateLink(ctx context.Context, elementID string, regulationID int64) (*Link, error) {
	body := map[string]any{
		"element_id":    elementID,
		"regulation_id": regulationID,
	}
	var resp struct {
		Link *Link `json:"link"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/element-regulations", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Link, nil
}

// CreateLinks links one element to many regulations in a single batched call.
func (c *Client) CreateLinks(ctx context.Context, elementID string, regulationIDs []int64) (*BulkLinkResult, error) {
	body := map[string]any{
		"element_id":     elementID,
		"regulation_ids": regulationIDs,
	}
	var result BulkLinkResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/element-regulations/multiple", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateElementWithRegulations creates an element and links the given
// regulation ids in one request. The element survives a link failure; the
// response Warning carries the partial outcome.
func (c *Client) CreateElementWithRegulations(ctx context.Context, element ElementInput, regulationIDs []int64) (*ElementWithLinks, error) {
	body := map[string]any{
		"element":        element,
		"regulation_ids": regulationIDs,
	}
	var result ElementWithLinks
	path := "/api/element-regulations/create-element-with-regulations"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ElementRegulations fetches the regulations linked to one element.
func (c *Client) ElementRegulations(ctx context.Context, elementID string) ([]LinkedRegulation, error) {
	var resp struct {
		Regulations []LinkedRegulation `json:"regulations"`
	}
	path := "/api/element-regulations/element/" + url.PathEscape(elementID) + "/regulations"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regulations, nil
}

// RegulationElements fetches the elements linked to one regulation.
func (c *Client) RegulationElements(ctx context.Context, regulationID int64) ([]LinkedElement, error) {
	var resp struct {
		Elements []LinkedElement `json:"elements"`
	}
	path := fmt.Sprintf("/api/element-regulations/regulation/%d/elements", regulationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Elements, nil
}

// LinkExists reports whether the (element, regulation) pair is linked.
func (c *Client) LinkExists(ctx context.Context, elementID string, regulationID int64) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	path := fmt.Sprintf("/api/element-regulations/check-exists/%s/%d", url.PathEscape(elementID), regulationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// DeleteLink deletes one link by its id.
func (c *Client) DeleteLink(ctx context.Context, linkID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/element-regulations/"+url.PathEscape(linkID), nil, nil, nil)
}

// DeleteLinkByPair deletes one link by its composite key. This is the
// dominant unlink path.
func (c *Client) DeleteLinkByPair(ctx context.Context, elementID string, regulationID int64) error {
	path := fmt.Sprintf("/api/element-regulations/element/%s/regulation/%d", url.PathEscape(elementID), regulationID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

// DeleteElementLinks deletes all links for one element.
func (c *Client) DeleteElementLinks(ctx context.Context, elementID string) (int64, error) {
	var resp struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	path := "/api/element-regulations/element/" + url.PathEscape(elementID) + "/all"
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// DeleteLinks unlinks many regulations from one element; each pair succeeds
// or fails alone.
func (c *Client) DeleteLinks(ctx context.Context, elementID string, regulationIDs []int64) (int64, []string, error) {
	body := map[string]any{
		"regulation_ids": regulationIDs,
	}
	var resp struct {
		DeletedCount int64    `json:"deleted_count"`
		Errors       []string `json:"errors"`
	}
	path := "/api/element-regulations/element/" + url.PathEscape(elementID) + "/multiple"
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, body, &resp); err != nil {
		return 0, nil, err
	}
	return resp.DeletedCount, resp.Errors, nil
}

// ElementLinkCount returns how many regulations one element is linked to.
func (c *Client) ElementLinkCount(ctx context.Context, elementID string) (int64, error) {
	var resp struct {
		RegulationCount int64 `json:"regulation_count"`
	}
	path := "/api/element-regulations/stats/element/" + url.PathEscape(elementID) + "/count"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.RegulationCount, nil
}
