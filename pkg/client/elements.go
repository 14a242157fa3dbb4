package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Element is the client-side view of an element record.
type Element struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Type            string    `json:"type"`
	Description     *string   `json:"description"`
	UserID          string    `json:"user_id"`
	CategoryID      *string   `json:"category_id"`
	RegulationCount int64     `json:"regulation_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ElementInput carries the fields for element creation.
type ElementInput struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	UserID      string  `json:"user_id"`
	Description *string `json:"description,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// ElementUpdate carries the fields for a partial element update. Nil fields
// are left unchanged.
type ElementUpdate struct {
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// ElementPage is one page of elements. The API names the total differently
// per endpoint; Total() resolves whichever was set.
type ElementPage struct {
	Elements []Element `json:"elements"`
	Count    int       `json:"count"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`

	TotalElements        *int64 `json:"total_elements"`
	TotalElementsForUser *int64 `json:"total_elements_for_user"`
	TotalElementsOfType  *int64 `json:"total_elements_of_type"`
}

// Total returns the server-side total for the page's scope, falling back to
// the page count when the endpoint reports none.
func (p *ElementPage) Total() int64 {
	switch {
	case p.TotalElements != nil:
		return *p.TotalElements
	case p.TotalElementsForUser != nil:
		return *p.TotalElementsForUser
	case p.TotalElementsOfType != nil:
		return *p.TotalElementsOfType
	}
	return int64(p.Count)
}

type elementResponse struct {
	Message string   `json:"message"`
	Element *Element `json:"element"`
}

// CreateElement creates a new element.
func (c *Client) CreateElement(ctx context.Context, in ElementInput) (*Element, error) {
	var resp elementResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/elements", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Element, nil
}

// GetElement fetches one element by id.
func (c *Client) GetElement(ctx context.Context, id string) (*Element, error) {
	var element Element
	if err := c.doJSON(ctx, http.MethodGet, "/api/elements/"+url.PathEscape(id), nil, nil, &element); err != nil {
		return nil, err
	}
	return &element, nil
}

// ListElements fetches one unfiltered page of elements.
func (c *Client) ListElements(ctx context.Context, limit, offset int) (*ElementPage, error) {
	var page ElementPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/elements", pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ElementsByUser fetches one page of a user's elements.
func (c *Client) ElementsByUser(ctx context.Context, userID string, limit, offset int) (*ElementPage, error) {
	var page ElementPage
	path := "/api/elements/user/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ElementsByType fetches one page of elements of the given type.
func (c *Client) ElementsByType(ctx context.Context, elementType string, limit, offset int) (*ElementPage, error) {
	var page ElementPage
	path := "/api/elements/type/" + url.PathEscape(elementType)
	if err := c.doJSON(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ElementsByUserAndType fetches one page of a user's elements of one type.
func (c *Client) ElementsByUserAndType(ctx context.Context, userID, elementType string, limit, offset int) (*ElementPage, error) {
	var page ElementPage
	path := "/api/elements/user/" + url.PathEscape(userID) + "/type/" + url.PathEscape(elementType)
	if err := c.doJSON(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ElementsByCategory fetches one page of a category's elements.
func (c *Client) ElementsByCategory(ctx context.Context, categoryID string, limit, offset int) (*ElementPage, error) {
	var page ElementPage
	path := "/api/elements/category/" + url.PathEscape(categoryID)
	if err := c.doJSON(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchElements searches elements by name, optionally scoped to a user.
func (c *Client) SearchElements(ctx context.Context, term string, userID string, limit, offset int) (*ElementPage, error) {
	q := pageQuery(limit, offset)
	if userID != "" {
		q.Set("user_id", userID)
	}
	var page ElementPage
	path := "/api/elements/search/" + url.PathEscape(term)
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateElement applies a partial update to an element.
func (c *Client) UpdateElement(ctx context.Context, id string, in ElementUpdate) (*Element, error) {
	var resp elementResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/elements/"+url.PathEscape(id), nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Element, nil
}

// DeleteElement deletes an element and its regulation links.
func (c *Client) DeleteElement(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/elements/"+url.PathEscape(id), nil, nil, nil)
}

// DeleteElementsByUser deletes all of a user's elements, returning the count.
func (c *Client) DeleteElementsByUser(ctx context.Context, userID string) (int64, error) {
	var resp struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	path := "/api/elements/user/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// ElementCount returns the total element count.
func (c *Client) ElementCount(ctx context.Context) (int64, error) {
	var resp struct {
		TotalElements int64 `json:"total_elements"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/elements/stats/count", nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.TotalElements, nil
}

// ElementCountByUser returns the element count for one user.
func (c *Client) ElementCountByUser(ctx context.Context, userID string) (int64, error) {
	var resp struct {
		ElementCount int64 `json:"element_count"`
	}
	path := "/api/elements/stats/count/user/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.ElementCount, nil
}

// ElementTypes returns the distinct element types.
func (c *Client) ElementTypes(ctx context.Context) ([]string, error) {
	var resp struct {
		ElementTypes []string `json:"element_types"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/elements/stats/types", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ElementTypes, nil
}

// ElementExists reports whether an element id exists.
func (c *Client) ElementExists(ctx context.Context, id string) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	path := "/api/elements/check-exists/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}
