package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Category is the client-side view of a category record.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Color        string    `json:"color"`
	UserID       string    `json:"user_id"`
	ElementCount int64     `json:"element_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CategoryInput carries the fields for category creation.
type CategoryInput struct {
	Name        string  `json:"name"`
	UserID      string  `json:"user_id"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// CategoryUpdate carries the fields for a partial category update.
type CategoryUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// CategoryPage is one page of categories.
type CategoryPage struct {
	Categories      []Category `json:"categories"`
	Count           int        `json:"count"`
	Limit           int        `json:"limit"`
	Offset          int        `json:"offset"`
	TotalCategories int64      `json:"total_categories"`
}

type categoryResponse struct {
	Message  string    `json:"message"`
	Category *Category `json:"category"`
}

// CreateCategory creates a new category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var resp categoryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/categories", nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Category, nil
}

// GetCategory fetches one category by id.
func (c *Client) GetCategory(ctx context.Context, id string) (*Category, error) {
	var category Category
	if err := c.doJSON(ctx, http.MethodGet, "/api/categories/"+url.PathEscape(id), nil, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoriesByUser fetches one page of a user's categories with element counts.
func (c *Client) CategoriesByUser(ctx context.Context, userID string, limit, offset int) (*CategoryPage, error) {
	var page CategoryPage
	path := "/api/categories/user/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListCategories fetches one unfiltered page of categories.
func (c *Client) ListCategories(ctx context.Context, limit, offset int) (*CategoryPage, error) {
	var page CategoryPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/categories", pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateCategory applies a partial update to a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryUpdate) (*Category, error) {
	var resp categoryResponse
	if err := c.doJSON(ctx, http.MethodPut, "/api/categories/"+url.PathEscape(id), nil, in, &resp); err != nil {
		return nil, err
	}
	return resp.Category, nil
}

// DeleteCategory deletes a category; its elements become uncategorized.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(id), nil, nil, nil)
}

// CategoryNameExists reports whether a user already has a category with the
// given name.
func (c *Client) CategoryNameExists(ctx context.Context, name, userID string) (bool, error) {
	q := url.Values{}
	q.Set("user_id", userID)
	var resp struct {
		Exists bool `json:"exists"`
	}
	path := "/api/categories/check-name/" + url.PathEscape(name)
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// CategoryElements fetches one page of the category's elements.
func (c *Client) CategoryElements(ctx context.Context, categoryID string, limit, offset int) (*ElementPage, error) {
	var page ElementPage
	path := "/api/categories/" + url.PathEscape(categoryID) + "/elements"
	if err := c.doJSON(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CategoryElementCount returns the element count for one category.
func (c *Client) CategoryElementCount(ctx context.Context, categoryID string) (int64, error) {
	var resp struct {
		TotalElements int64 `json:"total_elements"`
	}
	path := "/api/categories/" + url.PathEscape(categoryID) + "/elements/count"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.TotalElements, nil
}
