package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Regulation is the client-side view of a standardized tariff position.
type Regulation struct {
	ID             int64   `json:"id"`
	EntityType     string  `json:"entity_type"`
	LgNr           *string `json:"lg_nr"`
	UlgNr          *string `json:"ulg_nr"`
	GrundtextNr    *string `json:"grundtext_nr"`
	PositionNr     *string `json:"position_nr"`
	FullNr         *string `json:"full_nr"`
	ShortText      *string `json:"short_text"`
	SearchableText string  `json:"searchable_text"`
}

// RegulationNumberParts are the hierarchical components of a parsed tariff
// number.
type RegulationNumberParts struct {
	LgNr        *string `json:"lg_nr"`
	UlgNr       *string `json:"ulg_nr"`
	GrundtextNr *string `json:"grundtext_nr"`
	PositionNr  *string `json:"position_nr"`
}

// UnifiedSearchResult is the outcome of a unified regulation search.
// ParsedComponents is only present for number searches.
type UnifiedSearchResult struct {
	Query            string                 `json:"query"`
	SearchType       string                 `json:"search_type"`
	Results          []Regulation           `json:"results"`
	TotalResults     int                    `json:"total_results"`
	ParsedComponents *RegulationNumberParts `json:"parsed_components"`
}

// GetRegulation fetches one regulation by id.
func (c *Client) GetRegulation(ctx context.Context, id int64) (*Regulation, error) {
	var regulation Regulation
	path := "/api/regulations/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &regulation); err != nil {
		return nil, err
	}
	return &regulation, nil
}

// RegulationsByType fetches regulations of one entity type.
func (c *Client) RegulationsByType(ctx context.Context, entityType string, limit int) ([]Regulation, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var resp struct {
		Regulations []Regulation `json:"regulations"`
	}
	path := "/api/regulations/by-type/" + url.PathEscape(entityType)
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regulations, nil
}

// RegulationsByNumber resolves a tariff number to its regulation rows.
func (c *Client) RegulationsByNumber(ctx context.Context, regulationNr string) ([]Regulation, error) {
	var resp struct {
		Regulations []Regulation `json:"regulations"`
	}
	path := "/api/regulations/by-number/" + url.PathEscape(regulationNr)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regulations, nil
}

// SearchRegulationsUnified runs the server's number-or-text unified search.
// A query with no matches yields an *APIError with status 404.
func (c *Client) SearchRegulationsUnified(ctx context.Context, query string, limit int) (*UnifiedSearchResult, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var result UnifiedSearchResult
	path := "/api/regulations/search-unified/" + url.PathEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchRegulations runs a free-text regulation search.
func (c *Client) SearchRegulations(ctx context.Context, query string, limit int) ([]Regulation, error) {
	body := map[string]any{"query": query}
	if limit > 0 {
		body["limit"] = limit
	}
	var resp struct {
		Results []Regulation `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/regulations/search", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ListRegulations fetches up to limit regulations.
func (c *Client) ListRegulations(ctx context.Context, limit int) ([]Regulation, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var resp struct {
		Regulations []Regulation `json:"regulations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/regulations", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Regulations, nil
}
