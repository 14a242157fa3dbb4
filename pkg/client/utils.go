package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// OnlvEmptyJSON fetches the populated empty ONLV template. The document is
// returned as raw JSON so pkg/onlv can merge into it without losing unknown
// keys.
func (c *Client) OnlvEmptyJSON(ctx context.Context, projectID, boqID string) (json.RawMessage, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project_id", projectID)
	}
	if boqID != "" {
		q.Set("boq_id", boqID)
	}
	var doc json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/utils/onlv-empty-json", q, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Health reports the service health status string ("healthy"/"unhealthy").
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}
