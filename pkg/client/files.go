package client

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"
)

// File is the client-side view of a file metadata record.
type File struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	MimeType  *string   `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	ProjectID *string   `json:"project_id"`
	BoqID     *string   `json:"boq_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FilePage is one page of file records.
type FilePage struct {
	Files      []File `json:"files"`
	Count      int    `json:"count"`
	Limit      int    `json:"limit"`
	Offset     int    `json:"offset"`
	TotalFiles int64  `json:"total_files"`
}

type fileResponse struct {
	Message string `json:"message"`
	File    *File  `json:"file"`
}

// UploadFile streams one file to the upload endpoint and returns the
// recorded metadata. The server hands the bytes to external storage.
func (c *Client) UploadFile(ctx context.Context, projectID, boqID, filename string, content io.Reader) (*File, error) {
	fields := map[string]string{
		"project_id": projectID,
	}
	if boqID != "" {
		fields["boq_id"] = boqID
	}
	var resp fileResponse
	if err := c.doMultipart(ctx, "/api/files/upload", nil, filename, content, fields, &resp); err != nil {
		return nil, err
	}
	return resp.File, nil
}

// GetFile fetches one file record by id.
func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	var file File
	if err := c.doJSON(ctx, http.MethodGet, "/api/files/"+url.PathEscape(id), nil, nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// FilesByProject fetches one page of a project's file records.
func (c *Client) FilesByProject(ctx context.Context, projectID string, includeInactive bool, limit, offset int) (*FilePage, error) {
	q := pageQuery(limit, offset)
	if includeInactive {
		q.Set("include_inactive", "true")
	}
	var page FilePage
	path := "/api/files/project/" + url.PathEscape(projectID)
	if err := c.doJSON(ctx, http.MethodGet, path, q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DeactivateFile marks one file record inactive.
func (c *Client) DeactivateFile(ctx context.Context, id string) error {
	path := "/api/files/" + url.PathEscape(id) + "/deactivate"
	return c.doJSON(ctx, http.MethodPost, path, nil, nil, nil)
}

// BulkDeactivateFiles deactivates many file records; each id succeeds or
// fails alone.
func (c *Client) BulkDeactivateFiles(ctx context.Context, fileIDs []string) (int64, []string, error) {
	body := map[string]any{"file_ids": fileIDs}
	var resp struct {
		DeactivatedCount int64    `json:"deactivated_count"`
		Errors           []string `json:"errors"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/files/bulk-deactivate", nil, body, &resp); err != nil {
		return 0, nil, err
	}
	return resp.DeactivatedCount, resp.Errors, nil
}

// DeleteFile deletes one file record.
func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil, nil, nil)
}
