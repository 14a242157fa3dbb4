// upload.go
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
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/localnerve/elementdb/pkg/client"
	"go.uber.org/zap"
)

// UploadStatus represents the status of one file in an upload batch
type UploadStatus string

const (
	// UploadStatusPending means the file is queued but not started
	UploadStatusPending UploadStatus = "Pending"

	// UploadStatusUploading means the upload is in progress
	UploadStatusUploading UploadStatus = "Uploading"

	// UploadStatusDone means the upload finished successfully
	UploadStatusDone UploadStatus = "Done"

	// UploadStatusFailed means the upload failed or the file was rejected
	UploadStatusFailed UploadStatus = "Failed"
)

// String returns the string representation of UploadStatus
func (us UploadStatus) String() string {
	return string(us)
}

// IsFinished returns true when the file reached a terminal state
func (us UploadStatus) IsFinished() bool {
	return us == UploadStatusDone || us == UploadStatusFailed
}

// UploadFile is one file handed to the orchestrator.
type UploadFile struct {
	Name    string
	Content io.Reader
}

// UploadState is the per-filename progress entry.
type UploadState struct {
	Status UploadStatus
	Kind   string // pdf or onlv, empty when rejected
	Reason string // failure reason, empty otherwise
	Record *client.File
}

// UploadSummary aggregates a finished batch.
type UploadSummary struct {
	PDFCount  int
	ONLVCount int
	Failures  map[string]string // filename -> reason
}

// Message renders the human-readable batch summary.
func (s *UploadSummary) Message() string {
	var parts []string
	if s.PDFCount > 0 {
		parts = append(parts, fmt.Sprintf("%d PDF file(s) uploaded", s.PDFCount))
	}
	if s.ONLVCount > 0 {
		parts = append(parts, fmt.Sprintf("%d ONLV file(s) uploaded", s.ONLVCount))
	}
	if len(s.Failures) > 0 {
		var failed []string
		for name, reason := range s.Failures {
			failed = append(failed, fmt.Sprintf("%s (%s)", name, reason))
		}
		parts = append(parts, fmt.Sprintf("%d failed: %s", len(s.Failures), strings.Join(failed, ", ")))
	}
	if len(parts) == 0 {
		return "No files uploaded"
	}
	return strings.Join(parts, "; ")
}

// Upload sequences a heterogeneous file batch: classify by extension, reject
// unknown kinds per file, then upload strictly one at a time. Failures are
// reported, never retried, and never abort the batch.
type Upload struct {
	api *client.Client
	log *zap.SugaredLogger

	mu     sync.Mutex
	states map[string]*UploadState
}

// NewUpload creates an upload orchestrator.
func NewUpload(api *client.Client, log *zap.SugaredLogger) *Upload {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Upload{
		api:    api,
		log:    log,
		states: map[string]*UploadState{},
	}
}

// State returns a copy of the progress entry for one filename.
func (u *Upload) State(filename string) (UploadState, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	state, ok := u.states[filename]
	if !ok {
		return UploadState{}, false
	}
	return *state, true
}

// classifyUpload maps a filename extension to a supported kind.
func classifyUpload(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf", nil
	case ".onlv":
		return "onlv", nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// Run uploads the batch sequentially and returns the aggregate summary.
func (u *Upload) Run(ctx context.Context, projectID, boqID string, files []UploadFile) *UploadSummary {
	summary := &UploadSummary{Failures: map[string]string{}}

	u.mu.Lock()
	u.states = make(map[string]*UploadState, len(files))
	for _, f := range files {
		u.states[f.Name] = &UploadState{Status: UploadStatusPending}
	}
	u.mu.Unlock()

	for _, f := range files {
		kind, err := classifyUpload(f.Name)
		if err != nil {
			u.setState(f.Name, func(s *UploadState) {
				s.Status = UploadStatusFailed
				s.Reason = err.Error()
			})
			summary.Failures[f.Name] = err.Error()
			continue
		}

		u.setState(f.Name, func(s *UploadState) {
			s.Status = UploadStatusUploading
			s.Kind = kind
		})

		record, err := u.api.UploadFile(ctx, projectID, boqID, f.Name, f.Content)
		if err != nil {
			u.log.Debugw("upload failed", "filename", f.Name, "error", err)
			u.setState(f.Name, func(s *UploadState) {
				s.Status = UploadStatusFailed
				s.Reason = err.Error()
			})
			summary.Failures[f.Name] = err.Error()
			continue
		}

		u.setState(f.Name, func(s *UploadState) {
			s.Status = UploadStatusDone
			s.Record = record
		})
		switch kind {
		case "pdf":
			summary.PDFCount++
		case "onlv":
			summary.ONLVCount++
		}
	}

	return summary
}

func (u *Upload) setState(filename string, apply func(*UploadState)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	state, ok := u.states[filename]
	if !ok {
		state = &UploadState{}
		u.states[filename] = state
	}
	apply(state)
}
