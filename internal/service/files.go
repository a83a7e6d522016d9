package service

import (
	"context"

	"github.com/railscope/railscope/internal/api"
)

// Files reads the ingested CSV inventory and its rows.
type Files struct {
	api api.Requester
}

// List returns file names from the database, falling back to S3 server side.
func (s *Files) List(ctx context.Context) (*FileListResponse, error) {
	var resp FileListResponse
	if err := s.api.Get(ctx, "/files", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Database lists ingested files. An empty division lists every division the
// session may see.
func (s *Files) Database(ctx context.Context, division string) (*DatabaseFilesResponse, error) {
	var resp DatabaseFilesResponse
	if err := s.api.Get(ctx, "/database-files", api.Params{"division": division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Content reads a file straight from object storage.
func (s *Files) Content(ctx context.Context, filename string) (*FileContentResponse, error) {
	var resp FileContentResponse
	if err := s.api.Get(ctx, "/file-content", api.Params{"filename": filename}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseContent pages through the stored rows of one file. Nil page and
// perPage leave paging to the backend defaults.
func (s *Files) DatabaseContent(ctx context.Context, fileID int64, page, perPage *int) (*DatabaseFileContentResponse, error) {
	params := api.Params{
		"file_id":  fileID,
		"page":     page,
		"per_page": perPage,
	}
	var resp DatabaseFileContentResponse
	if err := s.api.Get(ctx, "/database-file-content", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Combined summarises files across divisions, a comma separated list.
func (s *Files) Combined(ctx context.Context, divisions string) (*CombinedFilesResponse, error) {
	var resp CombinedFilesResponse
	if err := s.api.Get(ctx, "/combined-files", api.Params{"divisions": divisions}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CombinedContent returns rows from several files; fileIDs is comma separated.
func (s *Files) CombinedContent(ctx context.Context, fileIDs string) (*CombinedFileContentResponse, error) {
	var resp CombinedFileContentResponse
	if err := s.api.Get(ctx, "/combined-file-content", api.Params{"file_ids": fileIDs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
