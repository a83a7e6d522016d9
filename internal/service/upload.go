package service

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strconv"

	"github.com/railscope/railscope/internal/api"
)

// AudioFile is a recording to upload. Content is streamed, not buffered.
type AudioFile struct {
	Name    string
	Content io.Reader
}

// UploadMetadata accompanies /upload-audio-with-metadata. Empty fields are
// left out of the form.
type UploadMetadata struct {
	Division    string
	TrainNumber string
	LocoNumber  string
	LocoPilot   string
	ALPName     string
	Section     string
	Designation string
}

func (m UploadMetadata) apply(form *api.Form) {
	form.AddField("division", m.Division).
		AddField("train_number", m.TrainNumber).
		AddField("loco_number", m.LocoNumber).
		AddField("loco_pilot", m.LocoPilot).
		AddField("alp_name", m.ALPName).
		AddField("section", m.Section).
		AddField("designation", m.Designation)
}

var errNoAudio = errors.New("audio file is required")

// Upload is audio ingestion plus the lookup data the upload form needs.
type Upload struct {
	api api.Requester
}

func (s *Upload) Audio(ctx context.Context, file AudioFile, division string) (*UploadAudioResponse, error) {
	if file.Content == nil {
		return nil, errNoAudio
	}
	form := api.NewForm().
		AddFile("file", file.Name, file.Content).
		AddField("division", division)
	var resp UploadAudioResponse
	if err := s.api.PostForm(ctx, "/upload-audio", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Upload) AudioWithMetadata(ctx context.Context, file AudioFile, meta UploadMetadata) (*UploadWithMetadataResponse, error) {
	if file.Content == nil {
		return nil, errNoAudio
	}
	form := api.NewForm().AddFile("file", file.Name, file.Content)
	meta.apply(form)
	var resp UploadWithMetadataResponse
	if err := s.api.PostForm(ctx, "/upload-audio-with-metadata", form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History lists the caller's uploads. A nil limit uses the backend default.
func (s *Upload) History(ctx context.Context, limit *int) (*UploadHistoryResponse, error) {
	var resp UploadHistoryResponse
	if err := s.api.Get(ctx, "/upload-history", api.Params{"limit": limit}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Upload) DropdownData(ctx context.Context, division string) (*DropdownDataResponse, error) {
	var resp DropdownDataResponse
	if err := s.api.Get(ctx, "/new-dropdown-data", api.Params{"division": division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Upload) LpAlpSectionData(ctx context.Context, division string) (*LpAlpSectionDataResponse, error) {
	var resp LpAlpSectionDataResponse
	if err := s.api.Get(ctx, "/lp-alp-section-data", api.Params{"division": division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Upload) LpAlpSectionCombinations(ctx context.Context, division string) (*LpAlpSectionCombinationsResponse, error) {
	var resp LpAlpSectionCombinationsResponse
	if err := s.api.Get(ctx, "/lp-alp-section-combinations", api.Params{"division": division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LpFiles lists files recorded for one loco pilot. The name is escaped as a
// single path segment.
func (s *Upload) LpFiles(ctx context.Context, lpName, division string) (*LpFilesResponse, error) {
	var resp LpFilesResponse
	path := "/lp-files/" + url.PathEscape(lpName)
	if err := s.api.Get(ctx, path, api.Params{"division": division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AudioFileURL builds the playback URL for a stored recording without making
// a request. A nil fileID and an empty filename are omitted.
func (s *Upload) AudioFileURL(fileID *int64, filename string) string {
	values := url.Values{}
	if fileID != nil {
		values.Set("file_id", strconv.FormatInt(*fileID, 10))
	}
	if filename != "" {
		values.Set("filename", filename)
	}
	target := s.api.BaseURL() + "/audio-file"
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
