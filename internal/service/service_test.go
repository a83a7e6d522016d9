package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railscope/railscope/internal/api"
)

type call struct {
	method string
	path   string
	query  string
	body   any
	form   *api.Form
}

// recorder is a Requester that records calls and decodes canned JSON.
type recorder struct {
	calls     []call
	responses map[string]string
	err       error
}

var _ api.Requester = (*recorder)(nil)

func newRecorder() *recorder {
	return &recorder{responses: map[string]string{}}
}

func (r *recorder) reply(method, path string, dest any) error {
	if r.err != nil {
		return r.err
	}
	raw, ok := r.responses[method+" "+path]
	if !ok || dest == nil {
		return nil
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (r *recorder) Get(_ context.Context, path string, params api.Params, dest any) error {
	r.calls = append(r.calls, call{method: http.MethodGet, path: path, query: params.Encode()})
	return r.reply(http.MethodGet, path, dest)
}

func (r *recorder) Post(_ context.Context, path string, body any, dest any) error {
	r.calls = append(r.calls, call{method: http.MethodPost, path: path, body: body})
	return r.reply(http.MethodPost, path, dest)
}

func (r *recorder) PostForm(_ context.Context, path string, form *api.Form, dest any) error {
	r.calls = append(r.calls, call{method: http.MethodPost, path: path, form: form})
	return r.reply(http.MethodPost, path, dest)
}

func (r *recorder) Delete(_ context.Context, path string, dest any) error {
	r.calls = append(r.calls, call{method: http.MethodDelete, path: path})
	return r.reply(http.MethodDelete, path, dest)
}

func (r *recorder) BaseURL() string { return "http://rail.local/api" }

func (r *recorder) last(t *testing.T) call {
	t.Helper()
	require.NotEmpty(t, r.calls)
	return r.calls[len(r.calls)-1]
}

func intPtr(v int) *int { return &v }

func TestAuth_LoginOmitsEmptyDivision(t *testing.T) {
	rec := newRecorder()
	rec.responses["POST /login"] = `{"success":true,"username":"ops","is_admin":false,"is_super_admin":false,"division":null}`
	svc := New(rec)

	resp, err := svc.Auth.Login(context.Background(), LoginRequest{Username: "ops", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Division)

	body, err := json.Marshal(rec.last(t).body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"ops","password":"pw"}`, string(body))

	_, err = svc.Auth.Login(context.Background(), LoginRequest{Username: "ops", Password: "pw", Division: "Ajmer"})
	require.NoError(t, err)
	body, _ = json.Marshal(rec.last(t).body)
	assert.JSONEq(t, `{"username":"ops","password":"pw","division":"Ajmer"}`, string(body))
}

func TestAuth_CurrentUserAndLogout(t *testing.T) {
	rec := newRecorder()
	rec.responses["GET /me"] = `{"id":7,"username":"root","is_admin":true,"is_super_admin":true,"division":null,"last_loggedin":"2024-05-01T10:00:00"}`
	svc := New(rec)

	info, err := svc.Auth.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.ID)
	assert.True(t, info.IsSuperAdmin)
	assert.Nil(t, info.Division)
	require.NotNil(t, info.LastLoggedIn)

	require.NoError(t, svc.Auth.Logout(context.Background()))
	last := rec.last(t)
	assert.Equal(t, "/logout", last.path)
	assert.Nil(t, last.body)
}

func TestServices_Endpoints(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()
	svc := New(rec)
	id := int64(12)

	tests := []struct {
		name   string
		invoke func() error
		method string
		path   string
		query  string
	}{
		{"list users", func() error { _, err := svc.Users.List(ctx); return err }, "GET", "/list-users", ""},
		{"detailed users", func() error { _, err := svc.Users.Detailed(ctx); return err }, "GET", "/users", ""},
		{"create user", func() error {
			_, err := svc.Users.Create(ctx, CreateUserRequest{Username: "a", Password: "b"})
			return err
		}, "POST", "/create-user", ""},
		{"delete user", func() error { _, err := svc.Users.Delete(ctx, id); return err }, "DELETE", "/delete-user/12", ""},
		{"list divisions", func() error { _, err := svc.Divisions.List(ctx); return err }, "GET", "/list-divisions", ""},
		{"create division", func() error {
			_, err := svc.Divisions.Create(ctx, CreateDivisionRequest{DivisionName: "Ajmer"})
			return err
		}, "POST", "/create-division", ""},
		{"delete division", func() error { _, err := svc.Divisions.Delete(ctx, 3); return err }, "DELETE", "/delete-division/3", ""},
		{"files", func() error { _, err := svc.Files.List(ctx); return err }, "GET", "/files", ""},
		{"database files all", func() error { _, err := svc.Files.Database(ctx, ""); return err }, "GET", "/database-files", ""},
		{"database files scoped", func() error { _, err := svc.Files.Database(ctx, "Ajmer"); return err }, "GET", "/database-files", "division=Ajmer"},
		{"file content", func() error { _, err := svc.Files.Content(ctx, "a b.csv"); return err }, "GET", "/file-content", "filename=a+b.csv"},
		{"database content default paging", func() error { _, err := svc.Files.DatabaseContent(ctx, 5, nil, nil); return err }, "GET", "/database-file-content", "file_id=5"},
		{"database content page zero", func() error { _, err := svc.Files.DatabaseContent(ctx, 5, intPtr(0), intPtr(50)); return err }, "GET", "/database-file-content", "file_id=5&page=0&per_page=50"},
		{"combined files", func() error { _, err := svc.Files.Combined(ctx, "Ajmer,Jodhpur"); return err }, "GET", "/combined-files", "divisions=Ajmer%2CJodhpur"},
		{"combined content", func() error { _, err := svc.Files.CombinedContent(ctx, "1,2"); return err }, "GET", "/combined-file-content", "file_ids=1%2C2"},
		{"search", func() error {
			_, err := svc.Transcripts.Search(ctx, TranscriptSearch{Keyword: "signal", Page: intPtr(1)})
			return err
		}, "GET", "/transcripts/search", "keyword=signal&page=1"},
		{"kpi", func() error {
			_, err := svc.Transcripts.KPI(ctx, KPIFilter{Division: "Ajmer", Section: ""})
			return err
		}, "GET", "/transcript-kpi", "division=Ajmer"},
		{"violations", func() error {
			_, err := svc.Transcripts.Violations(ctx, ViolationFilter{StartDate: "2024-01-01"})
			return err
		}, "GET", "/violation-analysis", "start_date=2024-01-01"},
		{"dashboard data", func() error { _, err := svc.Dashboard.Data(ctx, DashboardFilter{}); return err }, "GET", "/dashboard-data", ""},
		{"database stats", func() error { _, err := svc.Dashboard.Stats(ctx); return err }, "GET", "/database-stats", ""},
		{"file counts", func() error { _, err := svc.Admin.FileCounts(ctx, FileCountsFilter{EndDate: "2024-02-01"}); return err }, "GET", "/admin/file-counts-summary", "end_date=2024-02-01"},
		{"real time counts", func() error { _, err := svc.Admin.RealTimeCounts(ctx); return err }, "GET", "/admin/real-time-file-counts", ""},
		{"sync", func() error { _, err := svc.Admin.SyncS3(ctx, ""); return err }, "POST", "/sync-s3-to-database", ""},
		{"auto sync start", func() error { _, err := svc.Admin.StartAutoSync(ctx); return err }, "POST", "/auto-sync/start", ""},
		{"auto sync stop", func() error { _, err := svc.Admin.StopAutoSync(ctx); return err }, "POST", "/auto-sync/stop", ""},
		{"auto sync status", func() error { _, err := svc.Admin.AutoSyncStatus(ctx); return err }, "GET", "/auto-sync/status", ""},
		{"initialize", func() error { _, err := svc.Admin.InitializeDatabase(ctx); return err }, "POST", "/initialize-database", ""},
		{"ingestion", func() error { _, err := svc.Admin.IngestionStatus(ctx); return err }, "GET", "/ingestion/status", ""},
		{"history default", func() error { _, err := svc.Upload.History(ctx, nil); return err }, "GET", "/upload-history", ""},
		{"history limit", func() error { _, err := svc.Upload.History(ctx, intPtr(20)); return err }, "GET", "/upload-history", "limit=20"},
		{"dropdown", func() error { _, err := svc.Upload.DropdownData(ctx, "Ajmer"); return err }, "GET", "/new-dropdown-data", "division=Ajmer"},
		{"lp alp data", func() error { _, err := svc.Upload.LpAlpSectionData(ctx, ""); return err }, "GET", "/lp-alp-section-data", ""},
		{"lp alp combos", func() error { _, err := svc.Upload.LpAlpSectionCombinations(ctx, "Jodhpur"); return err }, "GET", "/lp-alp-section-combinations", "division=Jodhpur"},
		{"lp files escaped", func() error { _, err := svc.Upload.LpFiles(ctx, "R. Meena/ALP?", ""); return err }, "GET", "/lp-files/R.%20Meena%2FALP%3F", ""},
		{"keywords", func() error { _, err := svc.Keywords.List(ctx, ""); return err }, "GET", "/keywords", ""},
		{"add keyword", func() error { _, err := svc.Keywords.Add(ctx, AddKeywordRequest{Keyword: "brake"}); return err }, "POST", "/keywords/add", ""},
		{"update keyword", func() error {
			_, err := svc.Keywords.Update(ctx, UpdateKeywordRequest{KeywordID: 1, Keyword: "brake", Category: "safety"})
			return err
		}, "POST", "/keywords/update", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.invoke())
			last := rec.last(t)
			assert.Equal(t, tt.method, last.method)
			assert.Equal(t, tt.path, last.path)
			assert.Equal(t, tt.query, last.query)
		})
	}
}

func TestServices_PropagateErrorsUnchanged(t *testing.T) {
	rec := newRecorder()
	rejection := &api.Error{Status: 403, Detail: "Super admin only"}
	rec.err = rejection
	svc := New(rec)

	_, err := svc.Users.List(context.Background())
	assert.Same(t, rejection, err)
	_, err = svc.Dashboard.Stats(context.Background())
	assert.Equal(t, api.KindRejection, api.Classify(err))
}

func TestRequestBodies(t *testing.T) {
	ctx := context.Background()
	rec := newRecorder()
	svc := New(rec)

	tests := []struct {
		name   string
		invoke func()
		want   string
	}{
		{"sync without division", func() { _, _ = svc.Admin.SyncS3(ctx, "") }, `{}`},
		{"sync with division", func() { _, _ = svc.Admin.SyncS3(ctx, "Ajmer") }, `{"division":"Ajmer"}`},
		{"create division", func() { _, _ = svc.Divisions.Create(ctx, CreateDivisionRequest{DivisionName: "Ajmer"}) }, `{"division_name":"Ajmer"}`},
		{"create user", func() {
			_, _ = svc.Users.Create(ctx, CreateUserRequest{Username: "a", Password: "b", Division: "Ajmer"})
		}, `{"username":"a","password":"b","division":"Ajmer"}`},
		{"inactive keyword keeps flag", func() { _, _ = svc.Keywords.Add(ctx, AddKeywordRequest{Keyword: "horn"}) }, `{"keyword":"horn","is_active":false}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.invoke()
			raw, err := json.Marshal(rec.last(t).body)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestDecodesNestedPayloads(t *testing.T) {
	rec := newRecorder()
	rec.responses["GET /admin/real-time-file-counts"] = `{"total_files":9,"files_today":2,"pending_ingestion":1,"by_division":{"Ajmer":{"total":5,"today":1}}}`
	rec.responses["GET /violation-analysis"] = `{"violation_summary":{"total_violations":3,"by_keyword":{"signal":3},"by_loco_pilot":{}},"detailed_violations":[{"file_name":"a.csv","keyword":"signal","line_number":4,"context":"passed signal"}]}`
	svc := New(rec)

	counts, err := svc.Admin.RealTimeCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DivisionCounts{Total: 5, Today: 1}, counts.ByDivision["Ajmer"])

	violations, err := svc.Transcripts.Violations(context.Background(), ViolationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, violations.Summary.TotalViolations)
	require.Len(t, violations.Detailed, 1)
	assert.Equal(t, 4, violations.Detailed[0].LineNumber)
}

func TestUpload_MetadataFieldOrderAndOmission(t *testing.T) {
	rec := newRecorder()
	svc := New(rec)

	_, err := svc.Upload.AudioWithMetadata(context.Background(),
		AudioFile{Name: "trip.wav", Content: strings.NewReader("x")},
		UploadMetadata{Division: "Ajmer", LocoPilot: "R. Meena", Section: ""},
	)
	require.NoError(t, err)
	last := rec.last(t)
	assert.Equal(t, "/upload-audio-with-metadata", last.path)
	require.NotNil(t, last.form)
	assert.Equal(t, []string{"division", "loco_pilot"}, last.form.FieldNames())
}

func TestUpload_RequiresContent(t *testing.T) {
	rec := newRecorder()
	svc := New(rec)

	_, err := svc.Upload.Audio(context.Background(), AudioFile{Name: "x.wav"}, "Ajmer")
	require.Error(t, err)
	assert.Empty(t, rec.calls)
}

func TestUpload_AudioFileURL(t *testing.T) {
	svc := New(newRecorder())
	id := int64(0)

	assert.Equal(t, "http://rail.local/api/audio-file?file_id=0&filename=trip+1.wav", svc.Upload.AudioFileURL(&id, "trip 1.wav"))
	assert.Equal(t, "http://rail.local/api/audio-file?filename=trip.wav", svc.Upload.AudioFileURL(nil, "trip.wav"))
	assert.Equal(t, "http://rail.local/api/audio-file", svc.Upload.AudioFileURL(nil, ""))
}

func TestUpload_EndToEndMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload-audio" {
			http.NotFound(w, r)
			return
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			_, _ = w.Write([]byte(`{"detail":"expected multipart"}`))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"missing file"}`))
			return
		}
		defer file.Close()
		raw, _ := io.ReadAll(file)
		_ = json.NewEncoder(w).Encode(UploadAudioResponse{
			Success:  true,
			FileName: header.Filename,
			Size:     int64(len(raw)),
			Message:  r.FormValue("division"),
		})
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Options{Origin: server.URL})
	require.NoError(t, err)
	svc := New(client)

	resp, err := svc.Upload.Audio(context.Background(), AudioFile{Name: "trip.wav", Content: strings.NewReader("12345")}, "Jodhpur")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "trip.wav", resp.FileName)
	assert.Equal(t, int64(5), resp.Size)
	assert.Equal(t, "Jodhpur", resp.Message)
}

func TestAuth_TransportErrorSurfaces(t *testing.T) {
	rec := newRecorder()
	rec.err = &api.TransportError{Method: "GET", Path: "/me", Err: errors.New("connection refused")}
	_, err := NewAuth(rec).CurrentUser(context.Background())
	assert.Equal(t, api.KindTransport, api.Classify(err))
}

func TestAuth_CurrentUserRejectsEmptyRecord(t *testing.T) {
	for _, body := range []string{"null", `{}`, `{"id":3,"username":""}`} {
		rec := newRecorder()
		rec.responses["GET /me"] = body
		info, err := NewAuth(rec).CurrentUser(context.Background())
		assert.Nil(t, info, body)
		assert.ErrorIs(t, err, ErrNoUserRecord, body)
		assert.Equal(t, api.KindDecode, api.Classify(err), body)
	}

	// No canned response leaves dest untouched, as a 204 does.
	_, err := NewAuth(newRecorder()).CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrNoUserRecord)
}
