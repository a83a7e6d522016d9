package service

// Field names and nullability follow the backend's JSON contract. Nullable
// strings are pointers; optional request fields are omitted when empty.

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Division string `json:"division,omitempty"`
}

// LoginResponse is returned by POST /login. The session layer does not treat
// it as the canonical user record; /me is fetched afterwards.
type LoginResponse struct {
	Success      bool    `json:"success"`
	Username     string  `json:"username"`
	IsAdmin      bool    `json:"is_admin"`
	IsSuperAdmin bool    `json:"is_super_admin"`
	Division     *string `json:"division"`
}

// UserInfo is the authenticated user record from GET /me.
type UserInfo struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	IsAdmin      bool    `json:"is_admin"`
	IsSuperAdmin bool    `json:"is_super_admin"`
	Division     *string `json:"division"`
	LastLoggedIn *string `json:"last_loggedin"`
}

// SuccessResponse is the generic {success, message} acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Division string `json:"division,omitempty"`
}

type CreateUserResponse struct {
	Success bool   `json:"success"`
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
}

// UserDetail is one row of the user administration listings.
type UserDetail struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	Division         *string `json:"division"`
	IsAdmin          bool    `json:"is_admin"`
	IsSuperAdmin     bool    `json:"is_super_admin"`
	CreatedAt        string  `json:"created_at,omitempty"`
	LastLoggedIn     *string `json:"last_loggedin"`
	OriginalPassword string  `json:"original_password,omitempty"`
}

type UsersListResponse struct {
	Users []UserDetail `json:"users"`
	Total int          `json:"total"`
}

type Division struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type DivisionListResponse struct {
	Divisions []Division `json:"divisions"`
	Total     int        `json:"total"`
}

type CreateDivisionRequest struct {
	DivisionName string `json:"division_name"`
	Description  string `json:"description,omitempty"`
}

type CreateDivisionResponse struct {
	Success    bool   `json:"success"`
	DivisionID int64  `json:"division_id"`
	Message    string `json:"message"`
}

// FileListResponse.Source is one of "database", "s3" or "s3_fallback".
type FileListResponse struct {
	Files  []string `json:"files"`
	Source string   `json:"source"`
}

type DatabaseFile struct {
	ID         int64  `json:"id"`
	FileName   string `json:"file_name"`
	Division   string `json:"division"`
	FileSize   int64  `json:"file_size"`
	UploadedAt string `json:"uploaded_at"`
}

type DatabaseFilesResponse struct {
	Files []DatabaseFile `json:"files"`
	Total int            `json:"total"`
}

type FileContentResponse struct {
	Filename string           `json:"filename"`
	Data     []map[string]any `json:"data"`
}

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

type DatabaseFileContentResponse struct {
	Data       []map[string]any `json:"data"`
	Pagination Pagination       `json:"pagination"`
}

type CombinedFile struct {
	FileName string `json:"file_name"`
	Division string `json:"division"`
	RowCount int    `json:"row_count"`
}

type CombinedFilesResponse struct {
	Files     []CombinedFile `json:"files"`
	TotalRows int            `json:"total_rows"`
}

type CombinedRow struct {
	FileName string         `json:"file_name"`
	RowData  map[string]any `json:"row_data"`
}

type CombinedFileContentResponse struct {
	Data         []CombinedRow `json:"data"`
	TotalRecords int           `json:"total_records"`
}

type TranscriptSearchResult struct {
	ID          int64  `json:"id"`
	FileName    string `json:"file_name"`
	MatchedText string `json:"matched_text"`
	Timestamp   string `json:"timestamp"`
	Division    string `json:"division"`
}

type TranscriptSearchResponse struct {
	Results    []TranscriptSearchResult `json:"results"`
	Total      int                      `json:"total"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"total_pages"`
}

type TranscriptKPIResponse struct {
	TotalFiles            int            `json:"total_files"`
	TotalKeywordsFound    int            `json:"total_keywords_found"`
	BreakdownByKeyword    map[string]int `json:"breakdown_by_keyword"`
	BreakdownByLocoPilot  map[string]int `json:"breakdown_by_loco_pilot"`
	BreakdownBySection    map[string]int `json:"breakdown_by_section"`
	BreakdownByLocoNumber map[string]int `json:"breakdown_by_loco_number"`
}

type ViolationDetail struct {
	FileName   string `json:"file_name"`
	Keyword    string `json:"keyword"`
	LineNumber int    `json:"line_number"`
	Context    string `json:"context"`
}

type ViolationSummary struct {
	TotalViolations int            `json:"total_violations"`
	ByKeyword       map[string]int `json:"by_keyword"`
	ByLocoPilot     map[string]int `json:"by_loco_pilot"`
}

type ViolationAnalysisResponse struct {
	Summary  ViolationSummary  `json:"violation_summary"`
	Detailed []ViolationDetail `json:"detailed_violations"`
}

type ChartsData struct {
	ByDivision          map[string]any `json:"by_division"`
	ByLocoPilot         map[string]any `json:"by_loco_pilot"`
	ByDate              map[string]any `json:"by_date"`
	KeywordDistribution map[string]any `json:"keyword_distribution"`
}

type DashboardDataResponse struct {
	TotalFiles     int        `json:"total_files"`
	TotalRecords   int        `json:"total_records"`
	KeywordsFound  int        `json:"keywords_found"`
	ChartsData     ChartsData `json:"charts_data"`
	TopPerformers  []any      `json:"top_performers"`
	RecentActivity []any      `json:"recent_activity"`
}

type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

type DatabaseStatsResponse struct {
	TotalTranscripts int            `json:"total_transcripts"`
	TotalFiles       int            `json:"total_files"`
	DateRange        DateRange      `json:"date_range"`
	DivisionsCount   int            `json:"divisions_count"`
	ByDivision       map[string]int `json:"by_division"`
}

type FileCountsResponse struct {
	TotalFiles int            `json:"total_files"`
	ByDivision map[string]int `json:"by_division"`
	ByDate     map[string]int `json:"by_date"`
}

type DivisionCounts struct {
	Total int `json:"total"`
	Today int `json:"today"`
}

type RealTimeFileCountsResponse struct {
	TotalFiles       int                       `json:"total_files"`
	FilesToday       int                       `json:"files_today"`
	PendingIngestion int                       `json:"pending_ingestion"`
	ByDivision       map[string]DivisionCounts `json:"by_division"`
}

type SyncRequest struct {
	Division string `json:"division,omitempty"`
}

type SyncResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	FilesSynced int    `json:"files_synced"`
}

type AutoSyncStatusResponse struct {
	IsRunning bool    `json:"is_running"`
	LastSync  *string `json:"last_sync"`
	NextSync  *string `json:"next_sync"`
}

// IngestionStatusResponse.Status is one of "idle", "processing", "completed"
// or "failed".
type IngestionStatusResponse struct {
	Status         string `json:"status"`
	FilesProcessed int    `json:"files_processed"`
	FilesPending   int    `json:"files_pending"`
	LastUpdate     string `json:"last_update"`
}

type UploadAudioResponse struct {
	Success  bool   `json:"success"`
	FileName string `json:"file_name"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

type UploadWithMetadataResponse struct {
	Success  bool              `json:"success"`
	FileName string            `json:"file_name"`
	Metadata map[string]string `json:"metadata"`
	Message  string            `json:"message"`
}

type UploadHistoryItem struct {
	ID         int64  `json:"id"`
	FileName   string `json:"file_name"`
	UploadDate string `json:"upload_date"`
	Division   string `json:"division"`
	Status     string `json:"status"`
}

type UploadHistoryResponse struct {
	Uploads []UploadHistoryItem `json:"uploads"`
	Total   int                 `json:"total"`
}

type DropdownDataResponse struct {
	Divisions    []string `json:"divisions"`
	LocoPilots   []string `json:"loco_pilots"`
	Sections     []string `json:"sections"`
	Designations []string `json:"designations"`
}

type LpAlpSectionDataResponse struct {
	LocoPilots []string `json:"loco_pilots"`
	ALPs       []string `json:"alps"`
	Sections   []string `json:"sections"`
}

type LpAlpSectionCombination struct {
	LocoPilot string `json:"loco_pilot"`
	ALP       string `json:"alp"`
	Section   string `json:"section"`
}

type LpAlpSectionCombinationsResponse struct {
	Combinations []LpAlpSectionCombination `json:"combinations"`
	Total        int                       `json:"total"`
}

type LpFileItem struct {
	FileName     string `json:"file_name"`
	UploadDate   string `json:"upload_date"`
	Division     string `json:"division"`
	RecordsCount int    `json:"records_count"`
}

type LpFilesResponse struct {
	LpName       string       `json:"lp_name"`
	Files        []LpFileItem `json:"files"`
	TotalFiles   int          `json:"total_files"`
	TotalRecords int          `json:"total_records"`
}

type Keyword struct {
	ID        int64  `json:"id"`
	Keyword   string `json:"keyword"`
	Category  string `json:"category"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

type KeywordsResponse struct {
	Keywords []Keyword `json:"keywords"`
	Total    int       `json:"total"`
}

type AddKeywordRequest struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category,omitempty"`
	IsActive bool   `json:"is_active"`
}

type AddKeywordResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	KeywordID int64  `json:"keyword_id"`
}

type UpdateKeywordRequest struct {
	KeywordID int64  `json:"keyword_id"`
	Keyword   string `json:"keyword"`
	Category  string `json:"category"`
	IsActive  bool   `json:"is_active"`
}
