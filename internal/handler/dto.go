package handler

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string           `json:"session_id"`
	Answer    string           `json:"answer"`
	Route     string           `json:"route"`
	Sources   []SourceResponse `json:"sources"`
}

type SourceResponse struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

type ReportResponse struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	PublishedAt string `json:"published_at"`
}

type ReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type IngestResponse struct {
	FeedsFetched int `json:"feeds_fetched"`
	FeedsFailed  int `json:"feeds_failed"`
	Articles     int `json:"articles"`
	Saved        int `json:"saved"`
	Duplicated   int `json:"duplicated"`
	Errors       int `json:"errors"`
}
