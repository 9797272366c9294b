package dto

// LeaderboardEntryResponse is one ranked entry of the award ceremony view.
type LeaderboardEntryResponse struct {
	Rank           int    `json:"rank"`
	Timestamp      string `json:"timestamp"`
	Name           string `json:"name"`
	Prompt         string `json:"prompt"`
	ImageBase64    string `json:"image_base64"`
	Creativity     int    `json:"creativity"`
	ThemeRelevance int    `json:"theme_relevance"`
	VisionQuality  int    `json:"vision_quality"`
	TotalScore     int    `json:"total_score"`
	Feedback       string `json:"feedback"`
}

// LeaderboardResponse holds the top entries, best total first.
type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// GalleryEntryResponse is one tile of the gallery grid.
type GalleryEntryResponse struct {
	Timestamp      string `json:"timestamp"`
	Name           string `json:"name"`
	Prompt         string `json:"prompt"`
	ImageBase64    string `json:"image_base64"`
	Creativity     int    `json:"creativity"`
	ThemeRelevance int    `json:"theme_relevance"`
	VisionQuality  int    `json:"vision_quality"`
	TotalScore     int    `json:"total_score"`
	Feedback       string `json:"feedback"`
}

// GalleryRowResponse is one grid row of up to three entries.
type GalleryRowResponse struct {
	Entries []GalleryEntryResponse `json:"entries"`
}

// PaginationMeta describes the gallery page window, counted in grid rows.
type PaginationMeta struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalRows    int `json:"total_rows"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// GalleryPageResponse holds one page of gallery rows, newest entries first.
type GalleryPageResponse struct {
	Rows       []GalleryRowResponse `json:"rows"`
	Pagination PaginationMeta       `json:"pagination"`
}
