package modrinth

import "time"

type searchResponse struct {
	Hits      []searchHit `json:"hits"`
	TotalHits int         `json:"total_hits"`
}

type searchHit struct {
	ProjectID string   `json:"project_id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Summary   string   `json:"description"`
	Author    string   `json:"author"`
	IconURL   string   `json:"icon_url"`
	Downloads int64    `json:"downloads"`
	Versions  []string `json:"versions"`
}

type project struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Summary   string `json:"description"`
	IconURL   string `json:"icon_url"`
	Downloads int64  `json:"downloads"`
}

type version struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	VersionNumber string        `json:"version_number"`
	VersionType   string        `json:"version_type"` // release, beta, alpha
	GameVersions  []string      `json:"game_versions"`
	Loaders       []string      `json:"loaders"`
	DatePublished time.Time     `json:"date_published"`
	Files         []versionFile `json:"files"`
}

type versionFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
}

type member struct {
	User struct {
		Username string `json:"username"`
	} `json:"user"`
	Role string `json:"role"`
}
