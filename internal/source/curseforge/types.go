package curseforge

import "time"

// Response envelopes: every endpoint wraps its payload in a data field.

type searchResponse struct {
	Data []cfMod `json:"data"`
}

type modResponse struct {
	Data cfMod `json:"data"`
}

type filesResponse struct {
	Data []cfFile `json:"data"`
}

type cfMod struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Summary       string     `json:"summary"`
	DownloadCount int64      `json:"downloadCount"`
	Authors       []cfAuthor `json:"authors"`
	Logo          cfLogo     `json:"logo"`
	Links         cfLinks    `json:"links"`
}

type cfAuthor struct {
	Name string `json:"name"`
}

type cfLogo struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	URL          string `json:"url"`
}

type cfLinks struct {
	WebsiteURL string `json:"websiteUrl"`
}

type cfFile struct {
	ID          int       `json:"id"`
	DisplayName string    `json:"displayName"`
	FileName    string    `json:"fileName"`
	ReleaseType int       `json:"releaseType"` // 1 release, 2 beta, 3 alpha
	FileDate    time.Time `json:"fileDate"`
	DownloadURL string    `json:"downloadUrl"`
	// Mixed list of Minecraft versions and loader names, e.g.
	// ["1.21", "Fabric"].
	GameVersions []string `json:"gameVersions"`
}
