package modrinth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mmm/internal/domain"
	"mmm/internal/source"
)

// Modrinth implements the source.Source interface against api.modrinth.com.
type Modrinth struct {
	client *Client
}

// New creates a new Modrinth source
func New(httpClient *http.Client) *Modrinth {
	return &Modrinth{client: NewClient(httpClient)}
}

// Platform returns the platform identifier
func (m *Modrinth) Platform() domain.Platform {
	return domain.PlatformModrinth
}

// Search finds mods matching the query. The project type is always
// constrained to "mod"; game version and loader facets are added when the
// query asks for compatibility filtering.
func (m *Modrinth) Search(ctx context.Context, query source.SearchQuery) ([]domain.ModInfo, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	facets := [][]string{{"project_type:mod"}}
	if query.FilterByVer {
		if query.GameVersion != "" {
			facets = append(facets, []string{"versions:" + query.GameVersion})
		}
		facets = append(facets, []string{"categories:" + query.Loader.String()})
	}

	params := url.Values{}
	params.Set("query", query.Query)
	params.Set("facets", encodeFacets(facets))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(query.Offset))
	params.Set("index", "relevance")

	var resp searchResponse
	if err := m.client.doRequest(ctx, "/search", params, &resp); err != nil {
		return nil, err
	}

	mods := make([]domain.ModInfo, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		mods = append(mods, domain.ModInfo{
			ID:        hit.ProjectID,
			Platform:  domain.PlatformModrinth,
			Name:      hit.Title,
			Summary:   hit.Summary,
			Authors:   []string{hit.Author},
			IconURL:   hit.IconURL,
			Downloads: hit.Downloads,
			PageURL:   "https://modrinth.com/mod/" + hit.Slug,
		})
	}
	return mods, nil
}

// GetMod retrieves details for one project
func (m *Modrinth) GetMod(ctx context.Context, modID string) (*domain.ModInfo, error) {
	var proj project
	if err := m.client.doRequest(ctx, "/project/"+url.PathEscape(modID), nil, &proj); err != nil {
		return nil, err
	}

	// Authors come from the team members endpoint; a failure there is not
	// worth failing the whole lookup over.
	var authors []string
	var members []member
	if err := m.client.doRequest(ctx, "/project/"+url.PathEscape(modID)+"/members", nil, &members); err == nil {
		for _, mem := range members {
			if mem.User.Username != "" {
				authors = append(authors, mem.User.Username)
			}
		}
	}

	return &domain.ModInfo{
		ID:        proj.ID,
		Platform:  domain.PlatformModrinth,
		Name:      proj.Title,
		Summary:   proj.Summary,
		Authors:   authors,
		IconURL:   proj.IconURL,
		Downloads: proj.Downloads,
		PageURL:   "https://modrinth.com/mod/" + proj.Slug,
	}, nil
}

// GetVersions lists every published version of a project, normalized.
// Versions with no files are skipped; the primary file wins when a
// version ships several.
func (m *Modrinth) GetVersions(ctx context.Context, modID string) ([]domain.RemoteVersion, error) {
	var raw []version
	if err := m.client.doRequest(ctx, "/project/"+url.PathEscape(modID)+"/version", nil, &raw); err != nil {
		return nil, err
	}

	versions := make([]domain.RemoteVersion, 0, len(raw))
	for _, v := range raw {
		file, ok := primaryFile(v.Files)
		if !ok {
			continue
		}
		name := v.VersionNumber
		if name == "" {
			name = v.Name
		}
		versions = append(versions, domain.RemoteVersion{
			ID:          v.ID,
			Name:        name,
			FileName:    file.Filename,
			DownloadURL: file.URL,
			ReleaseType: domain.ParseReleaseType(v.VersionType),
			Loaders:     v.Loaders,
			McVersions:  v.GameVersions,
			PublishedAt: v.DatePublished,
		})
	}
	return versions, nil
}

func primaryFile(files []versionFile) (versionFile, bool) {
	for _, f := range files {
		if f.Primary {
			return f, true
		}
	}
	if len(files) > 0 {
		return files[0], true
	}
	return versionFile{}, false
}

// encodeFacets renders the facets parameter as the JSON array-of-arrays
// the search endpoint expects.
func encodeFacets(facets [][]string) string {
	groups := make([]string, 0, len(facets))
	for _, group := range facets {
		quoted := make([]string, 0, len(group))
		for _, f := range group {
			quoted = append(quoted, fmt.Sprintf("%q", f))
		}
		groups = append(groups, "["+strings.Join(quoted, ",")+"]")
	}
	return "[" + strings.Join(groups, ",") + "]"
}
