package curseforge

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"mmm/internal/domain"
	"mmm/internal/source"
)

const (
	minecraftGameID = 432
	modsClassID     = 6
)

// modLoaderType values from the CurseForge API.
var loaderTypes = map[domain.Loader]int{
	domain.LoaderForge:    1,
	domain.LoaderFabric:   4,
	domain.LoaderQuilt:    5,
	domain.LoaderNeoforge: 6,
}

// CurseForge implements the source.Source interface through a key-holding
// relay.
type CurseForge struct {
	client *Client
}

// New creates a new CurseForge source using the given relay base URL
func New(httpClient *http.Client, baseURL string) *CurseForge {
	return &CurseForge{client: NewClient(httpClient, baseURL)}
}

// Platform returns the platform identifier
func (c *CurseForge) Platform() domain.Platform {
	return domain.PlatformCurseforge
}

// Search finds Minecraft mods matching the query
func (c *CurseForge) Search(ctx context.Context, query source.SearchQuery) ([]domain.ModInfo, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("gameId", strconv.Itoa(minecraftGameID))
	params.Set("classId", strconv.Itoa(modsClassID))
	params.Set("searchFilter", query.Query)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Set("index", strconv.Itoa(query.Offset))
	params.Set("sortField", "2") // popularity
	params.Set("sortOrder", "desc")
	if query.FilterByVer {
		if query.GameVersion != "" {
			params.Set("gameVersion", query.GameVersion)
		}
		if lt, ok := loaderTypes[query.Loader]; ok {
			params.Set("modLoaderType", strconv.Itoa(lt))
		}
	}

	var resp searchResponse
	if err := c.client.doRequest(ctx, "/mods/search", params, &resp); err != nil {
		return nil, err
	}

	mods := make([]domain.ModInfo, 0, len(resp.Data))
	for _, m := range resp.Data {
		mods = append(mods, toModInfo(m))
	}
	return mods, nil
}

// GetMod retrieves details for one mod
func (c *CurseForge) GetMod(ctx context.Context, modID string) (*domain.ModInfo, error) {
	var resp modResponse
	if err := c.client.doRequest(ctx, "/mods/"+url.PathEscape(modID), nil, &resp); err != nil {
		return nil, err
	}
	info := toModInfo(resp.Data)
	return &info, nil
}

// GetVersions lists a mod's files, normalized. Files the author withheld
// from third-party distribution come back with no download URL and are
// skipped.
func (c *CurseForge) GetVersions(ctx context.Context, modID string) ([]domain.RemoteVersion, error) {
	params := url.Values{}
	params.Set("pageSize", "50")

	var resp filesResponse
	if err := c.client.doRequest(ctx, "/mods/"+url.PathEscape(modID)+"/files", params, &resp); err != nil {
		return nil, err
	}

	versions := make([]domain.RemoteVersion, 0, len(resp.Data))
	for _, f := range resp.Data {
		if f.DownloadURL == "" {
			continue
		}
		loaders, mcVersions := splitGameVersions(f.GameVersions)
		versions = append(versions, domain.RemoteVersion{
			ID:          strconv.Itoa(f.ID),
			Name:        f.DisplayName,
			FileName:    f.FileName,
			DownloadURL: f.DownloadURL,
			ReleaseType: parseReleaseType(f.ReleaseType),
			Loaders:     loaders,
			McVersions:  mcVersions,
			PublishedAt: f.FileDate,
		})
	}
	return versions, nil
}

func toModInfo(m cfMod) domain.ModInfo {
	authors := make([]string, 0, len(m.Authors))
	for _, a := range m.Authors {
		authors = append(authors, a.Name)
	}
	icon := m.Logo.ThumbnailURL
	if icon == "" {
		icon = m.Logo.URL
	}
	return domain.ModInfo{
		ID:        strconv.Itoa(m.ID),
		Platform:  domain.PlatformCurseforge,
		Name:      m.Name,
		Summary:   m.Summary,
		Authors:   authors,
		IconURL:   icon,
		Downloads: m.DownloadCount,
		PageURL:   m.Links.WebsiteURL,
	}
}

func parseReleaseType(t int) domain.ReleaseType {
	switch t {
	case 1:
		return domain.ReleaseStable
	case 2:
		return domain.ReleaseBeta
	default:
		return domain.ReleaseAlpha
	}
}

// splitGameVersions separates the API's mixed gameVersions list into
// loader names and Minecraft versions.
func splitGameVersions(mixed []string) (loaders, mcVersions []string) {
	known := map[string]bool{
		"forge": true, "fabric": true, "quilt": true, "neoforge": true,
	}
	for _, v := range mixed {
		if known[strings.ToLower(v)] {
			loaders = append(loaders, v)
		} else {
			mcVersions = append(mcVersions, v)
		}
	}
	return loaders, mcVersions
}
