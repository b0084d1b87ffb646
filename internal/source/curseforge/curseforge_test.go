package curseforge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mmm/internal/domain"
	"mmm/internal/source"
)

func TestCurseForge_ImplementsSource(t *testing.T) {
	var _ source.Source = (*CurseForge)(nil)
}

func TestCurseForge_Platform(t *testing.T) {
	cf := New(nil, "")
	assert.Equal(t, domain.PlatformCurseforge, cf.Platform())
}

func TestCurseForge_Search(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"gameId":        r.URL.Query().Get("gameId"),
			"classId":       r.URL.Query().Get("classId"),
			"searchFilter":  r.URL.Query().Get("searchFilter"),
			"gameVersion":   r.URL.Query().Get("gameVersion"),
			"modLoaderType": r.URL.Query().Get("modLoaderType"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"id": 238222,
					"name": "Just Enough Items (JEI)",
					"summary": "View Items and Recipes",
					"downloadCount": 150000000,
					"authors": [{"name": "mezz"}],
					"logo": {"thumbnailUrl": "https://example.com/jei.png"},
					"links": {"websiteUrl": "https://www.curseforge.com/minecraft/mc-mods/jei"}
				}
			]
		}`))
	}))
	defer server.Close()

	cf := New(server.Client(), server.URL)
	mods, err := cf.Search(context.Background(), source.SearchQuery{
		Query:       "jei",
		GameVersion: "1.21",
		Loader:      domain.LoaderFabric,
		FilterByVer: true,
	})
	require.NoError(t, err)
	require.Len(t, mods, 1)

	assert.Equal(t, "238222", mods[0].ID)
	assert.Equal(t, domain.PlatformCurseforge, mods[0].Platform)
	assert.Equal(t, "Just Enough Items (JEI)", mods[0].Name)
	assert.Equal(t, []string{"mezz"}, mods[0].Authors)
	assert.Equal(t, "https://example.com/jei.png", mods[0].IconURL)
	assert.Equal(t, int64(150000000), mods[0].Downloads)

	assert.Equal(t, "432", gotQuery["gameId"])
	assert.Equal(t, "6", gotQuery["classId"])
	assert.Equal(t, "jei", gotQuery["searchFilter"])
	assert.Equal(t, "1.21", gotQuery["gameVersion"])
	assert.Equal(t, "4", gotQuery["modLoaderType"])
}

func TestCurseForge_SearchUnfiltered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("gameVersion"))
		assert.Empty(t, r.URL.Query().Get("modLoaderType"))
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	cf := New(server.Client(), server.URL)
	mods, err := cf.Search(context.Background(), source.SearchQuery{Query: "jei"})
	require.NoError(t, err)
	assert.Empty(t, mods)
}

func TestCurseForge_GetVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mods/238222/files", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"id": 5001,
					"displayName": "jei 2.1",
					"fileName": "jei-2.1.jar",
					"releaseType": 1,
					"fileDate": "2024-02-01T00:00:00Z",
					"downloadUrl": "https://edge.example.com/jei-2.1.jar",
					"gameVersions": ["1.21", "Fabric", "1.20.4"]
				},
				{
					"id": 5000,
					"displayName": "jei 2.0 beta",
					"fileName": "jei-2.0.jar",
					"releaseType": 2,
					"fileDate": "2024-01-01T00:00:00Z",
					"downloadUrl": "https://edge.example.com/jei-2.0.jar",
					"gameVersions": ["1.21", "Forge"]
				},
				{
					"id": 4999,
					"displayName": "withheld",
					"fileName": "jei-1.9.jar",
					"releaseType": 1,
					"fileDate": "2023-12-01T00:00:00Z",
					"downloadUrl": "",
					"gameVersions": ["1.20.4"]
				}
			]
		}`))
	}))
	defer server.Close()

	cf := New(server.Client(), server.URL)
	versions, err := cf.GetVersions(context.Background(), "238222")
	require.NoError(t, err)
	require.Len(t, versions, 2)

	assert.Equal(t, "5001", versions[0].ID)
	assert.Equal(t, "jei 2.1", versions[0].Name)
	assert.Equal(t, domain.ReleaseStable, versions[0].ReleaseType)
	assert.Equal(t, []string{"Fabric"}, versions[0].Loaders)
	assert.Equal(t, []string{"1.21", "1.20.4"}, versions[0].McVersions)
	assert.True(t, versions[0].SupportsLoader(domain.LoaderFabric))

	assert.Equal(t, domain.ReleaseBeta, versions[1].ReleaseType)
}

func TestCurseForge_GetMod_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cf := New(server.Client(), server.URL)
	_, err := cf.GetMod(context.Background(), "999999")
	assert.ErrorIs(t, err, domain.ErrModNotFound)
}

func TestCurseForge_SearchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": "upstream unavailable"}`))
	}))
	defer server.Close()

	cf := New(server.Client(), server.URL)
	_, err := cf.Search(context.Background(), source.SearchQuery{Query: "jei"})

	// A failed request is an error, never an empty result.
	assert.ErrorIs(t, err, domain.ErrUpstreamRequest)
}

func TestParseReleaseType(t *testing.T) {
	assert.Equal(t, domain.ReleaseStable, parseReleaseType(1))
	assert.Equal(t, domain.ReleaseBeta, parseReleaseType(2))
	assert.Equal(t, domain.ReleaseAlpha, parseReleaseType(3))
	assert.Equal(t, domain.ReleaseAlpha, parseReleaseType(0))
}
