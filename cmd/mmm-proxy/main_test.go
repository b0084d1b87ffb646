package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, upstream http.HandlerFunc) (*proxyApplication, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)
	return &proxyApplication{
		apiKey:     "secret-key",
		upstream:   server.URL,
		httpClient: server.Client(),
		log:        zap.NewNop().Sugar(),
	}, server
}

func TestRelayInjectsKeyAndForwardsQuery(t *testing.T) {
	var gotKey, gotPath, gotQuery string
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data": []}`))
	})

	proxy := httptest.NewServer(app.routes())
	defer proxy.Close()

	resp, err := http.Get(proxy.URL + "/curseforge/mods/search?gameId=432&searchFilter=jei")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"data": []}`, string(body))
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "/mods/search", gotPath)
	assert.Equal(t, "gameId=432&searchFilter=jei", gotQuery)
}

func TestRelayPassesStatusThrough(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "not found"}`))
	})

	proxy := httptest.NewServer(app.routes())
	defer proxy.Close()

	resp, err := http.Get(proxy.URL + "/curseforge/mods/999999")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRelayUpstreamUnreachable(t *testing.T) {
	app, upstream := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	upstream.Close() // force a transport error

	proxy := httptest.NewServer(app.routes())
	defer proxy.Close()

	resp, err := http.Get(proxy.URL + "/curseforge/mods/search")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "error")
}
