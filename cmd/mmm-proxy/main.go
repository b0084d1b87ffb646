// mmm-proxy relays CurseForge API requests, attaching the API key so
// clients never need one of their own.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const defaultUpstreamURL = "https://api.curseforge.com/v1"

type proxyApplication struct {
	apiKey     string
	upstream   string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	apiKey := os.Getenv("CURSEFORGE_API_KEY")
	if apiKey == "" {
		log.Fatal("CURSEFORGE_API_KEY is not set")
	}

	app := &proxyApplication{
		apiKey:     apiKey,
		upstream:   defaultUpstreamURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}

	log.Infow("starting proxy", "addr", *addr)
	if err := http.ListenAndServe(*addr, app.routes()); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

func (app *proxyApplication) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/curseforge/*", app.relayHandler)

	return r
}

// relayHandler forwards the request to the CurseForge API with the key
// attached and passes the upstream body and status back verbatim.
func (app *proxyApplication) relayHandler(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "*")
	url := app.upstream + "/" + endpoint

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		app.writeError(w, http.StatusInternalServerError, err)
		return
	}
	req.URL.RawQuery = r.URL.RawQuery
	req.Header.Set("x-api-key", app.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := app.httpClient.Do(req)
	if err != nil {
		app.log.Errorw("upstream request failed", "endpoint", endpoint, "error", err)
		app.writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		app.log.Warnw("relaying response body", "endpoint", endpoint, "error", err)
	}
}

func (app *proxyApplication) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
