// Package registry searches remote image registries (Docker Hub and
// Quay) and lists repository tags over the OCI distribution API,
// negotiating anonymous bearer tokens where required.
package registry

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargobay/cargobay/internal/config"
)

const userAgent = "CargoBay/0.1.0 (+https://github.com/cargobay/cargobay)"

// SearchResult is one repository hit from a registry search.
type SearchResult struct {
	Source      string `json:"source"`
	Reference   string `json:"reference"`
	Description string `json:"description"`
	Stars       uint64 `json:"stars"`
	Pulls       uint64 `json:"pulls"`
	Official    bool   `json:"official"`
}

type Client struct {
	logger   zerolog.Logger
	http     *http.Client
	pageSize int

	// Overridable in tests.
	hubBaseURL  string
	quayBaseURL string
	scheme      string
}

func NewClient(cfg *config.RegistryConfig, logger zerolog.Logger) *Client {
	return &Client{
		logger:      logger,
		http:        &http.Client{Timeout: 15 * time.Second},
		pageSize:    cfg.PageSize,
		hubBaseURL:  "https://hub.docker.com",
		quayBaseURL: "https://quay.io",
		scheme:      "https",
	}
}

func (c *Client) get(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return c.http.Do(req)
}
