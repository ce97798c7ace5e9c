package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Search queries the requested source ("dockerhub", "quay" or "all")
// and returns up to limit results per source.
func (c *Client) Search(ctx context.Context, query, source string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = c.pageSize
	}

	src := strings.ToLower(source)
	var results []SearchResult
	queried := false

	switch src {
	case "all", "dockerhub", "hub", "docker", "":
		queried = true
		hub, err := c.searchDockerHub(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results = append(results, hub...)
	}
	switch src {
	case "all", "quay", "":
		queried = true
		quay, err := c.searchQuay(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		results = append(results, quay...)
	}

	if !queried {
		return nil, fmt.Errorf("unknown registry source: %s", source)
	}
	return results, nil
}

type dockerHubSearchResponse struct {
	Results []dockerHubRepo `json:"results"`
}

type dockerHubRepo struct {
	Name        string `json:"name"`
	Namespace   string `json:"namespace"`
	Description string `json:"description"`
	StarCount   uint64 `json:"star_count"`
	PullCount   uint64 `json:"pull_count"`
	IsOfficial  bool   `json:"is_official"`
}

func (c *Client) searchDockerHub(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/v2/search/repositories/?query=%s&page_size=%s",
		c.hubBaseURL, url.QueryEscape(query), strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(req)
	if err != nil {
		return nil, fmt.Errorf("docker hub search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("docker hub search failed: HTTP %d", resp.StatusCode)
	}

	var data dockerHubSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("docker hub search failed: %w", err)
	}

	results := make([]SearchResult, 0, len(data.Results))
	for _, r := range data.Results {
		if len(results) >= limit {
			break
		}
		ns := r.Namespace
		if ns == "" {
			ns = "library"
		}
		reference := r.Name
		if ns != "library" {
			reference = ns + "/" + r.Name
		}
		results = append(results, SearchResult{
			Source:      "dockerhub",
			Reference:   reference,
			Description: r.Description,
			Stars:       r.StarCount,
			Pulls:       r.PullCount,
			Official:    r.IsOfficial,
		})
	}
	return results, nil
}

func (c *Client) searchQuay(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	u := fmt.Sprintf("%s/api/v1/find/repositories?query=%s", c.quayBaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(req)
	if err != nil {
		return nil, fmt.Errorf("quay search failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quay search failed: HTTP %d", resp.StatusCode)
	}

	// Quay's find endpoint has shipped several shapes; decode loosely
	// and take the fields that are present.
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("quay search failed: %w", err)
	}

	items, _ := payload["results"].([]any)
	if items == nil {
		items, _ = payload["repositories"].([]any)
	}

	var results []SearchResult
	for _, raw := range items {
		if len(results) >= limit {
			break
		}
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			Source:      "quay",
			Reference:   "quay.io/" + quayRepoName(item),
			Description: stringField(item, "description"),
			Stars:       uintField(item, "stars", "star_count"),
		})
	}
	return results, nil
}

func quayRepoName(item map[string]any) string {
	if name := stringField(item, "name"); name != "" {
		return name
	}
	ns := stringField(item, "namespace", "namespace_name")
	repo := stringField(item, "repo_name")
	if ns != "" && repo != "" {
		return ns + "/" + repo
	}
	return "<unknown>"
}

func stringField(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func uintField(item map[string]any, keys ...string) uint64 {
	for _, k := range keys {
		if f, ok := item[k].(float64); ok && f >= 0 {
			return uint64(f)
		}
	}
	return 0
}
