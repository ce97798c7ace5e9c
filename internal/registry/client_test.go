package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargobay/cargobay/internal/config"
)

func newTestClient() *Client {
	return NewClient(&config.RegistryConfig{PageSize: 25}, zerolog.Nop())
}

func TestSearchDockerHub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/search/repositories/", r.URL.Path)
		assert.Equal(t, "redis", r.URL.Query().Get("query"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"name": "redis", "namespace": "library", "description": "In-memory store", "star_count": 12000, "pull_count": 900, "is_official": true},
				{"name": "redis", "namespace": "bitnami", "description": "Bitnami build", "star_count": 250},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient()
	c.hubBaseURL = srv.URL

	results, err := c.Search(context.Background(), "redis", "dockerhub", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "redis", results[0].Reference, "library namespace collapses to the bare name")
	assert.True(t, results[0].Official)
	assert.Equal(t, uint64(12000), results[0].Stars)
	assert.Equal(t, "bitnami/redis", results[1].Reference)
}

func TestSearchQuayToleratesAlternateShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"repositories": []map[string]any{
				{"namespace_name": "coreos", "repo_name": "etcd", "description": "etcd", "star_count": 44},
				{"name": "prometheus/node-exporter", "stars": 12},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient()
	c.quayBaseURL = srv.URL

	results, err := c.Search(context.Background(), "etcd", "quay", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "quay.io/coreos/etcd", results[0].Reference)
	assert.Equal(t, uint64(44), results[0].Stars)
	assert.Equal(t, "quay.io/prometheus/node-exporter", results[1].Reference)
}

func TestSearchUnknownSource(t *testing.T) {
	_, err := newTestClient().Search(context.Background(), "x", "gitlab", 10)
	assert.Error(t, err)
}

func TestTagsWithBearerChallenge(t *testing.T) {
	var tokenIssued bool
	var srvURL string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			assert.Equal(t, "registry.test", r.URL.Query().Get("service"))
			assert.Equal(t, "repository:org/app:pull", r.URL.Query().Get("scope"))
			tokenIssued = true
			json.NewEncoder(w).Encode(map[string]string{"token": "anon-token"})
		case "/v2/org/app/tags/list":
			if r.Header.Get("Authorization") != "Bearer anon-token" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="`+srvURL+`/token",service="registry.test"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"tags": []string{"v2", "latest", "v1"}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	host := mustHost(t, srv.URL)
	c := newTestClient()
	c.scheme = "http"

	tags, err := c.Tags(context.Background(), host+"/org/app", 10)
	require.NoError(t, err)
	assert.True(t, tokenIssued, "expected the anonymous token dance")
	assert.Equal(t, []string{"latest", "v1", "v2"}, tags, "tags come back sorted")
}

func TestTagsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"tags": []string{"c", "a", "b"}})
	}))
	defer srv.Close()

	c := newTestClient()
	c.scheme = "http"

	tags, err := c.Tags(context.Background(), mustHost(t, srv.URL)+"/org/app", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tags)
}

func TestTagsRejectsBareReference(t *testing.T) {
	_, err := newTestClient().Tags(context.Background(), "nginx", 10)
	assert.Error(t, err)
}

func mustHost(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Host
}
