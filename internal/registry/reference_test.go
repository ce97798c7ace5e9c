package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitImageReference(t *testing.T) {
	cases := []struct {
		in    string
		image string
		tag   string
	}{
		{"nginx", "nginx", "latest"},
		{"nginx:1.27", "nginx", "1.27"},
		{"ghcr.io/org/app:v2", "ghcr.io/org/app", "v2"},
		{"localhost:5000/app", "localhost:5000/app", "latest"},
		{"localhost:5000/app:dev", "localhost:5000/app", "dev"},
		{"nginx@sha256:deadbeef", "nginx", "latest"},
		{"nginx:", "nginx:", "latest"},
	}
	for _, c := range cases {
		image, tag := SplitImageReference(c.in)
		assert.Equal(t, c.image, image, "input %q", c.in)
		assert.Equal(t, c.tag, tag, "input %q", c.in)
	}
}

func TestParseRegistryReference(t *testing.T) {
	registry, repo, ok := ParseRegistryReference("ghcr.io/org/image:v1")
	require.True(t, ok)
	assert.Equal(t, "ghcr.io", registry)
	assert.Equal(t, "org/image", repo)

	registry, repo, ok = ParseRegistryReference("localhost:5000/app")
	require.True(t, ok)
	assert.Equal(t, "localhost:5000", registry)
	assert.Equal(t, "app", repo)

	_, _, ok = ParseRegistryReference("nginx")
	assert.False(t, ok, "bare Docker Hub names have no registry host")

	_, _, ok = ParseRegistryReference("library/nginx")
	assert.False(t, ok, "first segment is a namespace, not a host")

	_, _, ok = ParseRegistryReference("ghcr.io/")
	assert.False(t, ok)
}

func TestParseBearerAuthParams(t *testing.T) {
	params, ok := parseBearerAuthParams(`Bearer realm="https://ghcr.io/token",service="ghcr.io",scope="repository:org/image:pull"`)
	require.True(t, ok)
	assert.Equal(t, "https://ghcr.io/token", params["realm"])
	assert.Equal(t, "ghcr.io", params["service"])
	assert.Equal(t, "repository:org/image:pull", params["scope"])

	_, ok = parseBearerAuthParams(`Basic realm="x"`)
	assert.False(t, ok)

	_, ok = parseBearerAuthParams("Bearer")
	assert.False(t, ok)
}
