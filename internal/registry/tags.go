package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
)

type tagsListResponse struct {
	Tags []string `json:"tags"`
}

type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Tags lists up to limit tags for a fully qualified reference like
// "ghcr.io/org/image", retrying once with an anonymous bearer token
// when the registry demands auth.
func (c *Client) Tags(ctx context.Context, reference string, limit int) ([]string, error) {
	registry, repository, ok := ParseRegistryReference(reference)
	if !ok {
		return nil, fmt.Errorf("invalid reference %q: expected e.g. ghcr.io/org/image", reference)
	}
	if limit <= 0 {
		limit = c.pageSize
	}

	u := fmt.Sprintf("%s://%s/v2/%s/tags/list", c.scheme, registry, repository)
	resp, err := c.getURL(ctx, u, "")
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		challenge := resp.Header.Get("WWW-Authenticate")
		resp.Body.Close()
		if challenge == "" {
			return nil, fmt.Errorf("registry %s requires auth but sent no WWW-Authenticate challenge", registry)
		}
		token, err := c.fetchBearerToken(ctx, challenge, "repository:"+repository+":pull")
		if err != nil {
			return nil, err
		}
		resp, err = c.getURL(ctx, u, token)
		if err != nil {
			return nil, err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list tags for %s/%s: HTTP %d", registry, repository, resp.StatusCode)
	}

	var data tagsListResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to list tags for %s/%s: %w", registry, repository, err)
	}

	tags := data.Tags
	sort.Strings(tags)
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (c *Client) getURL(ctx context.Context, u, bearer string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return c.get(req)
}

// fetchBearerToken performs the anonymous token dance described by a
// Bearer challenge: GET the realm with the advertised service and
// scope, falling back to a pull scope when the challenge names none.
func (c *Client) fetchBearerToken(ctx context.Context, challenge, fallbackScope string) (string, error) {
	params, ok := parseBearerAuthParams(challenge)
	if !ok {
		return "", fmt.Errorf("unsupported WWW-Authenticate challenge: %s", challenge)
	}
	realm := params["realm"]
	if realm == "" {
		return "", fmt.Errorf("WWW-Authenticate challenge missing realm: %s", challenge)
	}

	u, err := url.Parse(realm)
	if err != nil {
		return "", fmt.Errorf("invalid token realm %q: %w", realm, err)
	}
	q := u.Query()
	if service := params["service"]; service != "" {
		q.Set("service", service)
	}
	scope := params["scope"]
	if scope == "" {
		scope = fallbackScope
	}
	if scope != "" {
		q.Set("scope", scope)
	}
	u.RawQuery = q.Encode()

	resp, err := c.getURL(ctx, u.String(), "")
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: HTTP %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	if tok.Token != "" {
		return tok.Token, nil
	}
	if tok.AccessToken != "" {
		return tok.AccessToken, nil
	}
	return "", fmt.Errorf("token response missing token")
}
