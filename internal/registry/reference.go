package registry

import "strings"

// SplitImageReference splits "repo:tag" into its image and tag parts,
// defaulting the tag to "latest". A colon inside the registry host
// ("localhost:5000/app") is not a tag separator; any digest suffix is
// dropped first.
func SplitImageReference(reference string) (image, tag string) {
	noDigest, _, _ := strings.Cut(reference, "@")

	lastSlash := strings.LastIndexByte(noDigest, '/')
	lastColon := strings.LastIndexByte(noDigest, ':')
	if lastColon > lastSlash {
		img, t := noDigest[:lastColon], noDigest[lastColon+1:]
		if img != "" && t != "" {
			return img, t
		}
	}
	return noDigest, "latest"
}

// ParseRegistryReference splits "registry.example/org/image[:tag]"
// into registry host and repository path. References without an
// explicit registry host (plain Docker Hub names) are rejected.
func ParseRegistryReference(reference string) (registry, repository string, ok bool) {
	noDigest, _, _ := strings.Cut(reference, "@")

	noTag := noDigest
	lastSlash := strings.LastIndexByte(noDigest, '/')
	if lastColon := strings.LastIndexByte(noDigest, ':'); lastColon > lastSlash {
		noTag = noDigest[:lastColon]
	}

	first, rest, found := strings.Cut(noTag, "/")
	if !found || rest == "" {
		return "", "", false
	}
	// The first segment is only a registry host if it looks like one.
	if !strings.ContainsAny(first, ".:") && first != "localhost" {
		return "", "", false
	}
	return first, rest, true
}

// parseBearerAuthParams parses a WWW-Authenticate Bearer challenge
// into its key/value parameters.
func parseBearerAuthParams(header string) (map[string]string, bool) {
	scheme, rest, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return nil, false
	}

	params := make(map[string]string)
	for _, part := range strings.Split(rest, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, false
		}
		params[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(val), `"`)
	}
	return params, true
}
