package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const maxResponseBytes = 1 << 20

// BuildURL resolves path against baseURL and merges query.
func BuildURL(baseURL string, path string, query url.Values) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	endpoint, err := parsed.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	if endpoint.Host != parsed.Host {
		return "", fmt.Errorf("api path %q leaves the api host", path)
	}

	if len(query) > 0 {
		merged := endpoint.Query()
		for key, values := range query {
			for _, value := range values {
				merged.Add(key, value)
			}
		}
		endpoint.RawQuery = merged.Encode()
	}

	return endpoint.String(), nil
}

func resourcePath(resource string, parts ...string) string {
	segments := []string{strings.Trim(resource, "/")}
	for _, part := range parts {
		segments = append(segments, url.PathEscape(strings.Trim(part, "/")))
	}
	return "/" + strings.Join(segments, "/") + "/"
}
