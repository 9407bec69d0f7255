// Package uri resolves relative or templated paths against the service's
// externally visible base URL. The service layer uses it to turn page-link
// templates into absolute pagination URLs.
package uri

import (
	"fmt"
	"net/url"
	"strings"
)

// Builder constructs absolute URIs from relative or templated paths.
type Builder interface {
	// BuildAbsoluteURI resolves the given path against the configured base
	// URL and returns the absolute URL as a string.
	BuildAbsoluteURI(relativePath string) (string, error)
}

// BaseURLBuilder resolves paths against a fixed base URL.
type BaseURLBuilder struct {
	base *url.URL
}

// NewBaseURLBuilder creates a BaseURLBuilder for the given base URL.
// The base must be absolute (scheme and host present).
func NewBaseURLBuilder(baseURL string) (*BaseURLBuilder, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	return &BaseURLBuilder{base: base}, nil
}

// Ensure BaseURLBuilder implements Builder.
var _ Builder = (*BaseURLBuilder)(nil)

// BuildAbsoluteURI implements Builder.BuildAbsoluteURI.
// A leading slash is stripped so the path resolves under the base URL's own
// path prefix rather than replacing it.
func (b *BaseURLBuilder) BuildAbsoluteURI(relativePath string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(relativePath, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", relativePath, err)
	}

	return b.base.ResolveReference(ref).String(), nil
}
