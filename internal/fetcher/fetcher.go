// Package fetcher defines the port for retrieving a target company's page.
package fetcher

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Page is the result of fetching one URL.
type Page struct {
	URL          string
	Host         string
	StatusCode   int
	Body         []byte
	UsedHeadless bool
	Duration     time.Duration
}

// Fetcher retrieves the raw HTML for a single URL. Implementations bound the
// request with their own timeout and return an error for network failures and
// non-success statuses; callers decide how to degrade.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// NormalizeURL defaults the scheme to https and validates the result parses
// with a host. The returned URL is what the fetchers are given.
func NormalizeURL(raw string) (string, string, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", "", &url.Error{Op: "parse", URL: raw, Err: errMissingHost}
	}
	return u.String(), u.Hostname(), nil
}

var errMissingHost = errHost("url must include a host")

type errHost string

func (e errHost) Error() string { return string(e) }
