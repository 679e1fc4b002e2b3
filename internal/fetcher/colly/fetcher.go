// Package collyfetcher implements fetcher.Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/getsitespark/sitespark/internal/fetcher"
)

// Config controls collector behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
}

// Fetcher fetches a single page over plain HTTP using a Colly collector.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = 5
	}
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Fetcher{cfg: cfg, baseCollector: c}
}

// Fetch executes a single HTTP GET and returns the raw page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (fetcher.Page, error) {
	var (
		result   fetcher.Page
		fetchErr error
	)
	start := time.Now()

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	collector.SetRequestTimeout(f.cfg.Timeout)
	maxRedirects := f.cfg.MaxRedirects
	collector.SetRedirectHandler(func(_ *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	})

	collector.OnResponse(func(r *colly.Response) {
		result = fetcher.Page{
			URL:        r.Request.URL.String(),
			Host:       r.Request.URL.Hostname(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
		}
	})

	if err := f.runCollector(ctx, collector, rawURL, &fetchErr); err != nil {
		return fetcher.Page{}, err
	}
	if result.StatusCode >= 400 {
		return fetcher.Page{}, fmt.Errorf("fetch %s: status %d", rawURL, result.StatusCode)
	}
	return result, nil
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
