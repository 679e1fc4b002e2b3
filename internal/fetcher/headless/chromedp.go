// Package headless fetches pages through a real browser so JS-rendered
// marketing sites still yield usable markup.
package headless

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/getsitespark/sitespark/internal/fetcher"
)

// Config controls the behavior of the headless fetcher.
type Config struct {
	MaxParallel       int
	UserAgent         string
	NavigationTimeout time.Duration
}

// Fetcher implements fetcher.Fetcher using chromedp and headless Chrome.
type Fetcher struct {
	cfg         Config
	limiter     chan struct{}
	allocator   context.Context
	allocCancel context.CancelFunc
}

// New creates a headless fetcher backed by chromedp.
func New(cfg Config) (*Fetcher, error) {
	if cfg.MaxParallel < 0 {
		return nil, fmt.Errorf("max parallel must be >= 0")
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 25 * time.Second
	}
	var limiter chan struct{}
	if cfg.MaxParallel > 0 {
		limiter = make(chan struct{}, cfg.MaxParallel)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Fetcher{
		cfg:         cfg,
		limiter:     limiter,
		allocator:   allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// Close cancels the allocator context.
func (f *Fetcher) Close() {
	f.allocCancel()
}

// Fetch navigates with a headless browser and returns the fully rendered DOM.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (fetcher.Page, error) {
	if err := f.acquire(ctx); err != nil {
		return fetcher.Page{}, err
	}
	defer f.release()

	taskCtx, taskCancel := chromedp.NewContext(f.allocator)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, f.cfg.NavigationTimeout)
	defer cancel()

	status := newDocumentStatus()
	chromedp.ListenTarget(taskCtx, status.captureEvent)

	start := time.Now()
	var (
		html     string
		finalURL string
	)
	actions := []chromedp.Action{
		f.networkSetupAction(),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return fetcher.Page{}, fmt.Errorf("chromedp run: %w", err)
	}

	code := status.code()
	if code >= 400 {
		return fetcher.Page{}, fmt.Errorf("headless fetch %s: status %d", rawURL, code)
	}
	if finalURL == "" {
		finalURL = rawURL
	}
	host := ""
	if u, err := url.Parse(finalURL); err == nil {
		host = u.Hostname()
	}

	return fetcher.Page{
		URL:          finalURL,
		Host:         host,
		StatusCode:   code,
		Body:         []byte(html),
		UsedHeadless: true,
		Duration:     time.Since(start),
	}, nil
}

func (f *Fetcher) networkSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if f.cfg.UserAgent != "" {
			if err := emulation.SetUserAgentOverride(f.cfg.UserAgent).Do(ctx); err != nil {
				return fmt.Errorf("set user-agent: %w", err)
			}
		}
		return nil
	})
}

func (f *Fetcher) acquire(ctx context.Context) error {
	if f.limiter == nil {
		return nil
	}
	select {
	case f.limiter <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("headless slot wait canceled: %w", ctx.Err())
	}
}

func (f *Fetcher) release() {
	if f.limiter == nil {
		return
	}
	select {
	case <-f.limiter:
	default:
	}
}

// documentStatus records the HTTP status of the main document response.
type documentStatus struct {
	mu     sync.RWMutex
	status int
}

func newDocumentStatus() *documentStatus {
	return &documentStatus{}
}

func (d *documentStatus) captureEvent(ev any) {
	resp, ok := ev.(*network.EventResponseReceived)
	if !ok || resp.Type != network.ResourceTypeDocument || resp.Response == nil {
		return
	}
	d.mu.Lock()
	d.status = int(resp.Response.Status)
	d.mu.Unlock()
}

func (d *documentStatus) code() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.status == 0 {
		return http.StatusOK
	}
	return d.status
}
