package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// Chrome talks to a running Chrome through its remote debugging endpoint
// (for example http://localhost:9222 or a ws://.../devtools/browser/... URL).
type Chrome struct {
	remoteURL string
	timeout   time.Duration
	// pages whose URL starts with selfURL are skipped when looking for the
	// active tab, so the popup never bookmarks itself.
	selfURL string
}

func NewChrome(remoteURL, selfURL string, timeout time.Duration) *Chrome {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Chrome{remoteURL: remoteURL, selfURL: selfURL, timeout: timeout}
}

// attach returns a chromedp context bound to the remote browser.
func (c *Chrome) attach(ctx context.Context) (context.Context, context.CancelFunc, error) {
	ctx, cancelTimeout := context.WithTimeout(ctx, c.timeout)
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, c.remoteURL)
	cdpCtx, cancelCtx := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelCtx()
		cancelAlloc()
		cancelTimeout()
	}

	// An empty Run connects to the browser. It opens a blank helper tab that
	// is closed again by cancel.
	if err := chromedp.Run(cdpCtx); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("attach chrome %s: %w", c.remoteURL, err)
	}
	return cdpCtx, cancel, nil
}

// ActiveTab returns the first page target, which Chrome lists most recently
// focused first.
func (c *Chrome) ActiveTab(ctx context.Context) (Tab, error) {
	cdpCtx, cancel, err := c.attach(ctx)
	if err != nil {
		return Tab{}, err
	}
	defer cancel()

	infos, err := chromedp.Targets(cdpCtx)
	if err != nil {
		return Tab{}, fmt.Errorf("list targets: %w", err)
	}
	var own target.ID
	if t := chromedp.FromContext(cdpCtx).Target; t != nil {
		own = t.TargetID
	}
	return pickActive(infos, c.selfURL, own)
}

func pickActive(infos []*target.Info, selfURL string, own target.ID) (Tab, error) {
	for _, info := range infos {
		if info.Type != "page" || info.TargetID == own {
			continue
		}
		if info.URL == "" || info.URL == "about:blank" {
			continue
		}
		if selfURL != "" && strings.HasPrefix(info.URL, selfURL) {
			continue
		}
		return Tab{URL: info.URL, Title: info.Title}, nil
	}
	return Tab{}, ErrNoActiveTab
}

func (c *Chrome) OpenTab(ctx context.Context, url string) error {
	cdpCtx, cancel, err := c.attach(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	browser := chromedp.FromContext(cdpCtx).Browser
	if _, err := target.CreateTarget(url).Do(cdp.WithExecutor(cdpCtx, browser)); err != nil {
		return fmt.Errorf("open tab %s: %w", url, err)
	}
	return nil
}
