package browser

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestChrome attaches to the browser at LINKCARDS_TEST_CHROME, for
// example http://localhost:9222 of a Chrome started with
// --remote-debugging-port=9222.
func newTestChrome(t *testing.T, selfURL string) *Chrome {
	t.Helper()
	remote := os.Getenv("LINKCARDS_TEST_CHROME")
	if remote == "" {
		t.Skip("LINKCARDS_TEST_CHROME not set")
	}
	return NewChrome(remote, selfURL, 10*time.Second)
}

// pageTargets lists the page targets of the attached browser.
func pageTargets(t *testing.T, c *Chrome) []*target.Info {
	t.Helper()
	cdpCtx, cancel, err := c.attach(context.Background())
	require.NoError(t, err)
	defer cancel()

	infos, err := chromedp.Targets(cdpCtx)
	require.NoError(t, err)
	pages := make([]*target.Info, 0, len(infos))
	for _, info := range infos {
		if info.Type == "page" {
			pages = append(pages, info)
		}
	}
	return pages
}

func closeTabs(t *testing.T, c *Chrome, url string) {
	t.Helper()
	cdpCtx, cancel, err := c.attach(context.Background())
	if err != nil {
		t.Logf("close %s: %v", url, err)
		return
	}
	defer cancel()

	infos, err := chromedp.Targets(cdpCtx)
	if err != nil {
		t.Logf("close %s: %v", url, err)
		return
	}
	browser := chromedp.FromContext(cdpCtx).Browser
	for _, info := range infos {
		if info.URL == url {
			_ = target.CloseTarget(info.TargetID).Do(cdp.WithExecutor(cdpCtx, browser))
		}
	}
}

func TestChromeOpenTabAndActiveTab(t *testing.T) {
	c := newTestChrome(t, "")
	pageURL := "about:blank#linkcards-" + uuid.NewString()
	t.Cleanup(func() { closeTabs(t, c, pageURL) })

	require.NoError(t, c.OpenTab(context.Background(), pageURL))

	var urls []string
	for _, p := range pageTargets(t, c) {
		urls = append(urls, p.URL)
	}
	assert.Contains(t, urls, pageURL)

	tab, err := c.ActiveTab(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, tab.URL)
	assert.NotEqual(t, "about:blank", tab.URL, "the helper tab opened by attach is never reported")
}

func TestChromeActiveTabSkipsSelf(t *testing.T) {
	selfURL := "about:blank#linkcards-self-" + uuid.NewString()
	c := newTestChrome(t, selfURL)
	t.Cleanup(func() { closeTabs(t, c, selfURL) })

	require.NoError(t, c.OpenTab(context.Background(), selfURL))

	tab, err := c.ActiveTab(context.Background())
	if err != nil {
		assert.ErrorIs(t, err, ErrNoActiveTab)
		return
	}
	assert.NotEqual(t, selfURL, tab.URL)
}
