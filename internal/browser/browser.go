// Package browser provides the host capabilities the popup consumes: reading
// the active tab, opening a new tab and writing to the clipboard.
package browser

import (
	"context"
	"errors"
)

var (
	ErrNoActiveTab = errors.New("no active tab")
	ErrNoBrowser   = errors.New("no browser attached")
)

// Tab is the part of a browser tab a card is created from.
type Tab struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type Browser interface {
	// ActiveTab returns the tab the user is looking at.
	ActiveTab(ctx context.Context) (Tab, error)
	// OpenTab opens url in a new tab.
	OpenTab(ctx context.Context, url string) error
}

// None is used when no browser is attached. The popup then relies on the tab
// details it was opened with.
type None struct{}

func (None) ActiveTab(context.Context) (Tab, error) { return Tab{}, ErrNoActiveTab }

func (None) OpenTab(context.Context, string) error { return ErrNoBrowser }
