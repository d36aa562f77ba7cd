// Package browser defines the page-inspection boundary the engine's
// collaborators talk to, plus its chromedp implementation. Locators are CSS
// selectors against structural attributes; every lookup reports absence as a
// result, not an error.
package browser

import (
	"context"
	"time"
)

// Element is a point-in-time read of one matched node.
type Element struct {
	// Selector that can be used to address this element again.
	Selector string
	// Text is the trimmed visible text content.
	Text string
	// Classes is the raw class attribute.
	Classes string
	// Disabled reflects the disabled attribute on the element itself.
	Disabled bool
	// Visible is false for display:none / hidden nodes.
	Visible bool
	// Attrs holds the element's attributes.
	Attrs map[string]string
}

// Attr returns the named attribute or "".
func (e Element) Attr(name string) string {
	if e.Attrs == nil {
		return ""
	}
	return e.Attrs[name]
}

// Inspector is the capability surface over the live page. Implementations
// convert driver faults into errors; "nothing matched" is never an error.
type Inspector interface {
	Navigate(ctx context.Context, url string) error
	CurrentLocation(ctx context.Context) (string, error)
	Refresh(ctx context.Context) error

	FindOne(ctx context.Context, selector string) (Element, bool, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	Fill(ctx context.Context, selector, value string) error
	// Click scrolls the target into view before activating it.
	Click(ctx context.Context, selector string) error
	// AcceptNextDialog arms a one-shot accept for the next native
	// confirm/alert dialog the page raises.
	AcceptNextDialog(ctx context.Context)

	Title(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
}
