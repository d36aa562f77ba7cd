package browser

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Options configures the headless Chrome session.
type Options struct {
	Headless     bool
	ChromeBinary string
	UserAgent    string
	WindowWidth  int
	WindowHeight int
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Chrome is the chromedp-backed Inspector. One Chrome owns one tab; the
// engine is its only user for the run's duration.
type Chrome struct {
	ctx     context.Context
	cancels []context.CancelFunc

	acceptDialog atomic.Bool
}

var _ Inspector = (*Chrome)(nil)

// NewChrome starts a browser and opens a blank tab. Close releases both.
func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.WindowWidth == 0 {
		opts.WindowWidth = 1366
	}
	if opts.WindowHeight == 0 {
		opts.WindowHeight = 768
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
		chromedp.UserAgent(opts.UserAgent),
	)
	if opts.ChromeBinary != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ChromeBinary))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	c := &Chrome{
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
	}

	// Start the browser process now so a broken environment fails fast.
	if err := chromedp.Run(tabCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	chromedp.ListenTarget(tabCtx, func(ev any) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			accept := c.acceptDialog.Swap(false)
			go func() {
				_ = chromedp.Run(tabCtx, page.HandleJavaScriptDialog(accept))
			}()
		}
	})

	return c, nil
}

// Close tears down the tab and the browser process.
func (c *Chrome) Close() {
	for _, cancel := range c.cancels {
		cancel()
	}
}

func (c *Chrome) run(ctx context.Context, acts ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(c.ctx, acts...)
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) CurrentLocation(ctx context.Context) (string, error) {
	var loc string
	err := c.run(ctx, chromedp.Location(&loc))
	return loc, err
}

func (c *Chrome) Refresh(ctx context.Context) error {
	return c.run(ctx, chromedp.Reload())
}

type elementRecord struct {
	Text     string            `json:"text"`
	Classes  string            `json:"classes"`
	Disabled bool              `json:"disabled"`
	Visible  bool              `json:"visible"`
	Attrs    map[string]string `json:"attrs"`
}

const collectScript = `(function(sel, limit) {
	const out = [];
	const nodes = document.querySelectorAll(sel);
	for (let i = 0; i < nodes.length && out.length < limit; i++) {
		const el = nodes[i];
		const style = window.getComputedStyle(el);
		const attrs = {};
		for (const a of el.attributes) { attrs[a.name] = a.value; }
		out.push({
			text: (el.textContent || '').trim(),
			classes: el.getAttribute('class') || '',
			disabled: el.disabled === true || el.hasAttribute('disabled'),
			visible: el.offsetHeight !== 0 && style.display !== 'none' && style.visibility !== 'hidden',
			attrs: attrs,
		});
	}
	return out;
})(%s, %d)`

func (c *Chrome) collect(ctx context.Context, selector string, limit int) ([]Element, error) {
	var records []elementRecord
	js := fmt.Sprintf(collectScript, strconv.Quote(selector), limit)
	if err := c.run(ctx, chromedp.Evaluate(js, &records)); err != nil {
		return nil, fmt.Errorf("inspect %q: %w", selector, err)
	}
	out := make([]Element, 0, len(records))
	for _, r := range records {
		out = append(out, Element{
			Selector: selector,
			Text:     r.Text,
			Classes:  r.Classes,
			Disabled: r.Disabled,
			Visible:  r.Visible,
			Attrs:    r.Attrs,
		})
	}
	return out, nil
}

func (c *Chrome) FindOne(ctx context.Context, selector string) (Element, bool, error) {
	els, err := c.collect(ctx, selector, 1)
	if err != nil {
		return Element{}, false, err
	}
	if len(els) == 0 {
		return Element{}, false, nil
	}
	return els[0], true, nil
}

func (c *Chrome) FindAll(ctx context.Context, selector string) ([]Element, error) {
	return c.collect(ctx, selector, 64)
}

func (c *Chrome) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("wait visible %q: %w", selector, err)
	}
	return nil
}

func (c *Chrome) Fill(ctx context.Context, selector, value string) error {
	return c.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
}

// Click scrolls the element into view and clicks it through the DOM, which
// also works for controls chromedp considers not directly clickable.
func (c *Chrome) Click(ctx context.Context, selector string) error {
	js := fmt.Sprintf(`(function(sel) {
		const el = document.querySelector(sel);
		if (!el) { return false; }
		el.scrollIntoView({block: 'center'});
		el.click();
		return true;
	})(%s)`, strconv.Quote(selector))

	var clicked bool
	if err := c.run(ctx, chromedp.Evaluate(js, &clicked)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	if !clicked {
		return fmt.Errorf("click %q: no such element", selector)
	}
	return nil
}

func (c *Chrome) AcceptNextDialog(ctx context.Context) {
	c.acceptDialog.Store(true)
}

func (c *Chrome) Title(ctx context.Context) (string, error) {
	var title string
	err := c.run(ctx, chromedp.Title(&title))
	return title, err
}

func (c *Chrome) HTML(ctx context.Context) (string, error) {
	var html string
	err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}
