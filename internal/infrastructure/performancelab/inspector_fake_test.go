package performancelab

import (
	"context"
	"strconv"
	"time"

	"github.com/example/gym-sniper/internal/browser"
)

// fakeInspector serves canned elements per selector and records every
// mutating call. Hooks let a test mutate page state mid-flow.
type fakeInspector struct {
	elements map[string][]browser.Element
	location string
	title    string
	html     string

	clicks      []string
	fills       map[string]string
	navigations []string
	refreshes   int
	dialogsArm  int

	onClick   func(sel string)
	onRefresh func()
}

func newFakeInspector() *fakeInspector {
	return &fakeInspector{
		elements: map[string][]browser.Element{},
		fills:    map[string]string{},
	}
}

func (f *fakeInspector) set(sel string, els ...browser.Element) {
	f.elements[sel] = els
}

func (f *fakeInspector) Navigate(ctx context.Context, url string) error {
	f.navigations = append(f.navigations, url)
	f.location = url
	return nil
}

func (f *fakeInspector) CurrentLocation(ctx context.Context) (string, error) {
	return f.location, nil
}

func (f *fakeInspector) Refresh(ctx context.Context) error {
	f.refreshes++
	if f.onRefresh != nil {
		f.onRefresh()
	}
	return nil
}

func (f *fakeInspector) FindOne(ctx context.Context, selector string) (browser.Element, bool, error) {
	els := f.elements[selector]
	if len(els) == 0 {
		return browser.Element{}, false, nil
	}
	return els[0], true, nil
}

func (f *fakeInspector) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	return f.elements[selector], nil
}

func (f *fakeInspector) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return nil
}

func (f *fakeInspector) Fill(ctx context.Context, selector, value string) error {
	f.fills[selector] = value
	return nil
}

func (f *fakeInspector) Click(ctx context.Context, selector string) error {
	f.clicks = append(f.clicks, selector)
	if f.onClick != nil {
		f.onClick(selector)
	}
	return nil
}

func (f *fakeInspector) AcceptNextDialog(ctx context.Context) {
	f.dialogsArm++
}

func (f *fakeInspector) Title(ctx context.Context) (string, error) {
	return f.title, nil
}

func (f *fakeInspector) HTML(ctx context.Context) (string, error) {
	return f.html, nil
}

func (f *fakeInspector) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

var _ browser.Inspector = (*fakeInspector)(nil)

// card populates the three selectors the scanner reads for one session id.
func (f *fakeInspector) card(id int, classes, btnText string, disabled bool, quota string) {
	f.set(slotSelector(id), browser.Element{
		Classes: classes,
		Attrs:   map[string]string{"data-session-id": strconv.Itoa(id)},
	})
	f.set(slotButtonSelector(id), browser.Element{Text: btnText, Disabled: disabled})
	if quota != "" {
		f.set(slotQuotaSelector(id), browser.Element{Text: quota})
	}
}
