package decoders

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/disintegration/imaging"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/feedalor/pkg/capture"
)

// viewport size for page screenshots
const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// Webpage captures a viewport screenshot of a web page with a headless
// browser. The descriptor is the page URL. Cookie-consent dialogs are
// handled best-effort: a consent cookie is pre-set for the page host and
// a visible Accept/Agree button is clicked if one shows up.
type Webpage struct {
	timeout time.Duration
}

// NewWebpage creates the webpage screenshot decoder
func NewWebpage(timeout time.Duration) *Webpage {
	return &Webpage{timeout: timeout}
}

// Name returns the decoder name
func (d *Webpage) Name() string { return "webpage" }

// Decode renders the page and captures the viewport
func (d *Webpage) Decode(ctx context.Context, descriptor string) (image.Image, error) {
	parsed, err := url.Parse(descriptor)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid page url %q", descriptor)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var buf []byte
	actions := []chromedp.Action{
		chromedp.EmulateViewport(viewportWidth, viewportHeight),
		d.presetConsentCookie(parsed.Hostname()),
		chromedp.Navigate(descriptor),
		d.dismissConsentDialog(),
		chromedp.CaptureScreenshot(&buf),
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("render %s: %w", descriptor, err)
	}

	img, err := imaging.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot of %s: %w", descriptor, err)
	}
	return img, nil
}

// presetConsentCookie sets a generic consent cookie before navigation,
// harmless when the site ignores it
func (d *Webpage) presetConsentCookie(host string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		err := network.SetCookie("cookie_accepted", "true").
			WithDomain(host).
			WithPath("/").
			Do(ctx)
		if err != nil {
			lgr.Printf("[DEBUG] consent cookie injection failed for %s: %v", host, err)
		}
		return nil // best-effort
	})
}

// dismissConsentDialog clicks a visible Accept/Agree button if present,
// giving the page a moment to settle afterwards
func (d *Webpage) dismissConsentDialog() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		clickCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		sel := `//button[contains(translate(., 'ACEPTGR', 'aceptgr'), 'accept') or contains(translate(., 'ACEPTGR', 'aceptgr'), 'agree')]`
		if err := chromedp.Click(sel, chromedp.BySearch).Do(clickCtx); err != nil {
			return nil // no dialog, nothing to do
		}
		return chromedp.Sleep(time.Second).Do(ctx)
	})
}

// Describe reports the target host without launching a browser
func (d *Webpage) Describe(descriptor string) map[string]string {
	parsed, err := url.Parse(descriptor)
	if err != nil || parsed.Host == "" {
		return map[string]string{"status": "error", "error": fmt.Sprintf("invalid page url %q", descriptor)}
	}
	return map[string]string{
		"status":   "ok",
		"host":     parsed.Hostname(),
		"viewport": fmt.Sprintf("%dx%d", viewportWidth, viewportHeight),
	}
}

var _ capture.Decoder = (*Webpage)(nil)
