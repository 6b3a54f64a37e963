package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a single Render call
const DefaultTimeout = 60 * time.Second

// ErrEmptyText is returned when there is nothing to render
var ErrEmptyText = errors.New("text is required")

// Renderer converts document text into PDF bytes
type Renderer interface {
	Render(ctx context.Context, text string) ([]byte, error)
	Close()
}

// ChromeRenderer prints HTML to PDF through a headless Chrome that is
// started on first use and shared by every Render call
type ChromeRenderer struct {
	timeout  time.Duration
	execPath string

	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
}

// ChromeOption configures a ChromeRenderer
type ChromeOption func(*ChromeRenderer)

// WithTimeout bounds each Render call
func WithTimeout(d time.Duration) ChromeOption {
	return func(r *ChromeRenderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithExecPath points at a specific Chrome or Chromium binary
func WithExecPath(path string) ChromeOption {
	return func(r *ChromeRenderer) {
		r.execPath = path
	}
}

// NewChromeRenderer creates a renderer; Chrome is not launched until Render
func NewChromeRenderer(opts ...ChromeOption) *ChromeRenderer {
	r := &ChromeRenderer{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ChromeRenderer) browser() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx != nil && r.browserCtx.Err() == nil {
		return r.browserCtx
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserStop := chromedp.NewContext(allocCtx)

	r.allocCancel = allocCancel
	r.browserCtx = browserCtx
	r.browserStop = browserStop
	return browserCtx
}

// Render lays text out as an HTML page and prints it to a Letter-sized PDF
func (r *ChromeRenderer) Render(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	doc, err := ToHTML(text)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browser())
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	// Stop the tab when the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var out []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			out = buf
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("pdf rendering failed: %w", err)
	}
	return out, nil
}

// Close shuts the shared browser down
func (r *ChromeRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserStop != nil {
		r.browserStop()
	}
	if r.allocCancel != nil {
		r.allocCancel()
	}
	r.browserCtx = nil
	r.browserStop = nil
	r.allocCancel = nil
}

var _ Renderer = (*ChromeRenderer)(nil)
