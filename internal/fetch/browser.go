// Package fetch - browser.go drives headless Chrome for profile pages and PDF export.
package fetch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultPageLoadTimeout bounds a single page render.
const DefaultPageLoadTimeout = 30 * time.Second

// ProfileUserAgent is sent when rendering public profile pages.
const ProfileUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Browser launches a fresh headless Chrome per call. Nothing is shared
// between calls, and every exit path releases the browser.
type Browser struct {
	ExecPath    string
	UserAgent   string
	PageTimeout time.Duration
	// Settle is how long to wait after the body is ready for scripts to render.
	Settle  time.Duration
	Verbose bool
}

// NewBrowser returns a Browser with the default page-load timeout.
func NewBrowser(execPath string) *Browser {
	return &Browser{
		ExecPath:    execPath,
		UserAgent:   ProfileUserAgent,
		PageTimeout: DefaultPageLoadTimeout,
		Settle:      2 * time.Second,
	}
}

func (b *Browser) allocate(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if b.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.UserAgent))
	}
	if b.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	timeout := b.PageTimeout
	if timeout <= 0 {
		timeout = DefaultPageLoadTimeout
	}
	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)

	return runCtx, func() {
		cancelRun()
		cancelBrowser()
		cancelAlloc()
	}
}

// RenderPage loads url and returns the rendered HTML.
func (b *Browser) RenderPage(ctx context.Context, url string) (string, error) {
	if b.Verbose {
		log.Printf("[BROWSER] Rendering %s", url)
	}

	runCtx, release := b.allocate(ctx)
	defer release()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	if b.Verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}
	return html, nil
}

// PrintPDF renders an HTML document to an A4 PDF.
func (b *Browser) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "resume-pdf-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write html: %w", err)
	}

	runCtx, release := b.allocate(ctx)
	defer release()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("pdf printing failed: %w", err)
	}
	return pdf, nil
}
