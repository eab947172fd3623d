// Package browser runs rendered HTML in a headless Chrome instance.
package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds one browser session, start-up included.
const DefaultTimeout = 60 * time.Second

// Options configures a headless Chrome session.
type Options struct {
	// ExecPath is the Chrome binary. Empty falls back to CHROME_PATH, then chromedp's lookup.
	ExecPath string
	Timeout  time.Duration
	Verbose  bool
}

func (o Options) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	path := o.ExecPath
	if path == "" {
		path = os.Getenv("CHROME_PATH")
	}
	if path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	return opts
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Render writes html to a temporary file, loads it into a fresh headless Chrome and runs
// actions once the body is ready. The browser is torn down before Render returns.
func Render(ctx context.Context, opts Options, html string, actions ...chromedp.Action) error {
	if opts.Verbose {
		log.Printf("[browser] Starting headless Chrome for %d bytes of HTML", len(html))
	}

	tmpDir, err := os.MkdirTemp("", "resume-layout-")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts.allocatorOptions()...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.timeout())
	defer cancel()

	tasks := chromedp.Tasks{
		chromedp.Navigate("file://" + htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	tasks = append(tasks, actions...)

	start := time.Now()
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return fmt.Errorf("browser rendering failed: %w", err)
	}
	if opts.Verbose {
		log.Printf("[browser] Finished in %s", time.Since(start).Round(time.Millisecond))
	}
	return nil
}
