package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-paginator/internal/browser"
	"github.com/jonathan/resume-paginator/internal/geometry"
)

// Rasterizer converts a finished HTML document into PDF bytes at the given paper size.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string, g geometry.Geometry) ([]byte, error)
}

// ChromeRasterizer prints documents to PDF with a local headless Chrome.
type ChromeRasterizer struct {
	Browser browser.Options
}

// NewChromeRasterizer creates a rasterizer using the given Chrome binary (empty for the default).
func NewChromeRasterizer(execPath string, timeout time.Duration, verbose bool) *ChromeRasterizer {
	return &ChromeRasterizer{Browser: browser.Options{ExecPath: execPath, Timeout: timeout, Verbose: verbose}}
}

// Rasterize prints html with zero printer margins; the page geometry comes from the
// document's own padding and @page rule.
func (r *ChromeRasterizer) Rasterize(ctx context.Context, html string, g geometry.Geometry) ([]byte, error) {
	var pdf []byte
	var fontsReady bool
	err := browser.Render(ctx, r.Browser, html,
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, &fontsReady, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(g.WidthInches()).
				WithPaperHeight(g.HeightInches()).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

// RemoteRasterizer posts documents to an external Chromium conversion service
// (a Gotenberg-style multipart endpoint).
type RemoteRasterizer struct {
	URL  string
	HTTP *http.Client
}

// NewRemoteRasterizer creates a rasterizer for the conversion endpoint at url.
func NewRemoteRasterizer(url string, timeout time.Duration) *RemoteRasterizer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RemoteRasterizer{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

func inches(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Rasterize uploads html as index.html with the paper size in inches and zero margins.
func (r *RemoteRasterizer) Rasterize(ctx context.Context, html string, g geometry.Geometry) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"paperWidth":        inches(g.WidthInches()),
		"paperHeight":       inches(g.HeightInches()),
		"marginTop":         "0",
		"marginBottom":      "0",
		"marginLeft":        "0",
		"marginRight":       "0",
		"preferCssPageSize": "true",
		"printBackground":   "true",
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	part, err := form.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("conversion service returned status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
