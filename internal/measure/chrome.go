package measure

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-paginator/internal/browser"
)

// script waits for fonts and one animation frame, then reads every measurable container.
const script = `(async () => {
  await document.fonts.ready;
  await new Promise(resolve => requestAnimationFrame(() => resolve()));
  const box = (el, id) => {
    const cs = getComputedStyle(el);
    return {
      id: id || "",
      height: el.getBoundingClientRect().height,
      margin_top: parseFloat(cs.marginTop) || 0,
      margin_bottom: parseFloat(cs.marginBottom) || 0,
    };
  };
  const header = document.querySelector('[data-measure="header"]');
  const heading = document.querySelector('[data-sidebar-heading]');
  return {
    header: header ? box(header, "header") : null,
    sections: Array.from(document.querySelectorAll('[data-section-id]'))
      .map(el => box(el, el.getAttribute('data-section-id'))),
    sidebar: Array.from(document.querySelectorAll('[data-sidebar-item]')).map(el => {
      const b = box(el, el.getAttribute('data-sidebar-item'));
      const group = el.closest('[data-sidebar-group]');
      b.group = group ? group.getAttribute('data-sidebar-group') : "";
      return b;
    }),
    sidebar_heading: heading ? box(heading, "sidebar-heading") : null,
  };
})()`

// ChromeMeasurer measures documents in headless Chrome.
type ChromeMeasurer struct {
	Browser browser.Options
}

// NewChromeMeasurer creates a measurer using the given Chrome binary (empty for the default).
func NewChromeMeasurer(execPath string, timeout time.Duration, verbose bool) *ChromeMeasurer {
	return &ChromeMeasurer{Browser: browser.Options{ExecPath: execPath, Timeout: timeout, Verbose: verbose}}
}

// Measure renders html, waits once for layout to settle and reads back every container.
// It does not retry; a document whose containers are missing yields *NotMountedError.
func (m *ChromeMeasurer) Measure(ctx context.Context, html string) (*Result, error) {
	expected, err := ExpectedIDs(html)
	if err != nil {
		return nil, err
	}

	var reading Reading
	err = browser.Render(ctx, m.Browser, html,
		chromedp.Evaluate(script, &reading, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("measurement pass failed: %w", err)
	}

	if err := Check(expected, reading.Sections); err != nil {
		return nil, err
	}
	if m.Browser.Verbose {
		log.Printf("[measure] Read %d sections and %d sidebar items", len(reading.Sections), len(reading.Sidebar))
	}
	return reading.Result(), nil
}
