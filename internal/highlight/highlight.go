// Package highlight visually marks the elements the model claims support its
// verdict, so the evidence screenshot shows what was judged.
package highlight

import (
	"fmt"

	"github.com/veriview/veriview/internal/browser"
	"github.com/veriview/veriview/pkg/logger"
)

// MarkerClass is attached to every highlighted element. Markers accumulate
// within a session; each check's page state is ephemeral to that test.
const MarkerClass = "ai-found-marker"

const markerStyle = `
.` + MarkerClass + ` {
	outline: 3px solid #ff2d55 !important;
	background-color: rgba(255, 45, 85, 0.15) !important;
	position: relative !important;
}
.` + MarkerClass + `::after {
	content: "AI Found";
	position: absolute;
	top: -1.5em;
	left: 0;
	padding: 1px 5px;
	font: 10px/1.5 sans-serif;
	color: #fff;
	background: #ff2d55;
	border-radius: 2px;
	z-index: 2147483647;
}
`

// Highlighter marks elements on a single page.
type Highlighter struct {
	page browser.Page
	log  *logger.Logger
}

// New creates a highlighter for the given page.
func New(page browser.Page, log *logger.Logger) *Highlighter {
	return &Highlighter{page: page, log: log}
}

// Highlight marks the first match of each locator. A locator that resolves
// to nothing or fails to resolve is logged as a warning and skipped; it
// never aborts highlighting of the remaining locators. No-op for an empty
// list.
func (h *Highlighter) Highlight(locators []string) {
	if len(locators) == 0 {
		return
	}

	if err := h.page.AddStyleTag(markerStyle); err != nil {
		// Class attachment still proceeds; the marker just won't render.
		h.log.Warn("failed to inject highlight style: %v", err)
	}

	for _, selector := range locators {
		if err := h.markFirst(selector); err != nil {
			h.log.Warn("could not highlight locator %q: %v", selector, err)
		}
	}
}

func (h *Highlighter) markFirst(selector string) error {
	loc := h.page.Locator(selector)
	count, err := loc.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no elements matched")
	}
	return loc.First().Evaluate(fmt.Sprintf("el => el.classList.add(%q)", MarkerClass))
}
