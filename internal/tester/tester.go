// Package tester implements the visual assertion evaluator: it captures page
// state, asks the model to judge a natural-language claim against it, and
// returns a typed verdict with diagnostic artifacts.
package tester

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/veriview/veriview/internal/browser"
	"github.com/veriview/veriview/internal/highlight"
	"github.com/veriview/veriview/internal/interpret"
	"github.com/veriview/veriview/internal/llm"
	"github.com/veriview/veriview/internal/prompt"
	"github.com/veriview/veriview/internal/reduce"
	"github.com/veriview/veriview/pkg/logger"
	"github.com/veriview/veriview/pkg/vision"
)

// Option configures a VisualTester.
type Option func(*VisualTester)

// WithAttacher sets the artifact attacher. Without one, evidence screenshots
// are skipped.
func WithAttacher(a Attacher) Option {
	return func(t *VisualTester) { t.attacher = a }
}

// WithLogger overrides the default logger.
func WithLogger(log *logger.Logger) Option {
	return func(t *VisualTester) { t.log = log }
}

// WithFullPageScreenshot captures the whole scrollable page instead of the
// viewport.
func WithFullPageScreenshot() Option {
	return func(t *VisualTester) { t.fullPage = true }
}

// WithPageContentArtifact additionally attaches the page content converted
// to markdown alongside the evidence screenshot.
func WithPageContentArtifact() Option {
	return func(t *VisualTester) { t.attachContent = true }
}

// VisualTester evaluates visual assertions against one page. It holds no
// shared mutable state; construct one per page. The model client is
// process-wide, read-only after initialization, and safe to share.
type VisualTester struct {
	page          browser.Page
	model         llm.Invoker
	highlighter   *highlight.Highlighter
	attacher      Attacher
	log           *logger.Logger
	fullPage      bool
	attachContent bool
}

// New creates a VisualTester for the given page and model client.
func New(page browser.Page, model llm.Invoker, opts ...Option) *VisualTester {
	t := &VisualTester{
		page:  page,
		model: model,
		log:   logger.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.highlighter = highlight.New(page, t.log)
	return t
}

// Check evaluates one natural-language assertion about the page's visual
// state. It never returns a thrown failure for model or parsing problems;
// those collapse into a verdict with Success=false and the failure in
// Reason. Cancellation is delegated to ctx and the model client's retry
// budget.
func (t *VisualTester) Check(ctx context.Context, assertion string) vision.VisualTestResult {
	checkID := uuid.NewString()[:8]
	t.log.Info("[%s] checking visual assertion: %s", checkID, assertion)

	shot, err := t.page.Screenshot(t.fullPage)
	if err != nil {
		return vision.NewFailureResult(fmt.Sprintf("failed to capture screenshot: %v", err))
	}

	rawHTML, err := t.page.Content()
	if err != nil {
		return vision.NewFailureResult(fmt.Sprintf("failed to read page content: %v", err))
	}
	dom := reduce.Reduce(rawHTML)
	t.log.Debug("[%s] reduced DOM from %d to %d bytes", checkID, len(rawHTML), len(dom))

	messages := prompt.Build(assertion, prompt.DataURI(shot), dom, t.model.Structured())

	raw, err := t.model.Invoke(ctx, messages)
	if err != nil {
		t.log.Error("[%s] model invocation failed: %v", checkID, err)
		return vision.NewFailureResult(err.Error())
	}

	result := interpret.Interpret(raw, t.model.Structured())
	t.log.Info("[%s] verdict: success=%t reason=%s", checkID, result.Success, result.Reason)

	if len(result.Locators) > 0 {
		t.highlighter.Highlight(result.Locators)
		t.attachEvidence(checkID, rawHTML)
	}

	return result
}

// HighlightElements marks the given locators for diagnostics, independently
// of a check.
func (t *VisualTester) HighlightElements(locators []string) {
	t.highlighter.Highlight(locators)
}

// attachEvidence re-screenshots the page after highlighting and persists the
// artifacts. Best-effort: failures are logged, never surfaced.
func (t *VisualTester) attachEvidence(checkID, rawHTML string) {
	if t.attacher == nil {
		return
	}

	after, err := t.page.Screenshot(t.fullPage)
	if err != nil {
		t.log.Warn("[%s] failed to capture evidence screenshot: %v", checkID, err)
		return
	}
	name := "visual-check-" + checkID
	if err := t.attacher.Attach(name, after, "image/png"); err != nil {
		t.log.Warn("[%s] failed to attach evidence screenshot: %v", checkID, err)
	}

	if !t.attachContent {
		return
	}
	markdown, err := reduce.Markdown(rawHTML)
	if err != nil {
		t.log.Warn("[%s] failed to convert page content to markdown: %v", checkID, err)
		return
	}
	if err := t.attacher.Attach(name+"-content", []byte(markdown), "text/markdown"); err != nil {
		t.log.Warn("[%s] failed to attach page content: %v", checkID, err)
	}
}
