// Package veriview judges natural-language assertions about a web page's
// visual state using a multimodal language model. It is consumed from
// playwright-go E2E suites: wrap a page, call Check with a claim, get a
// typed verdict plus highlighted evidence screenshots.
package veriview

import (
	"context"

	"github.com/playwright-community/playwright-go"

	"github.com/veriview/veriview/config"
	"github.com/veriview/veriview/internal/browser"
	"github.com/veriview/veriview/internal/llm"
	"github.com/veriview/veriview/internal/tester"
	"github.com/veriview/veriview/pkg/vision"
)

// VisualTestResult is the verdict returned by Check. See pkg/vision.
type VisualTestResult = vision.VisualTestResult

// Option configures a VisualTester.
type Option = tester.Option

// Attacher persists evidence artifacts. The default implementation writes
// files under the configured artifacts directory.
type Attacher = tester.Attacher

var (
	// WithFullPageScreenshot captures the whole scrollable page instead of
	// the viewport.
	WithFullPageScreenshot = tester.WithFullPageScreenshot
	// WithPageContentArtifact additionally attaches the page content as
	// markdown alongside the evidence screenshot.
	WithPageContentArtifact = tester.WithPageContentArtifact
)

// WithAttacher replaces the default file-based artifact attacher, e.g. to
// attach evidence to a test report instead of the filesystem.
func WithAttacher(a Attacher) Option {
	return tester.WithAttacher(a)
}

// VisualTester evaluates visual assertions against one playwright page.
type VisualTester struct {
	inner *tester.VisualTester
}

// New loads configuration from the environment and creates a VisualTester
// for the given page. It fails with a *config.ConfigurationError when a
// required model credential is missing; that error is fatal and should abort
// the suite before any test runs.
func New(page playwright.Page, opts ...Option) (*VisualTester, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, page, opts...), nil
}

// NewWithConfig creates a VisualTester from an already-validated
// configuration. Useful when one config is shared across many pages.
func NewWithConfig(cfg *config.Config, page playwright.Page, opts ...Option) *VisualTester {
	all := append(
		[]Option{tester.WithAttacher(tester.NewFileAttacher(cfg.Artifacts.Dir))},
		opts...,
	)
	return &VisualTester{
		inner: tester.New(browser.FromPlaywright(page), llm.New(cfg.Model), all...),
	}
}

// Check evaluates one natural-language assertion about the page's current
// visual state. Model and parsing failures never surface as errors; they
// collapse into a verdict with Success=false and the failure in Reason.
func (t *VisualTester) Check(ctx context.Context, assertion string) VisualTestResult {
	return t.inner.Check(ctx, assertion)
}

// HighlightElements marks the given playwright locators on the page for
// diagnostics, independently of a check.
func (t *VisualTester) HighlightElements(locators []string) {
	t.inner.HighlightElements(locators)
}
