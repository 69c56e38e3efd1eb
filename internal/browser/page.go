// Package browser defines the narrow surface of the browser-automation
// engine the evaluator consumes, plus the playwright-go adapter.
package browser

// Page is the page-level capability set: capture, structure, element
// resolution and style injection. One check call uses a page exclusively by
// convention of the calling test.
type Page interface {
	// Screenshot captures the current viewport as PNG bytes; fullPage
	// extends the capture to the whole scrollable page.
	Screenshot(fullPage bool) ([]byte, error)
	// Content returns the serialized HTML of the current page.
	Content() (string, error)
	// Locator resolves a selector expression lazily.
	Locator(selector string) Locator
	// AddStyleTag injects a style element with the given CSS content.
	AddStyleTag(content string) error
}

// Locator is the element-resolution capability used for highlighting.
type Locator interface {
	Count() (int, error)
	First() Locator
	// Evaluate runs a JS expression against the resolved element.
	Evaluate(expression string) error
}
