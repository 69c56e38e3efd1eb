package browser

import (
	"github.com/playwright-community/playwright-go"
)

// playwrightPage adapts a playwright.Page to the Page interface.
type playwrightPage struct {
	page playwright.Page
}

// FromPlaywright wraps a playwright page in the narrow Page interface.
func FromPlaywright(page playwright.Page) Page {
	return &playwrightPage{page: page}
}

func (p *playwrightPage) Screenshot(fullPage bool) ([]byte, error) {
	opts := playwright.PageScreenshotOptions{
		Type: playwright.ScreenshotTypePng,
	}
	if fullPage {
		opts.FullPage = playwright.Bool(true)
	}
	return p.page.Screenshot(opts)
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Locator(selector string) Locator {
	return &playwrightLocator{loc: p.page.Locator(selector)}
}

func (p *playwrightPage) AddStyleTag(content string) error {
	_, err := p.page.AddStyleTag(playwright.PageAddStyleTagOptions{
		Content: playwright.String(content),
	})
	return err
}

// playwrightLocator adapts a playwright.Locator.
type playwrightLocator struct {
	loc playwright.Locator
}

func (l *playwrightLocator) Count() (int, error) {
	return l.loc.Count()
}

func (l *playwrightLocator) First() Locator {
	return &playwrightLocator{loc: l.loc.First()}
}

func (l *playwrightLocator) Evaluate(expression string) error {
	_, err := l.loc.Evaluate(expression, nil)
	return err
}
