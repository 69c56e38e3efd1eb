// Package reduce shrinks a full page DOM serialization to the subset that is
// worth sending to a multimodal model: semantic structure stays, scripts,
// styles and unknown attributes go.
package reduce

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// allowedTags is the fixed tag allow-list. Tags outside it are unwrapped:
// the element is removed but its children survive.
var allowedTags = map[string]struct{}{
	"a": {}, "abbr": {}, "address": {}, "article": {}, "aside": {},
	"audio": {}, "b": {}, "blockquote": {}, "br": {}, "button": {},
	"caption": {}, "code": {}, "dd": {}, "details": {}, "div": {},
	"dl": {}, "dt": {}, "em": {}, "fieldset": {}, "figcaption": {},
	"figure": {}, "footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "i": {},
	"img": {}, "input": {}, "label": {}, "legend": {}, "li": {},
	"main": {}, "mark": {}, "nav": {}, "ol": {}, "optgroup": {},
	"option": {}, "p": {}, "picture": {}, "pre": {}, "section": {},
	"select": {}, "small": {}, "source": {}, "span": {}, "strong": {},
	"sub": {}, "summary": {}, "sup": {}, "table": {}, "tbody": {},
	"td": {}, "textarea": {}, "tfoot": {}, "th": {}, "thead": {},
	"tr": {}, "u": {}, "ul": {}, "video": {},
}

// droppedTags are removed together with their entire content.
const droppedTags = "script, style, noscript, iframe, template, object, embed, canvas, svg, link, meta, base"

// allowedAttrs is the fixed attribute allow-list. data-* and aria-*
// attributes are allowed by prefix.
var allowedAttrs = map[string]struct{}{
	"class": {}, "id": {}, "role": {}, "type": {}, "name": {},
	"value": {}, "placeholder": {}, "alt": {}, "src": {}, "href": {},
	"target": {},
}

// urlAttrs carry URIs and get their scheme checked.
var urlAttrs = map[string]struct{}{
	"src": {}, "href": {},
}

// Reduce sanitizes raw page HTML down to the tag/attribute allow-list.
// It never fails: malformed input yields a best-effort reduced string.
// Reducing an already-reduced document yields an identical document.
func Reduce(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// html.Parse is extremely tolerant; an error here means the
		// reader itself failed. Nothing sensible to return.
		return ""
	}

	doc.Find("head").Remove()
	doc.Find(droppedTags).Remove()

	body := doc.Find("body")
	unwrapDisallowed(body)
	stripAttributes(body)

	out, err := body.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// unwrapDisallowed removes elements outside the tag allow-list while keeping
// their children. Unwrapping exposes new candidates, so it loops until the
// tree is stable.
func unwrapDisallowed(root *goquery.Selection) {
	for {
		changed := false
		root.Find("*").Each(func(_ int, s *goquery.Selection) {
			tag := goquery.NodeName(s)
			if _, ok := allowedTags[tag]; ok {
				return
			}
			inner, err := s.Html()
			if err != nil {
				inner = s.Text()
			}
			s.ReplaceWithHtml(inner)
			changed = true
		})
		if !changed {
			return
		}
	}
}

// stripAttributes drops every attribute outside the allow-list and every
// URL attribute whose scheme is not http, https or data.
func stripAttributes(root *goquery.Selection) {
	root.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if keepAttribute(a) {
					kept = append(kept, a)
				}
			}
			n.Attr = kept
		}
	})
}

func keepAttribute(a html.Attribute) bool {
	key := strings.ToLower(a.Key)
	if strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") {
		return true
	}
	if _, ok := allowedAttrs[key]; !ok {
		return false
	}
	if _, ok := urlAttrs[key]; ok {
		return allowedScheme(a.Val)
	}
	return true
}

// allowedScheme accepts http, https and data URIs plus scheme-less
// (relative) references. Everything else, javascript: included, is dropped.
func allowedScheme(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	switch {
	case strings.HasPrefix(v, "http://"),
		strings.HasPrefix(v, "https://"),
		strings.HasPrefix(v, "data:"):
		return true
	}
	colon := strings.IndexByte(v, ':')
	if colon == -1 {
		return true
	}
	// A colon after the first path separator belongs to the path, not a
	// scheme.
	if slash := strings.IndexAny(v, "/?#"); slash != -1 && slash < colon {
		return true
	}
	return false
}

// Markdown converts raw page HTML to markdown, used when attaching page
// content as a diagnostic artifact.
func Markdown(rawHTML string) (string, error) {
	converter := md.NewConverter("", true, nil)
	return converter.ConvertString(rawHTML)
}
