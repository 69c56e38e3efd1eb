// Package prompt composes the multimodal request sent to the model: an
// instruction-and-question text segment, the screenshot, then the reduced
// DOM. The segment order is part of the contract; model backends weight
// context position differently and test expectations depend on it.
package prompt

import (
	"encoding/base64"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// PartType discriminates the segments of a multimodal message.
type PartType string

const (
	PartText  PartType = "text"
	PartImage PartType = "image_url"
)

// Part is one segment of a multimodal message.
type Part struct {
	Type     PartType
	Text     string
	ImageURL string
}

// Message is an ordered multimodal payload. Immutable once handed to the
// model client.
type Message struct {
	Role  string
	Parts []Part
}

const instructions = `You are a meticulous QA assistant judging whether a claim about a web page's visual state holds.
You are given two sources of evidence:
1. A screenshot of the current viewport.
2. A reduced HTML representation of the page structure.
Judge the claim strictly against this evidence. Do not assume anything that is not visible in the screenshot or present in the HTML.`

const locatorGuidance = `When elements support your judgment, report them as Playwright locator expressions, for example:
- #signup-button
- .hero-banner img
- [data-testid="logo"]
- text="Sign up"`

// responseContract is appended only in free-text mode; structured-output
// deployments enforce the same shape via the response schema.
const responseContract = `Respond with a single JSON object and nothing else, in exactly this shape:
{"success": <boolean>, "reason": "<short justification>", "locators": ["<locator>", ...]}`

// DataURI encodes screenshot bytes as a base64 data URI. The MIME type is
// sniffed from the bytes; PNG is assumed when detection yields something
// that is not an image.
func DataURI(img []byte) string {
	mime := "image/png"
	if detected := mimetype.Detect(img); detected != nil {
		if m := detected.String(); len(m) >= 6 && m[:6] == "image/" {
			mime = m
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img)
}

// Build assembles the request for one visual assertion. structured reports
// whether the model client enforces the response schema itself, in which
// case the textual response contract is omitted as redundant.
func Build(assertion, imageDataURI, reducedDOM string, structured bool) []Message {
	question := fmt.Sprintf("%s\n\n%s\n\nClaim to verify: %s", instructions, locatorGuidance, assertion)
	if !structured {
		question += "\n\n" + responseContract
	}

	return []Message{
		{
			Role: "user",
			Parts: []Part{
				{Type: PartText, Text: question},
				{Type: PartImage, ImageURL: imageDataURI},
				{Type: PartText, Text: "Page structure (reduced HTML):\n" + reducedDOM},
			},
		},
	}
}
