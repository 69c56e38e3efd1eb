package reduce_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriview/veriview/internal/reduce"
)

func TestReduceDropsScriptAndStyleContent(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{
			name:  "top level script",
			input: `<html><head><script>alert("x")</script></head><body><p>hello</p></body></html>`,
		},
		{
			name:  "nested script",
			input: `<body><div><section><script>var secret = 42;</script><p>hello</p></section></div></body>`,
		},
		{
			name:  "nested style",
			input: `<body><div><style>.a { color: red; }</style><p>hello</p></div></body>`,
		},
		{
			name:  "noscript and iframe",
			input: `<body><noscript>no js</noscript><iframe src="https://evil.example"></iframe><p>hello</p></body>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := reduce.Reduce(tc.input)
			assert.NotContains(t, out, "script")
			assert.NotContains(t, out, "style")
			assert.NotContains(t, out, "alert")
			assert.NotContains(t, out, "secret")
			assert.NotContains(t, out, "color: red")
			assert.NotContains(t, out, "no js")
			assert.NotContains(t, out, "iframe")
			assert.Contains(t, out, "<p>hello</p>")
		})
	}
}

func TestReduceUnwrapsDisallowedTagsKeepingText(t *testing.T) {
	out := reduce.Reduce(`<body><center><font size="3">important text</font></center></body>`)
	assert.NotContains(t, out, "center")
	assert.NotContains(t, out, "font")
	assert.Contains(t, out, "important text")
}

func TestReduceAttributeAllowList(t *testing.T) {
	input := `<body><button id="go" class="cta primary" onclick="hack()" style="color:red" data-testid="go-btn" aria-label="Go" tabindex="3">Go</button></body>`
	out := reduce.Reduce(input)

	assert.Contains(t, out, `id="go"`)
	assert.Contains(t, out, `class="cta primary"`)
	assert.Contains(t, out, `data-testid="go-btn"`)
	assert.Contains(t, out, `aria-label="Go"`)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "style=")
	assert.NotContains(t, out, "tabindex")
}

func TestReduceURISchemes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		dropped  string
	}{
		{
			name:     "https kept",
			input:    `<body><a href="https://example.com/x">x</a></body>`,
			expected: `href="https://example.com/x"`,
		},
		{
			name:     "http kept",
			input:    `<body><img src="http://example.com/logo.png" alt="logo"/></body>`,
			expected: `src="http://example.com/logo.png"`,
		},
		{
			name:     "data kept",
			input:    `<body><img src="data:image/png;base64,aWJt" alt="inline"/></body>`,
			expected: `src="data:image/png;base64,aWJt"`,
		},
		{
			name:     "relative kept",
			input:    `<body><a href="/pricing">pricing</a></body>`,
			expected: `href="/pricing"`,
		},
		{
			name:    "javascript dropped",
			input:   `<body><a href="javascript:alert(1)">x</a></body>`,
			dropped: "javascript",
		},
		{
			name:    "ftp dropped",
			input:   `<body><a href="ftp://example.com/file">x</a></body>`,
			dropped: "ftp",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := reduce.Reduce(tc.input)
			if tc.expected != "" {
				assert.Contains(t, out, tc.expected)
			}
			if tc.dropped != "" {
				assert.NotContains(t, out, tc.dropped)
			}
		})
	}
}

func TestReduceIdempotent(t *testing.T) {
	input := `<html><head><title>t</title><script>var a=1;</script></head><body>
		<header class="hero" style="background:url(x)"><h1>Welcome</h1></header>
		<nav><ul><li><a href="/a" onclick="go()">A</a></li><li><a href="javascript:void(0)">B</a></li></ul></nav>
		<center><blink>old school</blink></center>
		<form action="/submit"><input type="text" name="q" placeholder="search"/><button type="submit">Go</button></form>
	</body></html>`

	once := reduce.Reduce(input)
	twice := reduce.Reduce(once)
	assert.Equal(t, once, twice, "reducing a reduced document must be a fixed point")
}

func TestReduceMalformedInput(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "unclosed tags", input: `<div><p>open <b>bold`},
		{name: "garbage", input: `<<<>>>&&&"`},
		{name: "plain text", input: "just some words"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				_ = reduce.Reduce(tc.input)
			})
		})
	}
}

func TestReduceKeepsSemanticStructure(t *testing.T) {
	input := `<body><main><section id="logos"><h2>Browsers</h2>
		<img src="/chrome.png" alt="Chrome"/><img src="/firefox.png" alt="Firefox"/>
		<table><thead><tr><th>Name</th></tr></thead><tbody><tr><td>Chrome</td></tr></tbody></table>
	</section></main></body>`

	out := reduce.Reduce(input)
	for _, tag := range []string{"<main>", `<section id="logos">`, "<h2>", "<table>", "<thead>", "<tbody>", "<td>"} {
		assert.Contains(t, out, tag)
	}
	assert.Contains(t, out, `alt="Chrome"`)
}

func TestMarkdownConversion(t *testing.T) {
	out, err := reduce.Markdown(`<h1>Title</h1><p>Some <strong>bold</strong> text.</p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "**bold**")
	assert.False(t, strings.Contains(out, "<h1>"))
}
