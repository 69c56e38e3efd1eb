// Package interpret turns raw model output into a typed verdict.
package interpret

import (
	"encoding/json"
	"strings"

	"github.com/veriview/veriview/pkg/vision"
)

// triggerTokens drive the free-text fallback heuristic. The scan is
// deliberately permissive: negated sentences ("It is not true that...")
// still count as success. Known limitation, kept as designed.
var triggerTokens = []string{"true", "yes", "correct"}

// Interpret produces a verdict from raw model output. structured reports
// whether the provider enforced the response schema; in that mode output
// that fails to parse is a contract violation and yields a failed verdict
// rather than the heuristic.
func Interpret(raw string, structured bool) vision.VisualTestResult {
	text := stripCodeFences(strings.TrimSpace(raw))

	var res vision.VisualTestResult
	if err := json.Unmarshal([]byte(text), &res); err == nil {
		res.Normalize()
		return res
	}

	if structured {
		return vision.NewFailureResult("model output violated the response schema: " + truncate(raw, 256))
	}
	return heuristic(raw)
}

// heuristic is the degradation path for free-text providers: success iff any
// trigger token appears in the lowercased text, the full text becomes the
// reason.
func heuristic(raw string) vision.VisualTestResult {
	lowered := strings.ToLower(raw)
	success := false
	for _, token := range triggerTokens {
		if strings.Contains(lowered, token) {
			success = true
			break
		}
	}
	res := vision.VisualTestResult{Success: success, Reason: raw}
	res.Normalize()
	return res
}

// stripCodeFences unwraps a ```json ... ``` (or plain ```) block so that
// fenced JSON answers still parse strictly.
func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(body, '\n'); idx != -1 {
		body = body[idx+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
