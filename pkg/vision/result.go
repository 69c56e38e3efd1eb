package vision

// NoReasonProvided is the sentinel reason used when the model omits one.
const NoReasonProvided = "No reason provided"

// VisualTestResult is the verdict returned by a visual assertion check.
// Success and Reason are always set, even on internal failure; Locators is
// always a list, never nil.
type VisualTestResult struct {
	Success  bool     `json:"success"`
	Reason   string   `json:"reason"`
	Locators []string `json:"locators"`
}

// Normalize fills in the sentinel reason and an empty locator list so that
// downstream consumers never see a zero-value field.
func (r *VisualTestResult) Normalize() {
	if r.Reason == "" {
		r.Reason = NoReasonProvided
	}
	if r.Locators == nil {
		r.Locators = []string{}
	}
}

// NewFailureResult creates a failed verdict carrying the failure description.
func NewFailureResult(reason string) VisualTestResult {
	res := VisualTestResult{Success: false, Reason: reason}
	res.Normalize()
	return res
}
