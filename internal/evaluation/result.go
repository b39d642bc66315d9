// Package evaluation provides the indicator result model, the normalized
// classification of content and indicator names, the two-level rule
// registry, and the dispatcher that selects a rule module per area and
// cycle kind.
package evaluation

import "fmt"

// ObservationManualReview marks an indicator no automated rule covers.
const ObservationManualReview = "Requiere verificación manual."

// ObservationCompliant is the default observation for passing indicators.
const ObservationCompliant = "Cumple con el indicador."

// IndicatorResult is the verdict for a single indicator. Result encodes a
// boolean as 0/1; Observation is never empty.
type IndicatorResult struct {
	IndicatorID int    `json:"indicatorId"`
	Result      int    `json:"result"`
	Observation string `json:"observation"`
}

// Pass builds a passing result. An empty observation gets the default
// compliant text.
func Pass(indicatorID int, observation string) IndicatorResult {
	if observation == "" {
		observation = ObservationCompliant
	}
	return IndicatorResult{IndicatorID: indicatorID, Result: 1, Observation: observation}
}

// Fail builds a failing result. The observation must explain the failure;
// an empty one is replaced with the manual-review text as a last resort.
func Fail(indicatorID int, observation string) IndicatorResult {
	if observation == "" {
		observation = ObservationManualReview
	}
	return IndicatorResult{IndicatorID: indicatorID, Result: 0, Observation: observation}
}

// ManualReview builds the fallback result for unimplemented checks.
func ManualReview(indicatorID int) IndicatorResult {
	return Fail(indicatorID, ObservationManualReview)
}

// Outcome is what a check function reports before it is bound to an
// indicator id.
type Outcome struct {
	Passed      bool
	Observation string
}

// Passed builds a passing outcome.
func Passed(observation string) Outcome {
	return Outcome{Passed: true, Observation: observation}
}

// Failed builds a failing outcome with a formatted observation.
func Failed(format string, args ...interface{}) Outcome {
	return Outcome{Passed: false, Observation: fmt.Sprintf(format, args...)}
}

func (o Outcome) toResult(indicatorID int) IndicatorResult {
	if o.Passed {
		return Pass(indicatorID, o.Observation)
	}
	return Fail(indicatorID, o.Observation)
}
