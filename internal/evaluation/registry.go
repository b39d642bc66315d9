package evaluation

import (
	"context"
	"fmt"

	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// CheckFunc evaluates one indicator against the matched LMS content. A
// returned error degrades to a failing result with a diagnostic
// observation; it never propagates past the indicator boundary.
type CheckFunc func(ctx context.Context, ectx *Context, req *Request, indicator taxonomy.Indicator) (Outcome, error)

// ContentEvaluator maps indicator topics to their checks for one content
// kind.
type ContentEvaluator map[IndicatorTopic]CheckFunc

// Registry is a rule module: a map from content kinds to content
// evaluators. It guarantees the 1:1 indicator/result cardinality and the
// manual-review fallback for anything unregistered.
type Registry struct {
	name       string
	evaluators map[ContentKind]ContentEvaluator
}

// NewRegistry creates an empty registry. The name identifies the module in
// logs (e.g. "training/cycle1").
func NewRegistry(name string) *Registry {
	return &Registry{name: name, evaluators: make(map[ContentKind]ContentEvaluator)}
}

// Name returns the module name.
func (r *Registry) Name() string {
	return r.name
}

// Register binds a content evaluator to a content kind.
func (r *Registry) Register(kind ContentKind, evaluator ContentEvaluator) {
	r.evaluators[kind] = evaluator
}

// EvaluateContent implements Module. Every indicator yields exactly one
// result: unknown content kinds and unknown topics fall back to manual
// review, and check errors or panics degrade to failing results.
func (r *Registry) EvaluateContent(ctx context.Context, ectx *Context, req Request) []IndicatorResult {
	results := make([]IndicatorResult, 0, len(req.Indicators))

	kind := ClassifyContent(req.ContentName)
	evaluator, ok := r.evaluators[kind]
	if kind == ContentUnknown || !ok {
		ectx.Logger.Debug().
			Str("module", r.name).
			Str("content", req.ContentName).
			Msg("no evaluator for content, falling back to manual review")
		for _, indicator := range req.Indicators {
			results = append(results, ManualReview(indicator.ID))
		}
		return results
	}

	for _, indicator := range req.Indicators {
		topic := ClassifyIndicator(indicator.Name)
		check, ok := evaluator[topic]
		if topic == TopicUnknown || !ok {
			results = append(results, ManualReview(indicator.ID))
			continue
		}
		results = append(results, r.runCheck(ctx, ectx, check, &req, indicator))
	}
	return results
}

// runCheck executes a single check, converting errors and panics into
// failing results so one flaky sub-call cannot abort sibling indicators.
func (r *Registry) runCheck(ctx context.Context, ectx *Context, check CheckFunc, req *Request, indicator taxonomy.Indicator) (result IndicatorResult) {
	defer func() {
		if rec := recover(); rec != nil {
			ectx.Logger.Error().
				Str("module", r.name).
				Int("indicator", indicator.ID).
				Interface("panic", rec).
				Msg("check panicked")
			result = Fail(indicator.ID, fmt.Sprintf("No fue posible evaluar el indicador: %v", rec))
		}
	}()

	outcome, err := check(ctx, ectx, req, indicator)
	if err != nil {
		ectx.Logger.Warn().
			Str("module", r.name).
			Int("indicator", indicator.ID).
			Err(err).
			Msg("check failed to run")
		return Fail(indicator.ID, fmt.Sprintf("No fue posible evaluar el indicador: %v", err))
	}
	return outcome.toResult(indicator.ID)
}
