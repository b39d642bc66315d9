package evaluation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/matching"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// Key selects a rule module.
type Key struct {
	Area  taxonomy.AreaKind
	Cycle taxonomy.CycleKind
}

// Context carries the auxiliary state checks need for nested LMS lookups.
// It is run-scoped and read-only.
type Context struct {
	Token    string
	CourseID int
	Client   *lms.Client
	Snapshot *lms.Snapshot
	Logger   zerolog.Logger
	RunID    uuid.UUID
}

// Request is one content evaluation: the content display name, its full
// indicator list and the matched LMS objects. Module and File narrow the
// match to the content level when the caller located one.
type Request struct {
	ContentName string
	Indicators  []taxonomy.Indicator
	Matched     *matching.MatchedResource
	Module      *lms.Module
	File        *lms.ContentFile
	Config      *taxonomy.ResourceConfig
}

// Module evaluates the indicators of one content against its matched LMS
// objects. Implementations must return exactly one result per input
// indicator, in input order, and must never panic or drop indicators.
type Module interface {
	EvaluateContent(ctx context.Context, ectx *Context, req Request) []IndicatorResult
}

// UnmappedModuleError reports an (area, cycle) pair with no registered
// rule module. This is a configuration fault operators must fix; silently
// skipping it would hide unaudited content.
type UnmappedModuleError struct {
	Key Key
}

func (e *UnmappedModuleError) Error() string {
	return fmt.Sprintf("no rule module registered for area %q cycle %q", e.Key.Area, e.Key.Cycle)
}

// Dispatcher routes content evaluations to rule modules by key.
type Dispatcher struct {
	modules map[Key]Module
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{modules: make(map[Key]Module)}
}

// Register binds a rule module to a key, replacing any previous binding.
func (d *Dispatcher) Register(key Key, module Module) {
	d.modules[key] = module
}

// Evaluate selects the module for key and runs the request through it.
func (d *Dispatcher) Evaluate(ctx context.Context, ectx *Context, key Key, req Request) ([]IndicatorResult, error) {
	module, ok := d.modules[key]
	if !ok {
		return nil, &UnmappedModuleError{Key: key}
	}
	return module.EvaluateContent(ctx, ectx, req), nil
}
