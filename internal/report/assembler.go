// Package report assembles compliance reports: it orchestrates the LMS
// snapshot fetch, the content matcher and the evaluation dispatcher into
// the final matched/unmatched report structure.
package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/matching"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// ContentResult carries the indicator verdicts for one content node. For
// resources without sub-contents, ContentID is the resource id itself.
type ContentResult struct {
	ContentID  int                          `json:"contentId"`
	Indicators []evaluation.IndicatorResult `json:"indicators"`
}

// ContentBuckets splits content results by whether a content-level
// structural match was found inside the resource's matched LMS object.
type ContentBuckets struct {
	Match   []ContentResult `json:"match"`
	NoMatch []ContentResult `json:"noMatch"`
}

// PerResourceResult is the evaluation outcome for one matched resource.
type PerResourceResult struct {
	ResourceID int            `json:"resourceId"`
	Contents   ContentBuckets `json:"contents"`
}

// UnmatchedResource identifies a taxonomy resource with no structural
// counterpart in the course.
type UnmatchedResource struct {
	ResourceID int    `json:"resourceId"`
	Name       string `json:"name"`
}

// ComplianceReport is the full audit result for one course, cycle and
// area. UnmatchedResources preserves taxonomy order so report diffs stay
// stable across runs.
type ComplianceReport struct {
	RunID              uuid.UUID           `json:"runId"`
	CourseID           int                 `json:"courseId"`
	CycleID            int                 `json:"cycleId"`
	AreaID             int                 `json:"areaId"`
	MatchedResults     []PerResourceResult `json:"matchedResults"`
	UnmatchedResources []UnmatchedResource `json:"unmatchedResources"`
}

// Options tunes the assembler.
type Options struct {
	// Logger receives per-run progress and degradation events. The zero
	// value disables logging.
	Logger zerolog.Logger
	// ConcurrencyLimit bounds how many matched resources are evaluated in
	// parallel. Zero or negative means the default of 4.
	ConcurrencyLimit int
}

const defaultConcurrencyLimit = 4

// Assembler orchestrates matcher and dispatcher into compliance reports.
// It holds no per-run state; one assembler serves concurrent runs.
type Assembler struct {
	client     *lms.Client
	taxonomy   *taxonomy.Taxonomy
	dispatcher *evaluation.Dispatcher
	logger     zerolog.Logger
	limit      int
}

// NewAssembler creates an assembler over a client, a loaded taxonomy and a
// fully registered dispatcher.
func NewAssembler(client *lms.Client, tax *taxonomy.Taxonomy, dispatcher *evaluation.Dispatcher, opts *Options) *Assembler {
	a := &Assembler{
		client:     client,
		taxonomy:   tax,
		dispatcher: dispatcher,
		limit:      defaultConcurrencyLimit,
	}
	if opts != nil {
		a.logger = opts.Logger
		if opts.ConcurrencyLimit > 0 {
			a.limit = opts.ConcurrencyLimit
		}
	}
	return a
}

// FetchAndMatch fetches the course snapshot and runs the content matcher
// for the given cycle, without evaluating any indicators.
func (a *Assembler) FetchAndMatch(ctx context.Context, courseID int, token string, cycleID int) (*matching.Result, error) {
	cycle, err := a.taxonomy.CycleByID(cycleID)
	if err != nil {
		return nil, err
	}
	cycleKind, err := cycle.Kind()
	if err != nil {
		return nil, err
	}
	snapshot, err := a.client.FetchSnapshot(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course %d: %w", courseID, err)
	}
	result := matching.Match(snapshot, cycle.Resources, cycleKind)
	return &result, nil
}

// Analyze runs the full audit: fetch once, match, evaluate every matched
// resource through the dispatcher, and assemble the report. Missing
// taxonomy ids and unmapped area/cycle combinations are fatal; everything
// below the dispatcher degrades into failing indicators instead.
func (a *Assembler) Analyze(ctx context.Context, courseID int, token string, cycleID, areaID int) (*ComplianceReport, error) {
	cycle, err := a.taxonomy.CycleByID(cycleID)
	if err != nil {
		return nil, err
	}
	area, err := a.taxonomy.AreaByID(areaID)
	if err != nil {
		return nil, err
	}
	cycleKind, err := cycle.Kind()
	if err != nil {
		return nil, err
	}
	areaKind, err := area.Kind()
	if err != nil {
		return nil, err
	}
	key := evaluation.Key{Area: areaKind, Cycle: cycleKind}

	snapshot, err := a.client.FetchSnapshot(ctx, token, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course %d: %w", courseID, err)
	}
	matched := matching.Match(snapshot, cycle.Resources, cycleKind)

	runID := uuid.New()
	logger := a.logger.With().
		Stringer("run", runID).
		Int("course", courseID).
		Int("cycle", cycleID).
		Int("area", areaID).
		Logger()
	logger.Info().
		Int("matched", len(matched.Matched)).
		Int("unmatched", len(matched.Unmatched)).
		Msg("starting evaluation")

	ectx := &evaluation.Context{
		Token:    token,
		CourseID: courseID,
		Client:   a.client,
		Snapshot: snapshot,
		Logger:   logger,
		RunID:    runID,
	}

	// Indexed writes keep the output in taxonomy order regardless of
	// goroutine completion order.
	results := make([]PerResourceResult, len(matched.Matched))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.limit)
	for i := range matched.Matched {
		i := i
		g.Go(func() error {
			res, err := a.evaluateResource(gCtx, ectx, key, &matched.Matched[i])
			if err != nil {
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ComplianceReport{
		RunID:              runID,
		CourseID:           courseID,
		CycleID:            cycleID,
		AreaID:             areaID,
		MatchedResults:     results,
		UnmatchedResources: make([]UnmatchedResource, 0, len(matched.Unmatched)),
	}
	for _, u := range matched.Unmatched {
		report.UnmatchedResources = append(report.UnmatchedResources, UnmatchedResource{
			ResourceID: u.Resource.ID,
			Name:       u.Resource.Name,
		})
	}
	return report, nil
}

// evaluateResource evaluates one matched resource. Resources with declared
// sub-contents are evaluated per content node and bucketed by whether a
// content-level match was located; resources without sub-contents are
// evaluated once at the resource level.
func (a *Assembler) evaluateResource(ctx context.Context, ectx *evaluation.Context, key evaluation.Key, matched *matching.MatchedResource) (*PerResourceResult, error) {
	out := &PerResourceResult{
		ResourceID: matched.Resource.ID,
		Contents: ContentBuckets{
			Match:   []ContentResult{},
			NoMatch: []ContentResult{},
		},
	}

	if len(matched.Resource.Contents) == 0 {
		indicators, err := a.dispatcher.Evaluate(ctx, ectx, key, evaluation.Request{
			ContentName: matched.Resource.Name,
			Indicators:  matched.Resource.Indicators,
			Matched:     matched,
			Config:      matched.Resource.Config,
		})
		if err != nil {
			return nil, err
		}
		out.Contents.Match = append(out.Contents.Match, ContentResult{
			ContentID:  matched.Resource.ID,
			Indicators: indicators,
		})
		return out, nil
	}

	fileByContent := make(map[int]*lms.ContentFile, len(matched.ContentMatches))
	for i := range matched.ContentMatches {
		fileByContent[matched.ContentMatches[i].Content.ID] = matched.ContentMatches[i].File
	}

	for _, content := range matched.Resource.Contents {
		req := evaluation.Request{
			ContentName: content.Name,
			Indicators:  content.Indicators,
			Matched:     matched,
			Config:      matched.Resource.Config,
		}
		located := false
		if len(matched.ContentMatches) > 0 {
			if file := fileByContent[content.ID]; file != nil {
				req.File = file
				located = true
			}
		} else if module := matching.LocateContentModule(matched, content); module != nil {
			req.Module = module
			located = true
		}

		indicators, err := a.dispatcher.Evaluate(ctx, ectx, key, req)
		if err != nil {
			return nil, err
		}
		result := ContentResult{ContentID: content.ID, Indicators: indicators}
		if located {
			out.Contents.Match = append(out.Contents.Match, result)
		} else {
			out.Contents.NoMatch = append(out.Contents.NoMatch, result)
		}
	}
	return out, nil
}
