// Package graphic implements the rule registry for the graphic-design
// cycle. Both taxonomy areas audit the same visual elements, so a single
// registry is registered under both area keys.
package graphic

import (
	"context"

	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/checks"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/htmlq"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// Registry builds the graphic-design registry shared by both areas.
func Registry() *evaluation.Registry {
	r := evaluation.NewRegistry("graphic")

	r.Register(evaluation.ContentBanner, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkBannerImage,
		evaluation.TopicImages:  checkBannerImage,
	})
	r.Register(evaluation.ContentPresentation, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkPresentationVisuals,
		evaluation.TopicImages:  checkPresentationVisuals,
	})
	r.Register(evaluation.ContentDigitalDocuments, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkFolderNaming,
		evaluation.TopicStructure: checkFolderNaming,
	})
	return r
}

// checkFolderNaming audits how the graphic assets folder is laid out:
// every asset must live in a named subfolder.
func checkFolderNaming(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.ResolveModule(req)
	if module == nil || module.ModName != "folder" {
		module = checks.FindModuleByModName(req.Matched, "folder")
	}
	return checks.FolderNaming(module), nil
}

func checkBannerImage(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	return checks.SummaryHasImage(req), nil
}

// checkPresentationVisuals accepts either an image in the section summary
// or an embedded media frame.
func checkPresentationVisuals(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	html := checks.SummaryHTML(req)
	if html == "" {
		return evaluation.Failed("La presentación no tiene descripción con elementos gráficos."), nil
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	if doc.HasImage() || doc.HasEmbeddedMedia() {
		return evaluation.Passed("La presentación incluye elementos gráficos."), nil
	}
	return evaluation.Failed("La presentación no incluye imágenes ni material embebido."), nil
}
