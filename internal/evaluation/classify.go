package evaluation

import "github.com/jonkmatsumo/classroom-auditor/internal/normalize"

// ContentKind is the enumerated category a content or resource display
// name resolves to. Classification happens once, before any registry
// lookup, so registries are keyed by unambiguous values instead of
// order-sensitive substrings.
type ContentKind string

// Content kinds.
const (
	ContentUnknown          ContentKind = ""
	ContentPresentation     ContentKind = "presentation"
	ContentMindMap          ContentKind = "mind_map"
	ContentSchedule         ContentKind = "schedule"
	ContentProgramProject   ContentKind = "program_project"
	ContentSocialForum      ContentKind = "social_forum"
	ContentDiscussionForum  ContentKind = "discussion_forum"
	ContentLearningGuide    ContentKind = "learning_guide"
	ContentStudyMaterial    ContentKind = "study_material"
	ContentQuiz             ContentKind = "quiz"
	ContentBibliography     ContentKind = "bibliography"
	ContentDigitalDocuments ContentKind = "digital_documents"
	ContentGlossary         ContentKind = "glossary"
	ContentChallenge        ContentKind = "challenge"
	ContentBanner           ContentKind = "banner"
	ContentClosing          ContentKind = "closing"
)

// contentKeywords maps folded name fragments to kinds. Entries are ordered
// most specific first; ClassifyContent takes the first hit.
var contentKeywords = []struct {
	kind     ContentKind
	keywords []string
}{
	{ContentMindMap, []string{"mapa mental"}},
	{ContentSchedule, []string{"cronograma"}},
	{ContentProgramProject, []string{"proyecto formativo"}},
	{ContentSocialForum, []string{"foro social"}},
	{ContentDiscussionForum, []string{"foro de discusion", "foro tematico"}},
	{ContentLearningGuide, []string{"guia de aprendizaje"}},
	{ContentStudyMaterial, []string{"material de formacion", "material de estudio"}},
	{ContentQuiz, []string{"cuestionario", "evaluacion final"}},
	{ContentDigitalDocuments, []string{"documentos digitales"}},
	{ContentGlossary, []string{"glosario"}},
	{ContentBibliography, []string{"bibliografia"}},
	{ContentChallenge, []string{"reto"}},
	{ContentBanner, []string{"banner", "cabecera"}},
	{ContentClosing, []string{"cierre", "certificado", "certificacion"}},
	{ContentPresentation, []string{"presentacion"}},
}

// ClassifyContent resolves a content or resource display name to its kind.
// Unrecognized names yield ContentUnknown, which routes every indicator to
// the manual-review fallback.
func ClassifyContent(name string) ContentKind {
	folded := normalize.Fold(name)
	for _, entry := range contentKeywords {
		for _, keyword := range entry.keywords {
			if normalize.ContainsFold(folded, keyword) {
				return entry.kind
			}
		}
	}
	return ContentUnknown
}

// IndicatorTopic is the enumerated check family an indicator name resolves
// to inside a content evaluator.
type IndicatorTopic string

// Indicator topics.
const (
	TopicUnknown      IndicatorTopic = ""
	TopicTimingGrades IndicatorTopic = "timing_grading"
	TopicRestrictions IndicatorTopic = "restrictions"
	TopicCompletion   IndicatorTopic = "completion"
	TopicSecurity     IndicatorTopic = "security"
	TopicAttempts     IndicatorTopic = "attempts"
	TopicPercentages  IndicatorTopic = "percentages"
	TopicDates        IndicatorTopic = "dates"
	TopicImages       IndicatorTopic = "images"
	TopicLinks        IndicatorTopic = "links"
	TopicStructure    IndicatorTopic = "structure"
	TopicGeneral      IndicatorTopic = "general"
	TopicContent      IndicatorTopic = "content"
)

// indicatorKeywords is ordered most specific first. "general" precedes
// "contenido" so that "Contenido general de ..." resolves to the general
// check rather than the content check.
var indicatorKeywords = []struct {
	topic    IndicatorTopic
	keywords []string
}{
	{TopicTimingGrades, []string{"temporalizacion", "calificacion"}},
	{TopicRestrictions, []string{"restriccion"}},
	{TopicCompletion, []string{"finalizacion"}},
	{TopicSecurity, []string{"seguridad", "contrasena"}},
	{TopicAttempts, []string{"intento"}},
	{TopicPercentages, []string{"porcentaje"}},
	{TopicDates, []string{"fecha", "entrega"}},
	{TopicImages, []string{"imagen"}},
	{TopicLinks, []string{"enlace"}},
	{TopicStructure, []string{"estructura"}},
	{TopicGeneral, []string{"general"}},
	{TopicContent, []string{"contenido"}},
}

// ClassifyIndicator resolves an indicator display name to its topic.
func ClassifyIndicator(name string) IndicatorTopic {
	folded := normalize.Fold(name)
	for _, entry := range indicatorKeywords {
		for _, keyword := range entry.keywords {
			if normalize.ContainsFold(folded, keyword) {
				return entry.topic
			}
		}
	}
	return TopicUnknown
}
