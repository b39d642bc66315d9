package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

func TestClassifyContent(t *testing.T) {
	cases := map[string]ContentKind{
		"Mapa mental":                      ContentMindMap,
		"Cronograma de actividades":        ContentSchedule,
		"Proyecto formativo del programa":  ContentProgramProject,
		"Foro social":                      ContentSocialForum,
		"Foro de discusión":                ContentDiscussionForum,
		"Guía de Aprendizaje":              ContentLearningGuide,
		"Material de formación":            ContentStudyMaterial,
		"Cuestionario de autoevaluación":   ContentQuiz,
		"Cuestionario de evaluación final": ContentQuiz,
		"Documentos digitales":             ContentDigitalDocuments,
		"Glosario de términos técnicos":    ContentGlossary,
		"Bibliografía":                     ContentBibliography,
		"Retos del programa":               ContentChallenge,
		"Banner del programa":              ContentBanner,
		"Cierre del programa":              ContentClosing,
		"Certificación del programa":       ContentClosing,
		"Presentación del programa":        ContentPresentation,
		"Algo sin clasificar":              ContentUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ClassifyContent(name), name)
	}
}

func TestClassifyIndicator(t *testing.T) {
	cases := map[string]IndicatorTopic{
		"Temporalización y calificación del cuestionario": TopicTimingGrades,
		"Restricciones de acceso del cuestionario":        TopicRestrictions,
		"Reglas de finalización del material":             TopicCompletion,
		"Seguridad del cuestionario":                      TopicSecurity,
		"Intentos permitidos del cuestionario":            TopicAttempts,
		"Porcentajes de evaluación de la guía":            TopicPercentages,
		"Fechas de entrega de los retos":                  TopicDates,
		"Imagen de cabecera del programa":                 TopicImages,
		"Estructura de la sección de presentación":        TopicStructure,
		"Configuración general del foro social":           TopicGeneral,
		"Contenido general del mapa mental":               TopicGeneral,
		"Indicador sin familia conocida":                  TopicUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, ClassifyIndicator(name), name)
	}
}

// Every indicator in the shipped taxonomy must resolve to exactly one
// known topic, and every content name to a known kind, so no phrasing can
// silently fall through to a different check family than intended.
func TestTaxonomyFixture_ClassifiesUnambiguously(t *testing.T) {
	tax, err := taxonomy.Load("../taxonomy/testdata/taxonomy.json")
	require.NoError(t, err)

	for _, cycle := range tax.Cycles {
		for _, resource := range cycle.Resources {
			for _, indicator := range resource.Indicators {
				topic := ClassifyIndicator(indicator.Name)
				assert.NotEqual(t, TopicUnknown, topic, "indicator %d (%q) is unclassifiable", indicator.ID, indicator.Name)
			}
			for _, content := range resource.Contents {
				kind := ClassifyContent(content.Name)
				assert.NotEqual(t, ContentUnknown, kind, "content %d (%q) is unclassifiable", content.ID, content.Name)
				for _, indicator := range content.Indicators {
					topic := ClassifyIndicator(indicator.Name)
					assert.NotEqual(t, TopicUnknown, topic, "indicator %d (%q) is unclassifiable", indicator.ID, indicator.Name)
				}
			}
		}
	}
}
