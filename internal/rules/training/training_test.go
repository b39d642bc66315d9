package training

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/matching"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

func evaluate(t *testing.T, r *evaluation.Registry, ectx *evaluation.Context, req evaluation.Request) []evaluation.IndicatorResult {
	t.Helper()
	results := r.EvaluateContent(context.Background(), ectx, req)
	require.Len(t, results, len(req.Indicators))
	return results
}

func TestOrganizational_PresentationSection(t *testing.T) {
	section := lms.Section{
		ID:      1,
		Name:    "Presentación del programa",
		Summary: "<p>Bienvenidos al programa.</p>",
		Modules: []lms.Module{{ID: 10, Name: "Video de bienvenida", Visible: 1}},
	}
	req := evaluation.Request{
		ContentName: "Presentación del programa",
		Indicators: []taxonomy.Indicator{
			{ID: 1, Name: "Contenido general de la presentación"},
			{ID: 2, Name: "Estructura de la sección"},
		},
		Matched: &matching.MatchedResource{Section: &section},
	}

	results := evaluate(t, Organizational(), &evaluation.Context{}, req)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)
	assert.Equal(t, 1, results[1].Result, results[1].Observation)
}

func TestOrganizational_PresentationWithoutSummaryFails(t *testing.T) {
	section := lms.Section{ID: 1, Name: "Presentación del programa"}
	req := evaluation.Request{
		ContentName: "Presentación del programa",
		Indicators:  []taxonomy.Indicator{{ID: 1, Name: "Contenido general"}},
		Matched:     &matching.MatchedResource{Section: &section},
	}

	results := evaluate(t, Organizational(), &evaluation.Context{}, req)
	assert.Equal(t, 0, results[0].Result)
}

func TestOrganizational_ScheduleDates(t *testing.T) {
	r := Organizational()
	indicators := []taxonomy.Indicator{{ID: 3, Name: "Fechas del cronograma"}}

	withYear := evaluation.Request{
		ContentName: "Cronograma",
		Indicators:  indicators,
		Matched:     &matching.MatchedResource{},
		File:        &lms.ContentFile{Filename: "cronograma.pdf", Content: "Inicio enero 2026, cierre junio 2026"},
	}
	results := evaluate(t, r, &evaluation.Context{}, withYear)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)

	withoutYear := withYear
	withoutYear.File = &lms.ContentFile{Filename: "cronograma.pdf", Content: "sin fechas"}
	results = evaluate(t, r, &evaluation.Context{}, withoutYear)
	assert.Equal(t, 0, results[0].Result)

	missing := withYear
	missing.File = nil
	results = evaluate(t, r, &evaluation.Context{}, missing)
	assert.Equal(t, 0, results[0].Result)
}

func TestOrganizational_SocialForumRejectsNewsForum(t *testing.T) {
	section := lms.Section{ID: 2, Name: "Inicio", Modules: []lms.Module{
		{ID: 20, Name: "Foro social", ModName: "forum", Visible: 1},
	}}
	ectx := &evaluation.Context{Snapshot: &lms.Snapshot{
		Sections: []lms.Section{section},
		Forums:   []lms.Forum{{ID: 5, CourseModule: 20, Name: "Foro social", Type: lms.ForumTypeNews}},
	}}
	req := evaluation.Request{
		ContentName: "Foro social",
		Indicators:  []taxonomy.Indicator{{ID: 4, Name: "Contenido general del foro"}},
		Matched:     &matching.MatchedResource{Section: &section},
	}

	results := evaluate(t, Organizational(), ectx, req)
	assert.Equal(t, 0, results[0].Result)

	ectx.Snapshot.Forums[0].Type = "general"
	results = evaluate(t, Organizational(), ectx, req)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)
}

func quizFixture() (*evaluation.Context, evaluation.Request) {
	section := lms.Section{ID: 3, Name: "Evaluación", Modules: []lms.Module{
		{
			ID: 30, Name: "Cuestionario de autoevaluación", ModName: "quiz", Visible: 1,
			Availability: `{"op":"&","c":[{"type":"grade","id":7,"min":70},{"type":"date","d":">=","t":1700000000}]}`,
		},
	}}
	ectx := &evaluation.Context{Snapshot: &lms.Snapshot{
		Sections: []lms.Section{section},
		Quizzes: []lms.Quiz{{
			ID: 9, CourseModule: 30,
			Attempts: 0, GracePeriod: 86400, GradeMethod: 1,
			TimeOpen: 1700000000, TimeClose: 1710000000,
		}},
	}}
	req := evaluation.Request{
		ContentName: "Cuestionario de autoevaluación",
		Indicators: []taxonomy.Indicator{
			{ID: 2201, Name: "Temporalización y calificación"},
			{ID: 2202, Name: "Intentos permitidos"},
			{ID: 2203, Name: "Restricciones de acceso"},
			{ID: 2204, Name: "Seguridad del cuestionario"},
		},
		Matched: &matching.MatchedResource{
			Resource: taxonomy.Resource{ID: 22, Name: "Cuestionario de autoevaluación"},
			Section:  &ectx.Snapshot.Sections[0],
		},
		Config: &taxonomy.ResourceConfig{GradeMethod: 1, GracePeriod: 86400, MinConditions: 2},
	}
	return ectx, req
}

func TestCycleOne_CompliantQuizPassesAllIndicators(t *testing.T) {
	ectx, req := quizFixture()

	results := evaluate(t, CycleOne(), ectx, req)
	for _, res := range results {
		assert.Equal(t, 1, res.Result, "indicator %d: %s", res.IndicatorID, res.Observation)
	}
}

func TestCycleOne_QuizViolationsFailOnlyTheirIndicator(t *testing.T) {
	ectx, req := quizFixture()
	ectx.Snapshot.Quizzes[0].Password = "secreta"
	ectx.Snapshot.Quizzes[0].Attempts = 3

	results := evaluate(t, CycleOne(), ectx, req)
	byID := map[int]evaluation.IndicatorResult{}
	for _, res := range results {
		byID[res.IndicatorID] = res
	}
	assert.Equal(t, 0, byID[2201].Result)
	assert.Equal(t, 0, byID[2202].Result)
	assert.Equal(t, 1, byID[2203].Result, byID[2203].Observation)
	assert.Equal(t, 0, byID[2204].Result)
}

func TestCycleOne_MissingQuizDegradesToFailure(t *testing.T) {
	ectx, req := quizFixture()
	ectx.Snapshot.Quizzes = nil
	ectx.Snapshot.Sections[0].Modules = nil
	req.Matched.Section = &ectx.Snapshot.Sections[0]

	results := evaluate(t, CycleOne(), ectx, req)
	for _, res := range results {
		assert.Equal(t, 0, res.Result, "indicator %d", res.IndicatorID)
	}
}

func TestCycleOne_DigitalDocuments(t *testing.T) {
	section := lms.Section{ID: 4, Name: "Bibliografía", Modules: []lms.Module{
		{ID: 40, Name: "Documentos digitales", ModName: "folder", Visible: 1, Contents: []lms.ContentFile{
			{Filename: "a.pdf", Filepath: "/unidad 1/"},
			{Filename: "b.pdf", Filepath: "/normatividad/"},
		}},
	}}
	req := evaluation.Request{
		ContentName: "Documentos digitales",
		Indicators:  []taxonomy.Indicator{{ID: 230, Name: "Estructura de los documentos"}},
		Matched:     &matching.MatchedResource{Section: &section},
	}

	results := evaluate(t, CycleOne(), &evaluation.Context{}, req)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)
}

func TestCycleOne_UnknownIndicatorFallsBackToManualReview(t *testing.T) {
	ectx, req := quizFixture()
	req.Indicators = []taxonomy.Indicator{{ID: 99, Name: "Criterio sin clasificar"}}

	results := evaluate(t, CycleOne(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
	assert.Equal(t, evaluation.ObservationManualReview, results[0].Observation)
}

const guideHTML = `<html><body>
<table>
	<tr><th>Resultados de aprendizaje</th><td>Reconocer los conceptos básicos del programa.</td></tr>
</table>
<p><strong>Actividades de aprendizaje:</strong> Desarrollar el taller de la unidad 1.</p>
<p>Evidencias de conocimiento: 30%. Evidencias de desempeño: 30%. Evidencias de producto: 40%.</p>
</body></html>`

func TestCycleOne_LearningGuideChecks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(guideHTML))
	}))
	defer srv.Close()

	// The guide module is located through the course book listing, not by
	// modname.
	section := lms.Section{ID: 6, Name: "Guía de aprendizaje", Modules: []lms.Module{
		{ID: 60, Name: "Guía de aprendizaje", ModName: "resource", Visible: 1, Contents: []lms.ContentFile{
			{Type: "file", Filename: "index.html", FileURL: srv.URL + "/guide"},
		}},
	}}
	ectx := &evaluation.Context{
		Token:  "tok",
		Client: lms.NewClient(srv.URL, nil),
		Snapshot: &lms.Snapshot{
			Sections: []lms.Section{section},
			Books:    []lms.Book{{ID: 3, CourseModule: 60, Name: "Guía de aprendizaje"}},
		},
	}
	req := evaluation.Request{
		ContentName: "Guía de aprendizaje",
		Indicators: []taxonomy.Indicator{
			{ID: 2001, Name: "Contenido general de la guía de aprendizaje"},
			{ID: 2002, Name: "Porcentajes de evaluación de la guía"},
			{ID: 2003, Name: "Contenido de actividades de la guía"},
		},
		Matched: &matching.MatchedResource{
			Resource: taxonomy.Resource{ID: 20, Name: "Guía de aprendizaje"},
			Section:  &section,
		},
	}

	results := evaluate(t, CycleOne(), ectx, req)
	for _, res := range results {
		assert.Equal(t, 1, res.Result, "indicator %d: %s", res.IndicatorID, res.Observation)
	}
}

func TestCycleOne_LearningGuideFetchFailureDegradesToFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	section := lms.Section{ID: 6, Name: "Guía de aprendizaje", Modules: []lms.Module{
		{ID: 60, Name: "Guía de aprendizaje", ModName: "book", Visible: 1, Contents: []lms.ContentFile{
			{Type: "file", Filename: "index.html", FileURL: srv.URL + "/guide"},
		}},
	}}
	ectx := &evaluation.Context{
		Token:    "tok",
		Client:   lms.NewClient(srv.URL, nil),
		Snapshot: &lms.Snapshot{Sections: []lms.Section{section}},
	}
	req := evaluation.Request{
		ContentName: "Guía de aprendizaje",
		Indicators:  []taxonomy.Indicator{{ID: 2002, Name: "Porcentajes de evaluación de la guía"}},
		Matched: &matching.MatchedResource{
			Resource: taxonomy.Resource{ID: 20, Name: "Guía de aprendizaje"},
			Section:  &section,
		},
	}

	results := evaluate(t, CycleOne(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
	assert.NotEmpty(t, results[0].Observation)
}

func cycleTwoFixture() (*evaluation.Context, evaluation.Request) {
	sections := []lms.Section{
		{ID: 5, Name: "Actividades", Modules: []lms.Module{
			{ID: 50, Name: "Reto 1", ModName: "assign", Visible: 1, CompletionData: &lms.CompletionData{
				IsAutomatic: true,
				Details:     []lms.RuleDetail{{RuleName: lms.RuleCompletionSubmit}},
			}},
			{ID: 51, Name: "Foro temático", ModName: "forum", Visible: 1, CompletionData: &lms.CompletionData{
				IsAutomatic: true,
				Details:     []lms.RuleDetail{{RuleName: lms.RuleCompletionView}},
			}},
		}},
	}
	ectx := &evaluation.Context{Snapshot: &lms.Snapshot{Sections: sections}}
	req := evaluation.Request{
		Matched: &matching.MatchedResource{
			Sections:    sections,
			Assignments: []lms.Assignment{{ID: 1, CourseModule: 50, Name: "Reto 1", DueDate: 1710000000, Grade: 100}},
			Forums:      []lms.Forum{{ID: 2, CourseModule: 51, Name: "Foro temático", Type: "general"}},
		},
	}
	return ectx, req
}

func TestCycleTwo_Challenges(t *testing.T) {
	ectx, req := cycleTwoFixture()
	req.ContentName = "Retos del programa"
	req.Indicators = []taxonomy.Indicator{
		{ID: 301, Name: "Contenido general de los retos"},
		{ID: 302, Name: "Fechas de entrega"},
		{ID: 303, Name: "Reglas de finalización"},
	}

	results := evaluate(t, CycleTwo(), ectx, req)
	for _, res := range results {
		assert.Equal(t, 1, res.Result, "indicator %d: %s", res.IndicatorID, res.Observation)
	}
}

func TestCycleTwo_ChallengeWithoutDueDateFails(t *testing.T) {
	ectx, req := cycleTwoFixture()
	req.ContentName = "Retos del programa"
	req.Indicators = []taxonomy.Indicator{{ID: 302, Name: "Fechas de entrega"}}
	req.Matched.Assignments[0].DueDate = 0

	results := evaluate(t, CycleTwo(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
}

func TestCycleTwo_DiscussionForumCompletion(t *testing.T) {
	ectx, req := cycleTwoFixture()
	req.ContentName = "Foro de discusión"
	req.Indicators = []taxonomy.Indicator{
		{ID: 310, Name: "Contenido general del foro"},
		{ID: 311, Name: "Reglas de finalización"},
	}

	results := evaluate(t, CycleTwo(), ectx, req)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)
	assert.Equal(t, 1, results[1].Result, results[1].Observation)

	ectx.Snapshot.Sections[0].Modules[1].CompletionData = nil
	results = evaluate(t, CycleTwo(), ectx, req)
	assert.Equal(t, 0, results[1].Result)
}

func finalQuizFixture() (*evaluation.Context, evaluation.Request) {
	section := lms.Section{ID: 7, Name: "Evaluación final", Modules: []lms.Module{
		{
			ID: 70, Name: "Cuestionario de evaluación final", ModName: "quiz", Visible: 1,
			Availability: `{"op":"&","c":[
				{"type":"grade","id":8,"min":70},
				{"type":"date","d":">=","t":1700000000},
				{"type":"completion","cm":60,"e":1}
			]}`,
		},
	}}
	ectx := &evaluation.Context{Snapshot: &lms.Snapshot{
		Sections: []lms.Section{section},
		Quizzes: []lms.Quiz{{
			ID: 12, CourseModule: 70,
			Attempts: 0, GracePeriod: 86400, GradeMethod: 1,
			TimeOpen: 1700000000, TimeClose: 1710000000,
		}},
	}}
	req := evaluation.Request{
		ContentName: "Cuestionario de evaluación final",
		Indicators: []taxonomy.Indicator{
			{ID: 4001, Name: "Restricciones de acceso"},
			{ID: 4002, Name: "Fechas de apertura y cierre"},
		},
		Matched: &matching.MatchedResource{
			Resource: taxonomy.Resource{ID: 40, Name: "Cuestionario de evaluación final"},
			Section:  &ectx.Snapshot.Sections[0],
		},
		Config: &taxonomy.ResourceConfig{GradeMethod: 1, GracePeriod: 86400, MinConditions: 2},
	}
	return ectx, req
}

func TestCycleThree_FinalQuizGatesOnCompletedMaterial(t *testing.T) {
	ectx, req := finalQuizFixture()

	results := evaluate(t, CycleThree(), ectx, req)
	for _, res := range results {
		assert.Equal(t, 1, res.Result, "indicator %d: %s", res.IndicatorID, res.Observation)
	}

	ectx.Snapshot.Sections[0].Modules[0].Availability = `{"op":"&","c":[
		{"type":"grade","id":8,"min":70},
		{"type":"date","d":">=","t":1700000000}
	]}`
	req.Indicators = []taxonomy.Indicator{{ID: 4001, Name: "Restricciones de acceso"}}
	results = evaluate(t, CycleThree(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
}

func TestCycleThree_FinalQuizReversedWindowFails(t *testing.T) {
	ectx, req := finalQuizFixture()
	ectx.Snapshot.Quizzes[0].TimeOpen = 1710000000
	ectx.Snapshot.Quizzes[0].TimeClose = 1700000000
	req.Indicators = []taxonomy.Indicator{{ID: 4002, Name: "Fechas de apertura y cierre"}}

	results := evaluate(t, CycleThree(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
}

func TestCycleThree_LessonRetakes(t *testing.T) {
	section := lms.Section{ID: 8, Name: "Material de formación", Modules: []lms.Module{
		{ID: 80, Name: "Lección 1", ModName: "lesson", Visible: 1},
	}}
	ectx := &evaluation.Context{Snapshot: &lms.Snapshot{
		Sections: []lms.Section{section},
		Lessons:  []lms.Lesson{{ID: 4, CourseModule: 80, Name: "Lección 1", Retake: 1}},
	}}
	req := evaluation.Request{
		ContentName: "Material de formación",
		Indicators:  []taxonomy.Indicator{{ID: 4101, Name: "Intentos de las lecciones"}},
		Matched:     &matching.MatchedResource{Section: &section},
	}

	results := evaluate(t, CycleThree(), ectx, req)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)

	ectx.Snapshot.Lessons[0].Retake = 0
	results = evaluate(t, CycleThree(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
}

func TestCycleThree_ClosingSectionMentionsCertificate(t *testing.T) {
	section := lms.Section{
		ID: 9, Name: "Cierre del programa", Visible: 1,
		Summary: "<p>Al finalizar recibirá el certificado del programa.</p>",
		Modules: []lms.Module{{ID: 90, Name: "Encuesta de cierre", Visible: 1}},
	}
	req := evaluation.Request{
		ContentName: "Cierre del programa",
		Indicators: []taxonomy.Indicator{
			{ID: 4201, Name: "Estructura de la sección de cierre"},
			{ID: 4202, Name: "Contenido de la sección de cierre"},
		},
		Matched: &matching.MatchedResource{Section: &section},
	}

	results := evaluate(t, CycleThree(), &evaluation.Context{}, req)
	assert.Equal(t, 1, results[0].Result, results[0].Observation)
	assert.Equal(t, 1, results[1].Result, results[1].Observation)

	section.Summary = "<p>Gracias por participar.</p>"
	results = evaluate(t, CycleThree(), &evaluation.Context{}, req)
	byID := map[int]evaluation.IndicatorResult{}
	for _, res := range results {
		byID[res.IndicatorID] = res
	}
	assert.Equal(t, 1, byID[4201].Result, byID[4201].Observation)
	assert.Equal(t, 0, byID[4202].Result)
}

func TestCycleTwo_NoActivitiesFail(t *testing.T) {
	ectx := &evaluation.Context{Snapshot: &lms.Snapshot{}}
	req := evaluation.Request{
		ContentName: "Retos del programa",
		Indicators:  []taxonomy.Indicator{{ID: 301, Name: "Contenido general"}},
		Matched:     &matching.MatchedResource{},
	}

	results := evaluate(t, CycleTwo(), ectx, req)
	assert.Equal(t, 0, results[0].Result)
}
