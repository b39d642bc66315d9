// Package training implements the rule registries for the training-design
// area (diseño de formación): one registry per curriculum cycle. The
// checks focus on pedagogical content, such as presentation sections,
// learning guides, study material lessons, quizzes and challenge
// activities.
package training

import (
	"context"
	"regexp"

	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/matching"
	"github.com/jonkmatsumo/classroom-auditor/internal/normalize"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/checks"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/htmlq"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// defaultMinQuestionPages applies when a study-material resource has no
// configured minimum.
const defaultMinQuestionPages = 4

// Learning-guide table header synonyms, as they appear across programs.
var learningOutcomeHeaders = []string{
	"resultado de aprendizaje",
	"resultados de aprendizaje",
	"logros de aprendizaje",
}

// Evidence labels whose percentages must sum to 100 in the learning guide.
var evidenceLabels = []string{"conocimiento", "desempeño", "producto"}

// Organizational builds the registry for the organizational-aspects cycle.
func Organizational() *evaluation.Registry {
	r := evaluation.NewRegistry("training/organizational")

	r.Register(evaluation.ContentPresentation, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkPresentationContent,
		evaluation.TopicStructure: checkPresentationStructure,
	})
	r.Register(evaluation.ContentMindMap, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkFolderFilePresent,
	})
	r.Register(evaluation.ContentSchedule, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkFolderFilePresent,
		evaluation.TopicDates:   checkScheduleHasDates,
	})
	r.Register(evaluation.ContentProgramProject, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkFolderFilePresent,
	})
	r.Register(evaluation.ContentSocialForum, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkSocialForumExists,
		evaluation.TopicCompletion: checkForumCompletion,
	})
	return r
}

// CycleOne builds the registry for cycle 1.
func CycleOne() *evaluation.Registry {
	r := evaluation.NewRegistry("training/cycle1")

	r.Register(evaluation.ContentLearningGuide, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:     checkLearningGuideOutcomes,
		evaluation.TopicPercentages: checkLearningGuidePercentages,
		evaluation.TopicContent:     checkLearningGuideActivities,
	})
	r.Register(evaluation.ContentStudyMaterial, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkStudyMaterialLessons,
		evaluation.TopicCompletion: checkLessonCompletion,
	})
	r.Register(evaluation.ContentQuiz, quizEvaluator())
	r.Register(evaluation.ContentBibliography, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkBibliographySection,
		evaluation.TopicStructure: checkDigitalDocuments,
	})
	r.Register(evaluation.ContentDigitalDocuments, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkDigitalDocuments,
		evaluation.TopicStructure: checkDigitalDocuments,
	})
	r.Register(evaluation.ContentGlossary, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkGlossaryPresent,
	})
	return r
}

// CycleTwo builds the registry for cycle 2, whose resources match coarsely
// against the filtered section list, assignments and forums.
func CycleTwo() *evaluation.Registry {
	r := evaluation.NewRegistry("training/cycle2")

	r.Register(evaluation.ContentChallenge, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkChallengesConfigured,
		evaluation.TopicDates:      checkChallengeDueDates,
		evaluation.TopicCompletion: checkChallengeCompletion,
	})
	r.Register(evaluation.ContentDiscussionForum, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkDiscussionForums,
		evaluation.TopicCompletion: checkDiscussionForumCompletion,
	})
	r.Register(evaluation.ContentLearningGuide, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkGuideModulePresent,
	})
	return r
}

// CycleThree builds the registry for cycle 3, where the final evaluation
// carries stricter rules than the self-assessment quizzes: it must gate on
// completing the study material and declare a coherent date window.
func CycleThree() *evaluation.Registry {
	r := evaluation.NewRegistry("training/cycle3")

	r.Register(evaluation.ContentQuiz, finalQuizEvaluator())
	r.Register(evaluation.ContentStudyMaterial, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkStudyMaterialLessons,
		evaluation.TopicCompletion: checkLessonCompletion,
		evaluation.TopicAttempts:   checkLessonRetakes,
	})
	r.Register(evaluation.ContentClosing, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkClosingSection,
		evaluation.TopicStructure: checkClosingSection,
		evaluation.TopicContent:   checkClosingCertificate,
	})
	return r
}

func quizEvaluator() evaluation.ContentEvaluator {
	return evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkQuizPresent,
		evaluation.TopicTimingGrades: checkQuizTimingGrading,
		evaluation.TopicAttempts:     checkQuizAttempts,
		evaluation.TopicRestrictions: checkQuizRestrictions,
		evaluation.TopicSecurity:     checkQuizSecurity,
	}
}

func finalQuizEvaluator() evaluation.ContentEvaluator {
	return evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkQuizPresent,
		evaluation.TopicTimingGrades: checkQuizTimingGrading,
		evaluation.TopicAttempts:     checkQuizAttempts,
		evaluation.TopicRestrictions: checkFinalQuizRestrictions,
		evaluation.TopicSecurity:     checkQuizSecurity,
		evaluation.TopicDates:        checkFinalQuizWindow,
	}
}

func checkPresentationContent(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	html := checks.SummaryHTML(req)
	if html == "" {
		return evaluation.Failed("La sección de presentación no tiene descripción."), nil
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	if doc.IsEmpty() {
		return evaluation.Failed("La descripción de la presentación está vacía."), nil
	}
	return evaluation.Passed("La presentación del programa tiene contenido."), nil
}

func checkPresentationStructure(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || req.Matched.Section == nil {
		return evaluation.Failed("La presentación no corresponde a una sección del aula."), nil
	}
	visible := 0
	for _, m := range req.Matched.Section.Modules {
		if m.Visible != 0 {
			visible++
		}
	}
	if visible == 0 {
		return evaluation.Failed("La sección de presentación no tiene módulos visibles."), nil
	}
	return evaluation.Passed("La sección de presentación tiene módulos visibles."), nil
}

// checkFolderFilePresent passes when the content node was fuzzy-matched to
// a file inside the pedagogical folder.
func checkFolderFilePresent(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.File == nil {
		return evaluation.Failed("No se encontró el archivo correspondiente en la carpeta pedagógica."), nil
	}
	return evaluation.Passed("El archivo está presente en la carpeta pedagógica."), nil
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

func checkScheduleHasDates(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	text := checks.FolderFileText(req.File)
	if text == "" {
		return evaluation.Failed("No se encontró el cronograma en la carpeta pedagógica."), nil
	}
	if !yearPattern.MatchString(text) {
		return evaluation.Failed("El cronograma no menciona fechas."), nil
	}
	return evaluation.Passed("El cronograma define fechas."), nil
}

func checkSocialForumExists(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.FindModuleByModName(req.Matched, "forum")
	if module == nil {
		return evaluation.Failed("No se encontró el foro social en el aula."), nil
	}
	for _, f := range ectx.Snapshot.Forums {
		if f.CourseModule == module.ID && f.Type == lms.ForumTypeNews {
			return evaluation.Failed("El foro social no puede ser el foro de avisos."), nil
		}
	}
	return evaluation.Passed("El foro social está presente."), nil
}

func checkForumCompletion(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.FindModuleByModName(req.Matched, "forum")
	if module == nil {
		return evaluation.Failed("No se encontró el foro para evaluar reglas de finalización."), nil
	}
	return checks.Completion(module, lms.RuleCompletionView, true), nil
}

// learningGuideHTML fetches the learning guide chapter HTML through the
// matched book or resource module's first content file.
func learningGuideHTML(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request) (string, error) {
	module := checks.ResolveModule(req)
	if module == nil || len(module.Contents) == 0 {
		module = guideBookModule(ectx.Snapshot, req.Matched)
	}
	if module == nil || len(module.Contents) == 0 {
		return "", checks.ErrNoModule
	}
	return ectx.Client.FileHTML(ctx, ectx.Token, module.Contents[0].FileURL)
}

// guideBookModule locates the matched resource's book activity through the
// course book listing, falling back to modname for snapshots where the
// listing was unavailable.
func guideBookModule(snapshot *lms.Snapshot, matched *matching.MatchedResource) *lms.Module {
	if matched == nil {
		return nil
	}
	var pool []lms.Section
	if matched.Section != nil {
		pool = []lms.Section{*matched.Section}
	} else {
		pool = matched.Sections
	}
	for i := range pool {
		for j := range pool[i].Modules {
			m := &pool[i].Modules[j]
			if len(m.Contents) > 0 && snapshot.BookForModule(m) != nil {
				return m
			}
		}
	}
	return checks.FindModuleByModName(matched, "book")
}

func checkLearningGuideOutcomes(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	html, err := learningGuideHTML(ctx, ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	cells, found := doc.RowByHeader(learningOutcomeHeaders...)
	if !found {
		return evaluation.Failed("La guía de aprendizaje no tiene la fila de resultados de aprendizaje."), nil
	}
	for _, cell := range cells {
		if cell != "" {
			return evaluation.Passed("La guía de aprendizaje declara resultados de aprendizaje."), nil
		}
	}
	return evaluation.Failed("La fila de resultados de aprendizaje está vacía."), nil
}

func checkLearningGuidePercentages(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	html, err := learningGuideHTML(ctx, ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	if !doc.PercentagesSumTo(100, evidenceLabels...) {
		return evaluation.Failed("Los porcentajes de evaluación de la guía no suman 100%%."), nil
	}
	return evaluation.Passed("Los porcentajes de evaluación suman 100%."), nil
}

// guideActivitiesHeading is the bolded section every learning guide must
// develop, not merely announce.
const guideActivitiesHeading = "actividades de aprendizaje"

func checkLearningGuideActivities(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	html, err := learningGuideHTML(ctx, ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	return checks.BoldHeadingWithContent(html, guideActivitiesHeading), nil
}

func checkStudyMaterialLessons(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	modules := lessonModules(req)
	if len(modules) == 0 {
		return evaluation.Failed("El material de formación no tiene lecciones."), nil
	}
	minPages := defaultMinQuestionPages
	if req.Config != nil && req.Config.MinQuestionPages > 0 {
		minPages = req.Config.MinQuestionPages
	}
	return checks.MinQuestionPages(ctx, ectx, modules, minPages), nil
}

func checkLessonCompletion(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	modules := lessonModules(req)
	if len(modules) == 0 {
		return evaluation.Failed("El material de formación no tiene lecciones."), nil
	}
	for i := range modules {
		outcome := checks.Completion(&modules[i], lms.RuleCompletionView, true)
		if !outcome.Passed {
			return outcome, nil
		}
	}
	return evaluation.Passed("Todas las lecciones tienen reglas de finalización."), nil
}

func lessonModules(req *evaluation.Request) []lms.Module {
	if req.Matched == nil {
		return nil
	}
	var pool []lms.Section
	if req.Matched.Section != nil {
		pool = []lms.Section{*req.Matched.Section}
	} else if len(req.Matched.Sections) > 0 {
		pool = req.Matched.Sections
	} else if req.Matched.Module != nil {
		if req.Matched.Module.ModName == "lesson" {
			return []lms.Module{*req.Matched.Module}
		}
		return nil
	}
	var modules []lms.Module
	for _, section := range pool {
		for _, m := range section.Modules {
			if m.ModName == "lesson" {
				modules = append(modules, m)
			}
		}
	}
	return modules
}

func checkQuizPresent(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if _, err := checks.QuizForRequest(ectx, req); err != nil {
		return evaluation.Failed("No se encontró el cuestionario en el aula."), nil
	}
	return evaluation.Passed("El cuestionario está presente."), nil
}

func checkQuizTimingGrading(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	quiz, err := checks.QuizForRequest(ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	return checks.TimingGrading(quiz, req.Config), nil
}

func checkQuizAttempts(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	quiz, err := checks.QuizForRequest(ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	return checks.UnlimitedAttempts(quiz), nil
}

func quizModule(req *evaluation.Request) *lms.Module {
	module := checks.ResolveModule(req)
	if module == nil || module.ModName != "quiz" {
		module = checks.FindModuleByModName(req.Matched, "quiz")
	}
	return module
}

func checkQuizRestrictions(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	minConditions := 2
	if req.Config != nil && req.Config.MinConditions > 0 {
		minConditions = req.Config.MinConditions
	}
	return checks.Restrictions(quizModule(req), minConditions), nil
}

// checkFinalQuizRestrictions applies the shared restriction rules and
// additionally requires a completion condition, so the final evaluation
// only opens once the study material is done.
func checkFinalQuizRestrictions(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request, ind taxonomy.Indicator) (evaluation.Outcome, error) {
	outcome, err := checkQuizRestrictions(ctx, ectx, req, ind)
	if err != nil || !outcome.Passed {
		return outcome, err
	}
	module := quizModule(req)
	availability, err := lms.ParseAvailability(module.Availability)
	if err != nil {
		return evaluation.Failed("Las restricciones de acceso no se pudieron interpretar: %v", err), nil
	}
	if len(availability.ConditionsOfType(lms.ConditionCompletion)) == 0 {
		return evaluation.Failed("La evaluación final no exige completar las actividades previas."), nil
	}
	return evaluation.Passed("La evaluación final exige completar las actividades previas."), nil
}

func checkFinalQuizWindow(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	quiz, err := checks.QuizForRequest(ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	return checks.QuizWindow(quiz), nil
}

// checkLessonRetakes verifies every study-material lesson allows retakes,
// so learners can review the material before the final evaluation.
func checkLessonRetakes(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	modules := lessonModules(req)
	if len(modules) == 0 {
		return evaluation.Failed("El material de formación no tiene lecciones."), nil
	}
	for i := range modules {
		lesson := ectx.Snapshot.LessonForModule(&modules[i])
		if lesson == nil {
			return evaluation.Failed("La lección %q no aparece en el listado de lecciones del aula.", modules[i].Name), nil
		}
		if lesson.Retake == 0 {
			return evaluation.Failed("La lección %q no permite repasos.", lesson.Name), nil
		}
	}
	return evaluation.Passed("Todas las lecciones permiten repasos."), nil
}

func checkClosingSection(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || req.Matched.Section == nil {
		return evaluation.Failed("No se encontró la sección de cierre."), nil
	}
	visible := 0
	for _, m := range req.Matched.Section.Modules {
		if m.Visible != 0 {
			visible++
		}
	}
	if visible == 0 {
		return evaluation.Failed("La sección de cierre no tiene módulos visibles."), nil
	}
	return evaluation.Passed("La sección de cierre tiene módulos visibles."), nil
}

// certificateKeyword must appear in the closing section so learners know
// how the program certificate is issued.
const certificateKeyword = "certificado"

func checkClosingCertificate(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	html := checks.SummaryHTML(req)
	if html == "" {
		return evaluation.Failed("La sección de cierre no tiene descripción."), nil
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	if !doc.ContainsText(certificateKeyword) {
		return evaluation.Failed("La sección de cierre no menciona el certificado del programa."), nil
	}
	return evaluation.Passed("La sección de cierre explica la certificación del programa."), nil
}

func checkQuizSecurity(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	quiz, err := checks.QuizForRequest(ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	return checks.Security(quiz), nil
}

func checkBibliographySection(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || (req.Matched.Section == nil && req.Matched.Module == nil) {
		return evaluation.Failed("No se encontró la sección de bibliografía."), nil
	}
	html := checks.SummaryHTML(req)
	if html != "" {
		doc, err := htmlq.Parse(html)
		if err == nil && !doc.IsEmpty() {
			return evaluation.Passed("La bibliografía tiene descripción."), nil
		}
	}
	if checks.FindModuleByModName(req.Matched, "folder") != nil {
		return evaluation.Passed("La bibliografía tiene carpeta de documentos."), nil
	}
	return evaluation.Failed("La bibliografía no tiene descripción ni carpeta de documentos."), nil
}

func checkDigitalDocuments(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.ResolveModule(req)
	if module == nil || module.ModName != "folder" {
		module = checks.FindModuleByModName(req.Matched, "folder")
	}
	return checks.DigitalDocumentsOrderedByUnit(module), nil
}

func checkGlossaryPresent(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if module := checks.FindModuleByModName(req.Matched, "glossary"); module != nil {
		return evaluation.Passed("El glosario está presente."), nil
	}
	if module := checks.ResolveModule(req); module != nil && normalize.ContainsFold(module.Name, "glosario") {
		return evaluation.Passed("El glosario está presente."), nil
	}
	return evaluation.Failed("No se encontró el glosario en el aula."), nil
}

func checkChallengesConfigured(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Assignments) == 0 {
		return evaluation.Failed("El aula no tiene retos configurados."), nil
	}
	for _, a := range req.Matched.Assignments {
		if a.Grade == 0 {
			return evaluation.Failed("El reto %q no tiene calificación configurada.", a.Name), nil
		}
	}
	return evaluation.Passed("Los retos están configurados con calificación."), nil
}

func checkChallengeDueDates(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Assignments) == 0 {
		return evaluation.Failed("El aula no tiene retos configurados."), nil
	}
	for _, a := range req.Matched.Assignments {
		if a.DueDate == 0 {
			return evaluation.Failed("El reto %q no tiene fecha de entrega.", a.Name), nil
		}
	}
	return evaluation.Passed("Todos los retos tienen fecha de entrega."), nil
}

func checkChallengeCompletion(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Assignments) == 0 {
		return evaluation.Failed("El aula no tiene retos configurados."), nil
	}
	for _, a := range req.Matched.Assignments {
		module := ectx.Snapshot.ModuleByID(a.CourseModule)
		if module == nil {
			return evaluation.Failed("El reto %q no aparece en la estructura del aula.", a.Name), nil
		}
		outcome := checks.Completion(module, lms.RuleCompletionSubmit, true)
		if !outcome.Passed {
			return evaluation.Failed("Reto %q: %s", a.Name, outcome.Observation), nil
		}
	}
	return evaluation.Passed("Todos los retos exigen entrega para su finalización."), nil
}

func checkDiscussionForums(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Forums) == 0 {
		return evaluation.Failed("El aula no tiene foros de discusión."), nil
	}
	for _, f := range req.Matched.Forums {
		if f.Type == lms.ForumTypeNews {
			return evaluation.Failed("El foro %q es el foro de avisos.", f.Name), nil
		}
	}
	return evaluation.Passed("El aula tiene foros de discusión."), nil
}

func checkDiscussionForumCompletion(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Forums) == 0 {
		return evaluation.Failed("El aula no tiene foros de discusión."), nil
	}
	for _, f := range req.Matched.Forums {
		module := ectx.Snapshot.ModuleByID(f.CourseModule)
		if module == nil {
			return evaluation.Failed("El foro %q no aparece en la estructura del aula.", f.Name), nil
		}
		outcome := checks.Completion(module, lms.RuleCompletionView, true)
		if !outcome.Passed {
			return evaluation.Failed("Foro %q: %s", f.Name, outcome.Observation), nil
		}
	}
	return evaluation.Passed("Todos los foros de discusión tienen reglas de finalización."), nil
}

func checkGuideModulePresent(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil {
		return evaluation.Failed("No se encontró la guía de aprendizaje."), nil
	}
	for _, section := range req.Matched.Sections {
		for _, m := range section.Modules {
			if normalize.ContainsFold(m.Name, "guia") {
				return evaluation.Passed("La guía de aprendizaje está presente."), nil
			}
		}
	}
	return evaluation.Failed("No se encontró la guía de aprendizaje en las secciones del ciclo."), nil
}
