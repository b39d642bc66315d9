// Package technical implements the rule registries for the technical-design
// area (diseño técnico): one registry per curriculum cycle. The checks
// focus on platform configuration, such as availability restrictions,
// completion tracking, quiz timing and security, and document structure.
package technical

import (
	"context"

	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/checks"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// Organizational builds the registry for the organizational-aspects cycle.
func Organizational() *evaluation.Registry {
	r := evaluation.NewRegistry("technical/organizational")

	r.Register(evaluation.ContentPresentation, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkSectionVisible,
		evaluation.TopicStructure: checkSectionVisible,
		evaluation.TopicImages:    checkSummaryImage,
	})
	r.Register(evaluation.ContentSocialForum, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkForumVisible,
		evaluation.TopicCompletion: checkForumViewCompletion,
	})
	r.Register(evaluation.ContentMindMap, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkFolderFile,
	})
	r.Register(evaluation.ContentSchedule, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkFolderFile,
		evaluation.TopicDates:   checkFolderFile,
	})
	r.Register(evaluation.ContentProgramProject, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkFolderFile,
	})
	return r
}

// CycleOne builds the registry for cycle 1.
func CycleOne() *evaluation.Registry {
	r := evaluation.NewRegistry("technical/cycle1")

	r.Register(evaluation.ContentQuiz, quizEvaluator())
	r.Register(evaluation.ContentStudyMaterial, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkLessonsVisible,
		evaluation.TopicCompletion:   checkLessonViewCompletion,
		evaluation.TopicRestrictions: checkModuleRestrictions,
	})
	r.Register(evaluation.ContentLearningGuide, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkModuleVisible,
		evaluation.TopicLinks:   checkRequiredLinks,
	})
	r.Register(evaluation.ContentBibliography, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkSectionVisible,
		evaluation.TopicStructure: checkDigitalDocumentsStructure,
	})
	r.Register(evaluation.ContentDigitalDocuments, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkDigitalDocumentsStructure,
		evaluation.TopicStructure: checkDigitalDocumentsStructure,
	})
	r.Register(evaluation.ContentGlossary, evaluation.ContentEvaluator{
		evaluation.TopicGeneral: checkModuleVisible,
	})
	return r
}

// CycleTwo builds the registry for cycle 2.
func CycleTwo() *evaluation.Registry {
	r := evaluation.NewRegistry("technical/cycle2")

	r.Register(evaluation.ContentChallenge, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkChallengeModules,
		evaluation.TopicDates:        checkChallengeDates,
		evaluation.TopicCompletion:   checkChallengeSubmitCompletion,
		evaluation.TopicRestrictions: checkChallengeRestrictions,
	})
	r.Register(evaluation.ContentDiscussionForum, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:    checkForumModules,
		evaluation.TopicCompletion: checkForumModulesCompletion,
	})
	return r
}

// CycleThree builds the registry for cycle 3. The final evaluation adds a
// completion gate and a coherent date window on top of the shared quiz
// configuration rules.
func CycleThree() *evaluation.Registry {
	r := evaluation.NewRegistry("technical/cycle3")

	r.Register(evaluation.ContentQuiz, finalQuizEvaluator())
	r.Register(evaluation.ContentStudyMaterial, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkLessonsVisible,
		evaluation.TopicCompletion:   checkLessonViewCompletion,
		evaluation.TopicRestrictions: checkModuleRestrictions,
	})
	r.Register(evaluation.ContentClosing, evaluation.ContentEvaluator{
		evaluation.TopicGeneral:   checkSectionVisible,
		evaluation.TopicStructure: checkSectionVisible,
		evaluation.TopicImages:    checkSummaryImage,
	})
	return r
}

func quizEvaluator() evaluation.ContentEvaluator {
	return evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkModuleVisible,
		evaluation.TopicTimingGrades: checkQuizTiming,
		evaluation.TopicAttempts:     checkQuizAttempts,
		evaluation.TopicRestrictions: checkModuleRestrictions,
		evaluation.TopicSecurity:     checkQuizSecurity,
		evaluation.TopicCompletion:   checkQuizPassGradeCompletion,
	}
}

func finalQuizEvaluator() evaluation.ContentEvaluator {
	return evaluation.ContentEvaluator{
		evaluation.TopicGeneral:      checkModuleVisible,
		evaluation.TopicTimingGrades: checkQuizTiming,
		evaluation.TopicAttempts:     checkQuizAttempts,
		evaluation.TopicRestrictions: checkFinalQuizGate,
		evaluation.TopicSecurity:     checkQuizSecurity,
		evaluation.TopicCompletion:   checkQuizPassGradeCompletion,
		evaluation.TopicDates:        checkFinalQuizWindow,
	}
}

func checkSectionVisible(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || req.Matched.Section == nil {
		return evaluation.Failed("El recurso no corresponde a una sección del aula."), nil
	}
	if req.Matched.Section.Visible == 0 {
		return evaluation.Failed("La sección %q está oculta.", req.Matched.Section.Name), nil
	}
	return evaluation.Passed("La sección está visible."), nil
}

func checkModuleVisible(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.ResolveModule(req)
	if module == nil {
		return evaluation.Failed("No se encontró el módulo en el aula."), nil
	}
	if module.Visible == 0 {
		return evaluation.Failed("El módulo %q está oculto.", module.Name), nil
	}
	return evaluation.Passed("El módulo está visible."), nil
}

func checkSummaryImage(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	return checks.SummaryHasImage(req), nil
}

func checkFolderFile(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.File == nil {
		return evaluation.Failed("No se encontró el archivo correspondiente en la carpeta pedagógica."), nil
	}
	return evaluation.Passed("El archivo está presente en la carpeta pedagógica."), nil
}

func checkForumVisible(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.FindModuleByModName(req.Matched, "forum")
	if module == nil {
		return evaluation.Failed("No se encontró el foro en el aula."), nil
	}
	if module.Visible == 0 {
		return evaluation.Failed("El foro %q está oculto.", module.Name), nil
	}
	return evaluation.Passed("El foro está visible."), nil
}

func checkForumViewCompletion(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.FindModuleByModName(req.Matched, "forum")
	if module == nil {
		return evaluation.Failed("No se encontró el foro para evaluar reglas de finalización."), nil
	}
	return checks.Completion(module, lms.RuleCompletionView, true), nil
}

func checkModuleRestrictions(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.ResolveModule(req)
	if module == nil || module.Availability == "" {
		if quizModule := checks.FindModuleByModName(req.Matched, "quiz"); quizModule != nil {
			module = quizModule
		}
	}
	minConditions := 2
	if req.Config != nil && req.Config.MinConditions > 0 {
		minConditions = req.Config.MinConditions
	}
	return checks.Restrictions(module, minConditions), nil
}

func checkQuizTiming(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
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

func checkQuizSecurity(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	quiz, err := checks.QuizForRequest(ectx, req)
	if err != nil {
		return evaluation.Outcome{}, err
	}
	return checks.Security(quiz), nil
}

// checkFinalQuizGate applies the shared restriction rules and additionally
// requires a completion condition, so the final evaluation only opens once
// the study material is done.
func checkFinalQuizGate(ctx context.Context, ectx *evaluation.Context, req *evaluation.Request, ind taxonomy.Indicator) (evaluation.Outcome, error) {
	outcome, err := checkModuleRestrictions(ctx, ectx, req, ind)
	if err != nil || !outcome.Passed {
		return outcome, err
	}
	module := checks.ResolveModule(req)
	if module == nil || module.ModName != "quiz" {
		module = checks.FindModuleByModName(req.Matched, "quiz")
	}
	if module == nil {
		return evaluation.Failed("No se encontró el cuestionario para evaluar restricciones de acceso."), nil
	}
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

func checkQuizPassGradeCompletion(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.ResolveModule(req)
	if module == nil || module.ModName != "quiz" {
		module = checks.FindModuleByModName(req.Matched, "quiz")
	}
	if module == nil {
		return evaluation.Failed("No se encontró el cuestionario para evaluar reglas de finalización."), nil
	}
	return checks.Completion(module, lms.RuleCompletionPassGrade, true), nil
}

func checkLessonsVisible(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	modules := lessonModules(req)
	if len(modules) == 0 {
		return evaluation.Failed("El material de formación no tiene lecciones."), nil
	}
	for _, m := range modules {
		if m.Visible == 0 {
			return evaluation.Failed("La lección %q está oculta.", m.Name), nil
		}
	}
	return evaluation.Passed("Todas las lecciones están visibles."), nil
}

func checkLessonViewCompletion(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	modules := lessonModules(req)
	if len(modules) == 0 {
		return evaluation.Failed("El material de formación no tiene lecciones."), nil
	}
	for i := range modules {
		outcome := checks.Completion(&modules[i], lms.RuleCompletionView, true)
		if !outcome.Passed {
			return evaluation.Failed("Lección %q: %s", modules[i].Name, outcome.Observation), nil
		}
	}
	return evaluation.Passed("Todas las lecciones tienen reglas de finalización."), nil
}

func lessonModules(req *evaluation.Request) []lms.Module {
	if req.Matched == nil {
		return nil
	}
	var pool []lms.Section
	switch {
	case req.Matched.Section != nil:
		pool = []lms.Section{*req.Matched.Section}
	case len(req.Matched.Sections) > 0:
		pool = req.Matched.Sections
	case req.Matched.Module != nil && req.Matched.Module.ModName == "lesson":
		return []lms.Module{*req.Matched.Module}
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

func checkRequiredLinks(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Config == nil || len(req.Config.RequiredLinks) == 0 {
		return evaluation.Failed("El recurso no define enlaces obligatorios que verificar."), nil
	}
	html := checks.SummaryHTML(req)
	if html == "" {
		return evaluation.Failed("El recurso no tiene descripción donde ubicar los enlaces."), nil
	}
	return checks.RequiredLinks(html, req.Config.RequiredLinks), nil
}

func checkDigitalDocumentsStructure(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	module := checks.ResolveModule(req)
	if module == nil || module.ModName != "folder" {
		module = checks.FindModuleByModName(req.Matched, "folder")
	}
	return checks.DigitalDocumentsOrderedByUnit(module), nil
}

func checkChallengeModules(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Assignments) == 0 {
		return evaluation.Failed("El aula no tiene retos configurados."), nil
	}
	for _, a := range req.Matched.Assignments {
		module := ectx.Snapshot.ModuleByID(a.CourseModule)
		if module == nil {
			return evaluation.Failed("El reto %q no aparece en la estructura del aula.", a.Name), nil
		}
		if module.Visible == 0 {
			return evaluation.Failed("El reto %q está oculto.", a.Name), nil
		}
	}
	return evaluation.Passed("Todos los retos están visibles en el aula."), nil
}

func checkChallengeDates(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Assignments) == 0 {
		return evaluation.Failed("El aula no tiene retos configurados."), nil
	}
	for _, a := range req.Matched.Assignments {
		if a.AllowSubmissionsFromDate == 0 || a.DueDate == 0 {
			return evaluation.Failed("El reto %q no tiene fechas de apertura y entrega.", a.Name), nil
		}
		if a.DueDate <= a.AllowSubmissionsFromDate {
			return evaluation.Failed("El reto %q cierra antes de abrir.", a.Name), nil
		}
	}
	return evaluation.Passed("Todos los retos tienen fechas coherentes."), nil
}

func checkChallengeSubmitCompletion(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
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

func checkChallengeRestrictions(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Assignments) == 0 {
		return evaluation.Failed("El aula no tiene retos configurados."), nil
	}
	minConditions := 1
	if req.Config != nil && req.Config.MinConditions > 0 {
		minConditions = req.Config.MinConditions
	}
	for _, a := range req.Matched.Assignments[1:] {
		// Every challenge after the first must gate on the previous one.
		module := ectx.Snapshot.ModuleByID(a.CourseModule)
		if module == nil {
			return evaluation.Failed("El reto %q no aparece en la estructura del aula.", a.Name), nil
		}
		availability, err := lms.ParseAvailability(module.Availability)
		if err != nil {
			return evaluation.Failed("Reto %q: las restricciones no se pudieron interpretar: %v", a.Name, err), nil
		}
		if availability == nil || len(availability.Conditions) < minConditions {
			return evaluation.Failed("El reto %q no tiene restricciones de acceso.", a.Name), nil
		}
	}
	return evaluation.Passed("Los retos encadenan sus restricciones de acceso."), nil
}

func checkForumModules(_ context.Context, _ *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
	if req.Matched == nil || len(req.Matched.Forums) == 0 {
		return evaluation.Failed("El aula no tiene foros de discusión."), nil
	}
	return evaluation.Passed("El aula tiene foros de discusión."), nil
}

func checkForumModulesCompletion(_ context.Context, ectx *evaluation.Context, req *evaluation.Request, _ taxonomy.Indicator) (evaluation.Outcome, error) {
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
