// Package checks implements the reusable indicator checks shared by the
// area/cycle rule modules: quiz configuration equality, availability and
// completion inspection, document structure and counting rules. Every
// check is a pure function of the run's snapshot plus, where noted, nested
// LMS lookups through the evaluation context.
package checks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/matching"
	"github.com/jonkmatsumo/classroom-auditor/internal/normalize"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// ErrNoModule reports that a check needed a matched module and none was
// available.
var ErrNoModule = errors.New("no matched module for check")

// ResolveModule returns the most specific module for a request: the
// located content module when present, otherwise the resource-level one.
func ResolveModule(req *evaluation.Request) *lms.Module {
	if req.Module != nil {
		return req.Module
	}
	if req.Matched != nil {
		return req.Matched.Module
	}
	return nil
}

// FindModuleByModName searches the matched LMS object for the first module
// of the given modname (e.g. "quiz", "lesson", "folder").
func FindModuleByModName(matched *matching.MatchedResource, modname string) *lms.Module {
	if matched == nil {
		return nil
	}
	if matched.Module != nil && matched.Module.ModName == modname {
		return matched.Module
	}
	var pool []lms.Section
	if matched.Section != nil {
		pool = []lms.Section{*matched.Section}
	} else {
		pool = matched.Sections
	}
	for i := range pool {
		for j := range pool[i].Modules {
			if pool[i].Modules[j].ModName == modname {
				return &pool[i].Modules[j]
			}
		}
	}
	return nil
}

// QuizForRequest resolves the quiz configuration backing a request.
func QuizForRequest(ectx *evaluation.Context, req *evaluation.Request) (*lms.Quiz, error) {
	module := ResolveModule(req)
	if module == nil || module.ModName != "quiz" {
		module = FindModuleByModName(req.Matched, "quiz")
	}
	if module == nil {
		return nil, ErrNoModule
	}
	quiz := ectx.Snapshot.QuizForModule(module)
	if quiz == nil {
		return nil, fmt.Errorf("quiz configuration for module %d not present in snapshot", module.ID)
	}
	return quiz, nil
}

// TimingGrading verifies the quiz timing and grading configuration:
// unlimited attempts (attempts = 0), the configured grace period and grade
// method, no time limit (or within the configured bound) and open/close
// dates set.
func TimingGrading(quiz *lms.Quiz, cfg *taxonomy.ResourceConfig) evaluation.Outcome {
	if cfg == nil {
		return evaluation.Failed("El recurso no tiene configuración esperada de temporalización.")
	}
	if quiz.Attempts != 0 {
		return evaluation.Failed("El cuestionario limita los intentos a %d; se esperan intentos ilimitados.", quiz.Attempts)
	}
	if quiz.GracePeriod != cfg.GracePeriod {
		return evaluation.Failed("El período de gracia es %d y se esperaba %d.", quiz.GracePeriod, cfg.GracePeriod)
	}
	if quiz.TimeLimit != 0 && (cfg.MaxTimeLimit == 0 || quiz.TimeLimit > cfg.MaxTimeLimit) {
		return evaluation.Failed("El cuestionario tiene límite de tiempo de %d segundos.", quiz.TimeLimit)
	}
	if quiz.GradeMethod != cfg.GradeMethod {
		return evaluation.Failed("El método de calificación es %d y se esperaba %d.", quiz.GradeMethod, cfg.GradeMethod)
	}
	if quiz.TimeOpen == 0 || quiz.TimeClose == 0 {
		return evaluation.Failed("El cuestionario no tiene fechas de apertura y cierre configuradas.")
	}
	return evaluation.Passed("El cuestionario cumple la temporalización y calificación esperadas.")
}

// UnlimitedAttempts verifies the quiz allows unlimited attempts.
func UnlimitedAttempts(quiz *lms.Quiz) evaluation.Outcome {
	if quiz.Attempts != 0 {
		return evaluation.Failed("El cuestionario limita los intentos a %d; se esperan intentos ilimitados.", quiz.Attempts)
	}
	return evaluation.Passed("El cuestionario permite intentos ilimitados.")
}

// Security verifies no extra security restriction is configured on the
// quiz: password, subnet restriction and browser security must all be
// unset.
func Security(quiz *lms.Quiz) evaluation.Outcome {
	if quiz.Password != "" {
		return evaluation.Failed("El cuestionario tiene contraseña configurada.")
	}
	if quiz.Subnet != "" {
		return evaluation.Failed("El cuestionario restringe el acceso por dirección de red.")
	}
	if quiz.BrowserSecurity != "" && quiz.BrowserSecurity != "-" {
		return evaluation.Failed("El cuestionario exige seguridad del navegador (%s).", quiz.BrowserSecurity)
	}
	return evaluation.Passed("El cuestionario no tiene restricciones de seguridad adicionales.")
}

// QuizWindow verifies the quiz declares open and close dates and that the
// window is coherent.
func QuizWindow(quiz *lms.Quiz) evaluation.Outcome {
	if quiz.TimeOpen == 0 || quiz.TimeClose == 0 {
		return evaluation.Failed("El cuestionario no tiene fechas de apertura y cierre configuradas.")
	}
	if quiz.TimeClose <= quiz.TimeOpen {
		return evaluation.Failed("El cuestionario cierra antes de abrir.")
	}
	return evaluation.Passed("Las fechas de apertura y cierre del cuestionario son coherentes.")
}

// Restrictions verifies the module's availability configuration: at least
// minConditions conditions, including a grade condition and a date
// condition whose operator is on-or-after.
func Restrictions(module *lms.Module, minConditions int) evaluation.Outcome {
	if module == nil {
		return evaluation.Failed("No se encontró el módulo para evaluar restricciones de acceso.")
	}
	availability, err := lms.ParseAvailability(module.Availability)
	if err != nil {
		return evaluation.Failed("Las restricciones de acceso no se pudieron interpretar: %v", err)
	}
	if availability == nil {
		return evaluation.Failed("El módulo no tiene restricciones de acceso configuradas.")
	}
	if len(availability.Conditions) < minConditions {
		return evaluation.Failed("El módulo tiene %d restricciones y se esperan al menos %d.", len(availability.Conditions), minConditions)
	}
	if len(availability.ConditionsOfType(lms.ConditionGrade)) == 0 {
		return evaluation.Failed("Falta la restricción de calificación previa.")
	}
	dates := availability.ConditionsOfType(lms.ConditionDate)
	if len(dates) == 0 {
		return evaluation.Failed("Falta la restricción de fecha.")
	}
	for _, d := range dates {
		if d.Direction != lms.DateOnOrAfter {
			return evaluation.Failed("La restricción de fecha usa el operador %q; se espera %q.", d.Direction, lms.DateOnOrAfter)
		}
	}
	return evaluation.Passed("Las restricciones de acceso cumplen la configuración esperada.")
}

// Completion verifies the module declares the named completion rule and,
// when requireAutomatic is set, that completion tracking is automatic.
func Completion(module *lms.Module, rule string, requireAutomatic bool) evaluation.Outcome {
	if module == nil {
		return evaluation.Failed("No se encontró el módulo para evaluar reglas de finalización.")
	}
	if module.CompletionData == nil {
		return evaluation.Failed("El módulo no tiene seguimiento de finalización configurado.")
	}
	if requireAutomatic && !module.CompletionData.IsAutomatic {
		return evaluation.Failed("El seguimiento de finalización no es automático.")
	}
	if !module.HasCompletionRule(rule) {
		return evaluation.Failed("Falta la regla de finalización %q.", rule)
	}
	return evaluation.Passed("Las reglas de finalización cumplen la configuración esperada.")
}

// DigitalDocumentsOrderedByUnit verifies a folder module groups its files
// into at least two distinct file paths, one of them named by unit.
func DigitalDocumentsOrderedByUnit(module *lms.Module) evaluation.Outcome {
	if module == nil || len(module.Contents) == 0 {
		return evaluation.Failed("La carpeta de documentos digitales no tiene archivos.")
	}
	paths := make(map[string]bool)
	hasUnit := false
	for _, file := range module.Contents {
		paths[file.Filepath] = true
		if normalize.ContainsFold(file.Filepath, "unidad") {
			hasUnit = true
		}
	}
	if len(paths) < 2 {
		return evaluation.Failed("Los documentos digitales no están organizados en carpetas.")
	}
	if !hasUnit {
		return evaluation.Failed("Ninguna carpeta de documentos digitales está nombrada por unidad.")
	}
	return evaluation.Passed("Los documentos digitales están organizados por unidad.")
}

// FolderNaming verifies every file in a folder module lives inside a named
// subfolder and carries a file name, rather than being dumped at the
// folder root.
func FolderNaming(module *lms.Module) evaluation.Outcome {
	if module == nil || len(module.Contents) == 0 {
		return evaluation.Failed("La carpeta no tiene archivos para revisar.")
	}
	for _, file := range module.Contents {
		if strings.TrimSpace(file.Filename) == "" {
			return evaluation.Failed("La carpeta contiene un archivo sin nombre.")
		}
		if strings.Trim(file.Filepath, "/") == "" {
			return evaluation.Failed("El archivo %q está en la raíz de la carpeta y no en una subcarpeta nombrada.", file.Filename)
		}
	}
	return evaluation.Passed("Los archivos de la carpeta están organizados en subcarpetas nombradas.")
}

// MinQuestionPages verifies that, across the given lesson modules, at
// least minPages lesson pages are auto-graded question pages. Page
// listings are fetched concurrently; a lesson whose pages cannot be
// fetched contributes zero rather than failing the whole count.
func MinQuestionPages(ctx context.Context, ectx *evaluation.Context, modules []lms.Module, minPages int) evaluation.Outcome {
	if len(modules) == 0 {
		return evaluation.Failed("No se encontraron lecciones para evaluar.")
	}

	var mu sync.Mutex
	questionPages := 0
	fetchFailures := 0

	g, gCtx := errgroup.WithContext(ctx)
	for i := range modules {
		module := modules[i]
		g.Go(func() error {
			lesson := ectx.Snapshot.LessonForModule(&module)
			if lesson == nil {
				return nil
			}
			pages, err := ectx.Client.LessonPages(gCtx, ectx.Token, lesson.ID)
			if err != nil {
				ectx.Logger.Warn().Err(err).Int("lesson", lesson.ID).Msg("lesson pages unavailable")
				mu.Lock()
				fetchFailures++
				mu.Unlock()
				return nil
			}
			count := 0
			for i := range pages {
				if pages[i].IsQuestion() {
					count++
				}
			}
			mu.Lock()
			questionPages += count
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if questionPages >= minPages {
		return evaluation.Passed(fmt.Sprintf("Las lecciones tienen %d páginas de pregunta autocalificadas.", questionPages))
	}
	if fetchFailures > 0 {
		return evaluation.Failed("Se contaron %d páginas de pregunta (mínimo %d); %d lecciones no se pudieron consultar.", questionPages, minPages, fetchFailures)
	}
	return evaluation.Failed("Las lecciones tienen %d páginas de pregunta y se esperan al menos %d.", questionPages, minPages)
}
