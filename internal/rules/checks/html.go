package checks

import (
	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/lms"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/htmlq"
)

// SummaryHTML returns the HTML fragment describing the matched object: the
// section summary when the match is section-level, the module description
// otherwise.
func SummaryHTML(req *evaluation.Request) string {
	if req.Module != nil && req.Module.Description != "" {
		return req.Module.Description
	}
	if req.Matched == nil {
		return ""
	}
	if req.Matched.Section != nil {
		return req.Matched.Section.Summary
	}
	if req.Matched.Module != nil {
		return req.Matched.Module.Description
	}
	return ""
}

// SummaryHasImage verifies the matched object's HTML fragment contains an
// image.
func SummaryHasImage(req *evaluation.Request) evaluation.Outcome {
	html := SummaryHTML(req)
	if html == "" {
		return evaluation.Failed("El recurso no tiene descripción donde ubicar la imagen.")
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Failed("La descripción del recurso no se pudo interpretar: %v", err)
	}
	if !doc.HasImage() {
		return evaluation.Failed("La descripción del recurso no contiene imágenes.")
	}
	return evaluation.Passed("La descripción del recurso contiene la imagen esperada.")
}

// BoldHeadingWithContent verifies the fragment contains a bolded heading
// followed by non-empty content.
func BoldHeadingWithContent(html, heading string) evaluation.Outcome {
	if html == "" {
		return evaluation.Failed("El recurso no tiene contenido HTML para revisar.")
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Failed("El contenido HTML no se pudo interpretar: %v", err)
	}
	content, found := doc.BoldHeadingContent(heading)
	if !found {
		return evaluation.Failed("No se encontró el encabezado %q.", heading)
	}
	if content == "" {
		return evaluation.Failed("El encabezado %q no tiene contenido asociado.", heading)
	}
	return evaluation.Passed("El encabezado y su contenido están presentes.")
}

// RequiredLinks verifies every required link appears among the fragment's
// anchors.
func RequiredLinks(html string, required []string) evaluation.Outcome {
	if len(required) == 0 {
		return evaluation.Passed("El recurso no exige enlaces obligatorios.")
	}
	doc, err := htmlq.Parse(html)
	if err != nil {
		return evaluation.Failed("El contenido HTML no se pudo interpretar: %v", err)
	}
	links := doc.Links()
	for _, want := range required {
		found := false
		for _, link := range links {
			if link == want {
				found = true
				break
			}
		}
		if !found {
			return evaluation.Failed("Falta el enlace obligatorio %s.", want)
		}
	}
	return evaluation.Passed("Todos los enlaces obligatorios están presentes.")
}

// FolderFileText returns the matched file's extracted text, falling back
// to the file name.
func FolderFileText(file *lms.ContentFile) string {
	if file == nil {
		return ""
	}
	if file.Content != "" {
		return file.Content
	}
	return file.Filename
}
