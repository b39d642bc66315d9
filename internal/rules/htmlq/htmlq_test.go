package htmlq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := Parse(html)
	require.NoError(t, err)
	return doc
}

func TestHasImage(t *testing.T) {
	assert.True(t, mustParse(t, `<p><img src="banner.png" alt=""/></p>`).HasImage())
	assert.False(t, mustParse(t, `<p>sin imágenes</p>`).HasImage())
	assert.False(t, mustParse(t, `<p><img src="  "/></p>`).HasImage())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, mustParse(t, `<div>   </div>`).IsEmpty())
	assert.False(t, mustParse(t, `<p>contenido</p>`).IsEmpty())
	assert.False(t, mustParse(t, `<p><img src="x.png"/></p>`).IsEmpty())
}

func TestContainsText_FoldsDiacritics(t *testing.T) {
	doc := mustParse(t, `<p>Objetivo de la Unidad: comprender la formación</p>`)
	assert.True(t, doc.ContainsText("objetivo de la unidad"))
	assert.True(t, doc.ContainsText("FORMACIÓN"))
	assert.False(t, doc.ContainsText("bibliografía"))
}

func TestBoldHeadingContent_SameBlock(t *testing.T) {
	doc := mustParse(t, `<p><strong>Objetivo de la unidad:</strong> Reconocer los conceptos básicos.</p>`)
	content, found := doc.BoldHeadingContent("objetivo de la unidad")
	require.True(t, found)
	assert.Equal(t, "Reconocer los conceptos básicos.", content)
}

func TestBoldHeadingContent_FollowingBlock(t *testing.T) {
	doc := mustParse(t, `<p><b>Objetivo de la unidad</b></p><p>Aplicar la metodología del programa.</p>`)
	content, found := doc.BoldHeadingContent("Objetivo de la unidad")
	require.True(t, found)
	assert.Equal(t, "Aplicar la metodología del programa.", content)
}

func TestBoldHeadingContent_Missing(t *testing.T) {
	doc := mustParse(t, `<p>Texto sin encabezados en negrita</p>`)
	_, found := doc.BoldHeadingContent("Objetivo")
	assert.False(t, found)
}

func TestRowByHeader_SynonymsAndAdjacentCells(t *testing.T) {
	doc := mustParse(t, `<table>
		<tr><td>Denominación del programa</td><td>Análisis de datos</td></tr>
		<tr><td>Resultados de Aprendizaje</td><td>RA1: Interpretar datos</td><td>RA2: Modelar</td></tr>
	</table>`)

	cells, found := doc.RowByHeader("resultado de aprendizaje", "resultados de aprendizaje")
	require.True(t, found)
	require.Len(t, cells, 2)
	assert.Equal(t, "RA1: Interpretar datos", cells[0])

	_, found = doc.RowByHeader("competencia")
	assert.False(t, found)
}

func TestLabeledPercentages(t *testing.T) {
	doc := mustParse(t, `<p>La evaluación del programa se distribuye así:
		Evidencias de conocimiento 30%, evidencias de desempeño 30 % y
		evidencias de producto 40%.</p>`)

	values := doc.LabeledPercentages("conocimiento", "desempeño", "producto")
	require.Len(t, values, 3)
	assert.Equal(t, 30.0, values["conocimiento"])
	assert.Equal(t, 40.0, values["producto"])
}

func TestPercentagesSumTo(t *testing.T) {
	ok := mustParse(t, `<p>conocimiento 30% desempeño 30% producto 40%</p>`).
		PercentagesSumTo(100, "conocimiento", "desempeño", "producto")
	assert.True(t, ok)

	bad := mustParse(t, `<p>conocimiento 30% desempeño 30% producto 30%</p>`).
		PercentagesSumTo(100, "conocimiento", "desempeño", "producto")
	assert.False(t, bad)

	missing := mustParse(t, `<p>conocimiento 50% producto 50%</p>`).
		PercentagesSumTo(100, "conocimiento", "desempeño", "producto")
	assert.False(t, missing)
}

func TestLinks(t *testing.T) {
	doc := mustParse(t, `<p><a href="https://biblioteca.example/norma">Normatividad</a>
		<a href="">vacío</a><a href="/interno">interno</a></p>`)
	assert.Equal(t, []string{"https://biblioteca.example/norma", "/interno"}, doc.Links())
}
