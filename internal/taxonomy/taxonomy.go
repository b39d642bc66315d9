// Package taxonomy loads and exposes the quality taxonomy: the configured
// hierarchy of cycles, resources, contents and indicators that defines what
// a compliant classroom looks like. The taxonomy is loaded once, validated,
// and shared read-only across concurrent evaluation runs.
package taxonomy

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed taxonomy.schema.json
var schemaJSON string

// Indicator is a single yes/no compliance criterion.
type Indicator struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Content is a sub-content expected inside a resource, e.g. "Mapa mental"
// inside the pedagogical folder.
type Content struct {
	ID         int         `json:"id" validate:"required"`
	Name       string      `json:"name" validate:"required"`
	Indicators []Indicator `json:"indicators" validate:"dive"`
}

// ResourceConfig carries per-resource expected configuration values that
// indicator checks compare live LMS objects against.
type ResourceConfig struct {
	GradeMethod      int      `json:"grademethod,omitempty"`
	GracePeriod      int      `json:"graceperiod,omitempty"`
	MaxTimeLimit     int      `json:"maxtimelimit,omitempty"`
	MinQuestionPages int      `json:"minquestionpages,omitempty"`
	MinConditions    int      `json:"minconditions,omitempty"`
	ChallengeKeyword string   `json:"challengekeyword,omitempty"`
	SectionName      string   `json:"sectionname,omitempty"`
	RequiredLinks    []string `json:"requiredlinks,omitempty"`
}

// Resource is an expected classroom resource. It carries either Contents
// (each with its own indicators) or resource-level Indicators.
type Resource struct {
	ID         int             `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Config     *ResourceConfig `json:"config,omitempty"`
	Contents   []Content       `json:"contents,omitempty" validate:"dive"`
	Indicators []Indicator     `json:"indicators,omitempty" validate:"dive"`
}

// Cycle is a curriculum phase grouping resources.
type Cycle struct {
	ID        int        `json:"id" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Resources []Resource `json:"resources" validate:"required,dive"`
}

// Area is a quality dimension (training design, technical design).
type Area struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Taxonomy is the full configured hierarchy.
type Taxonomy struct {
	Areas  []Area  `json:"areas" validate:"required,dive"`
	Cycles []Cycle `json:"cycles" validate:"required,dive"`
}

// NotFoundError reports a cycle or area id with no taxonomy entry. Raised
// before any matching begins.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("taxonomy %s %d not found", e.Kind, e.ID)
}

// Load reads, schema-validates and decodes a taxonomy document.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw taxonomy JSON against the embedded schema and decodes
// it into a Taxonomy.
func Parse(data []byte) (*Taxonomy, error) {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to run taxonomy schema validation: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, fmt.Errorf("taxonomy document invalid: %s: %s", first.Field(), first.Description())
	}

	var tax Taxonomy
	if err := json.Unmarshal(data, &tax); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy JSON: %w", err)
	}
	if err := validator.New().Struct(&tax); err != nil {
		return nil, fmt.Errorf("taxonomy document invalid: %w", err)
	}

	// Kinds must be derivable up front; an unclassifiable cycle or area
	// would otherwise surface mid-run as an unmapped dispatcher key.
	for _, area := range tax.Areas {
		if _, err := area.Kind(); err != nil {
			return nil, err
		}
	}
	for _, cycle := range tax.Cycles {
		if _, err := cycle.Kind(); err != nil {
			return nil, err
		}
	}
	return &tax, nil
}

// CycleByID returns the cycle with the given id.
func (t *Taxonomy) CycleByID(id int) (*Cycle, error) {
	for i := range t.Cycles {
		if t.Cycles[i].ID == id {
			return &t.Cycles[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "cycle", ID: id}
}

// AreaByID returns the area with the given id.
func (t *Taxonomy) AreaByID(id int) (*Area, error) {
	for i := range t.Areas {
		if t.Areas[i].ID == id {
			return &t.Areas[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "area", ID: id}
}
