// Package rules assembles the full dispatcher: every (area, cycle)
// combination the taxonomy can produce is bound to its rule module here.
package rules

import (
	"github.com/jonkmatsumo/classroom-auditor/internal/evaluation"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/graphic"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/technical"
	"github.com/jonkmatsumo/classroom-auditor/internal/rules/training"
	"github.com/jonkmatsumo/classroom-auditor/internal/taxonomy"
)

// NewDispatcher builds a dispatcher with every rule module registered.
// The graphic cycle shares one registry across both areas.
func NewDispatcher() *evaluation.Dispatcher {
	d := evaluation.NewDispatcher()

	d.Register(evaluation.Key{Area: taxonomy.AreaTraining, Cycle: taxonomy.CycleOrganizational}, training.Organizational())
	d.Register(evaluation.Key{Area: taxonomy.AreaTraining, Cycle: taxonomy.CycleOne}, training.CycleOne())
	d.Register(evaluation.Key{Area: taxonomy.AreaTraining, Cycle: taxonomy.CycleTwo}, training.CycleTwo())
	d.Register(evaluation.Key{Area: taxonomy.AreaTraining, Cycle: taxonomy.CycleThree}, training.CycleThree())

	d.Register(evaluation.Key{Area: taxonomy.AreaTechnical, Cycle: taxonomy.CycleOrganizational}, technical.Organizational())
	d.Register(evaluation.Key{Area: taxonomy.AreaTechnical, Cycle: taxonomy.CycleOne}, technical.CycleOne())
	d.Register(evaluation.Key{Area: taxonomy.AreaTechnical, Cycle: taxonomy.CycleTwo}, technical.CycleTwo())
	d.Register(evaluation.Key{Area: taxonomy.AreaTechnical, Cycle: taxonomy.CycleThree}, technical.CycleThree())

	shared := graphic.Registry()
	d.Register(evaluation.Key{Area: taxonomy.AreaTraining, Cycle: taxonomy.CycleGraphic}, shared)
	d.Register(evaluation.Key{Area: taxonomy.AreaTechnical, Cycle: taxonomy.CycleGraphic}, shared)

	return d
}
