// Package sqlhelp derives the field listings offered to the SQL editor
// while a trigger is being written.
package sqlhelp

import (
	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
)

// StreamSourceName names the single item produced in transformation mode.
const StreamSourceName = "stream"

// defaultDimensionType is used for dimensions that do not declare a type.
const defaultDimensionType = "string"

// Mode selects where help items come from.
type Mode string

const (
	// ModeDefault derives items from the owning cube and the triggers' outputs.
	ModeDefault Mode = ""
	// ModeTransformation derives one "stream" item from the transformation outputs.
	ModeTransformation Mode = "transformation"
)

// Item is one help source: a name and the fields it exposes.
type Item struct {
	Name   string
	Fields []policy.OutputField
}

// TransformationSource supplies the policy's transformations in order.
type TransformationSource interface {
	Transformations() []policy.Transformation
}

// CubeSource supplies the cube whose triggers are being edited, if any.
type CubeSource interface {
	Cube() (policy.Cube, bool)
}

// Deriver builds help items on demand. It never caches: every call reads
// the sources again.
type Deriver struct {
	transformations TransformationSource
	cubes           CubeSource
}

// NewDeriver creates a deriver. Either source may be nil.
func NewDeriver(transformations TransformationSource, cubes CubeSource) *Deriver {
	return &Deriver{transformations: transformations, cubes: cubes}
}

// Items returns the help items for mode given the triggers of the bound container.
func (d *Deriver) Items(mode Mode, triggers []policy.Trigger) []Item {
	var items []Item
	if mode == ModeTransformation {
		items = []Item{d.streamItem()}
	} else {
		items = d.defaultItems(triggers)
	}
	log.Debug(log.CatHelp, "help items derived", "mode", mode, "count", len(items))
	return items
}

func (d *Deriver) streamItem() Item {
	item := Item{Name: StreamSourceName, Fields: []policy.OutputField{}}
	if d.transformations == nil {
		return item
	}
	for _, t := range d.transformations.Transformations() {
		item.Fields = append(item.Fields, t.OutputFields...)
	}
	return item
}

func (d *Deriver) defaultItems(triggers []policy.Trigger) []Item {
	var items []Item

	if d.cubes != nil {
		if cube, ok := d.cubes.Cube(); ok {
			items = append(items, cubeItem(cube))
		}
	}

	for _, t := range triggers {
		if len(t.Outputs) == 0 {
			continue
		}
		fields := make([]policy.OutputField, 0, len(t.Outputs))
		for _, out := range t.Outputs {
			fields = append(fields, policy.OutputField{Name: out})
		}
		items = append(items, Item{Name: t.Name, Fields: fields})
	}
	return items
}

func cubeItem(cube policy.Cube) Item {
	fields := make([]policy.OutputField, 0, len(cube.Dimensions)+len(cube.Operators))
	for _, dim := range cube.Dimensions {
		typ := dim.Type
		if typ == "" {
			typ = defaultDimensionType
		}
		fields = append(fields, policy.OutputField{Name: dim.Name, Type: typ})
	}
	for _, op := range cube.Operators {
		fields = append(fields, policy.OutputField{Name: op.Name, Type: op.Type})
	}
	return Item{Name: cube.Name, Fields: fields}
}
