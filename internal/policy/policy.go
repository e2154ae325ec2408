// Package policy defines the policy model edited by the wizard: the
// transformations feeding a stream, the triggers attached to it and the
// cubes aggregating it.
package policy

import (
	"errors"
	"maps"
	"slices"
)

// ErrNoPolicy is returned when a wizard is started without a policy.
var ErrNoPolicy = errors.New("no policy loaded")

// OutputField is a named, typed field produced by a transformation.
type OutputField struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Transformation is one step of the policy's transformation chain.
type Transformation struct {
	Name         string        `yaml:"name"`
	Type         string        `yaml:"type"`
	Order        int           `yaml:"order"`
	InputField   string        `yaml:"inputField"`
	OutputFields []OutputField `yaml:"outputFields"`
}

// Clone returns a deep copy of the transformation.
func (t Transformation) Clone() Transformation {
	t.OutputFields = slices.Clone(t.OutputFields)
	return t
}

// Trigger is a SQL rule attached to a stream or a cube.
// Extra carries fields the wizard does not interpret.
type Trigger struct {
	Name     string         `yaml:"name"`
	SQL      string         `yaml:"sql"`
	OverLast string         `yaml:"overLast,omitempty"`
	Outputs  []string       `yaml:"outputs"`
	Extra    map[string]any `yaml:",inline"`
}

// Clone returns a deep copy so that container entries never alias the
// trigger being edited.
func (t Trigger) Clone() Trigger {
	t.Outputs = slices.Clone(t.Outputs)
	if t.Extra != nil {
		t.Extra = maps.Clone(t.Extra)
	}
	return t
}

// Dimension is a cube grouping field.
type Dimension struct {
	Name  string `yaml:"name"`
	Field string `yaml:"field"`
	Type  string `yaml:"type,omitempty"`
}

// Operator is a cube aggregation.
type Operator struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Cube aggregates the stream and owns its own trigger list.
type Cube struct {
	Name       string      `yaml:"name"`
	Dimensions []Dimension `yaml:"dimensions"`
	Operators  []Operator  `yaml:"operators"`
	Triggers   []Trigger   `yaml:"triggers"`
}

// Policy is the document under construction.
type Policy struct {
	Name            string           `yaml:"name"`
	Description     string           `yaml:"description"`
	Transformations []Transformation `yaml:"transformations"`
	StreamTriggers  []Trigger        `yaml:"streamTriggers"`
	Cubes           []Cube           `yaml:"cubes"`
}

// Template holds defaults for freshly opened models and triggers.
type Template struct {
	HelpLinks map[string]string `yaml:"helpLinks"`
	Model     Transformation    `yaml:"model"`
	Trigger   Trigger           `yaml:"trigger"`
}

// HelpLink returns the help link for section, or "" when unknown.
func (t Template) HelpLink(section string) string {
	return t.HelpLinks[section]
}
