package factory

import (
	"slices"
	"sync"

	"github.com/zjrosen/policywizard/internal/log"
	"github.com/zjrosen/policywizard/internal/policy"
)

// RawInput is the input offered to a model with no predecessor.
const RawInput = "raw"

// ModelFactory owns the transformation open in the model editor.
type ModelFactory struct {
	mu       sync.RWMutex
	model    policy.Transformation
	position int
	inputs   []string
}

// NewModelFactory creates an empty model factory.
func NewModelFactory() *ModelFactory {
	return &ModelFactory{inputs: []string{RawInput}}
}

// SetModel opens a copy of m for editing at position.
func (f *ModelFactory) SetModel(m policy.Transformation, position int) {
	f.mu.Lock()
	f.model = m.Clone()
	f.position = position
	f.mu.Unlock()
	log.Debug(log.CatWizard, "model opened", "position", position, "name", m.Name)
}

// ResetModel opens a fresh model from template with the given order at position.
func (f *ModelFactory) ResetModel(template policy.Transformation, order, position int) {
	f.mu.Lock()
	f.model = template.Clone()
	f.model.Order = order
	f.position = position
	f.mu.Unlock()
	log.Debug(log.CatWizard, "model reset", "position", position, "order", order)
}

// UpdateModelInputs recomputes the inputs the open model can read: the
// output fields of every transformation before its position, or RawInput
// when there are none.
func (f *ModelFactory) UpdateModelInputs(transformations []policy.Transformation) {
	f.mu.Lock()
	defer f.mu.Unlock()

	end := min(f.position, len(transformations))
	var inputs []string
	for _, t := range transformations[:max(end, 0)] {
		for _, field := range t.OutputFields {
			if !slices.Contains(inputs, field.Name) {
				inputs = append(inputs, field.Name)
			}
		}
	}
	if len(inputs) == 0 {
		inputs = []string{RawInput}
	}
	f.inputs = inputs
}

// Model returns a copy of the open model.
func (f *ModelFactory) Model() policy.Transformation {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.model.Clone()
}

// Position returns the open model's slot.
func (f *ModelFactory) Position() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.position
}

// Inputs returns the input fields offered to the open model.
func (f *ModelFactory) Inputs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.inputs)
}
