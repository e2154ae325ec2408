package testutil

import "github.com/zjrosen/policywizard/internal/policy"

// ModelOption configures a transformation during builder setup.
type ModelOption func(*policy.Transformation)

// ModelType sets the transformation type.
func ModelType(t string) ModelOption {
	return func(m *policy.Transformation) { m.Type = t }
}

// Order sets the transformation order. Models default to their position.
func Order(order int) ModelOption {
	return func(m *policy.Transformation) { m.Order = order }
}

// InputField sets the field the transformation reads.
func InputField(field string) ModelOption {
	return func(m *policy.Transformation) { m.InputField = field }
}

// Output adds an output field.
func Output(name, typ string) ModelOption {
	return func(m *policy.Transformation) {
		m.OutputFields = append(m.OutputFields, policy.OutputField{Name: name, Type: typ})
	}
}

// TriggerOption configures a trigger during builder setup.
type TriggerOption func(*policy.Trigger)

// SQL sets the trigger query.
func SQL(sql string) TriggerOption {
	return func(t *policy.Trigger) { t.SQL = sql }
}

// OverLast sets the trigger window.
func OverLast(window string) TriggerOption {
	return func(t *policy.Trigger) { t.OverLast = window }
}

// Outputs adds trigger outputs.
func Outputs(outputs ...string) TriggerOption {
	return func(t *policy.Trigger) { t.Outputs = append(t.Outputs, outputs...) }
}

// CubeOption configures a cube during builder setup.
type CubeOption func(*policy.Cube)

// Dimension adds a cube dimension.
func Dimension(name, field string) CubeOption {
	return func(c *policy.Cube) {
		c.Dimensions = append(c.Dimensions, policy.Dimension{Name: name, Field: field})
	}
}

// TypedDimension adds a cube dimension with an explicit type.
func TypedDimension(name, field, typ string) CubeOption {
	return func(c *policy.Cube) {
		c.Dimensions = append(c.Dimensions, policy.Dimension{Name: name, Field: field, Type: typ})
	}
}

// Operator adds a cube operator.
func Operator(name, typ string) CubeOption {
	return func(c *policy.Cube) {
		c.Operators = append(c.Operators, policy.Operator{Name: name, Type: typ})
	}
}

// CubeTrigger adds a trigger owned by the cube.
func CubeTrigger(name string, opts ...TriggerOption) CubeOption {
	return func(c *policy.Cube) {
		c.Triggers = append(c.Triggers, newTrigger(name, opts))
	}
}

func newTrigger(name string, opts []TriggerOption) policy.Trigger {
	t := policy.Trigger{Name: name}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}
