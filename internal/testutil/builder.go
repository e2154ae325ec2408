// Package testutil builds policy fixtures for tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/policywizard/internal/policy"
)

// Builder accumulates a policy fixture.
type Builder struct {
	t      *testing.T
	policy policy.Policy
}

// NewBuilder creates a builder for a policy named name.
func NewBuilder(t *testing.T, name string) *Builder {
	t.Helper()
	return &Builder{t: t, policy: policy.Policy{Name: name}}
}

// WithModel appends a transformation. Its order defaults to its position.
func (b *Builder) WithModel(name string, opts ...ModelOption) *Builder {
	m := policy.Transformation{Name: name, Order: len(b.policy.Transformations)}
	for _, opt := range opts {
		opt(&m)
	}
	b.policy.Transformations = append(b.policy.Transformations, m)
	return b
}

// WithStreamTrigger appends a stream trigger.
func (b *Builder) WithStreamTrigger(name string, opts ...TriggerOption) *Builder {
	b.policy.StreamTriggers = append(b.policy.StreamTriggers, newTrigger(name, opts))
	return b
}

// WithCube appends a cube.
func (b *Builder) WithCube(name string, opts ...CubeOption) *Builder {
	c := policy.Cube{Name: name}
	for _, opt := range opts {
		opt(&c)
	}
	b.policy.Cubes = append(b.policy.Cubes, c)
	return b
}

// Build returns the accumulated policy. Cube names must be unique.
func (b *Builder) Build() *policy.Policy {
	b.t.Helper()
	seen := make(map[string]bool, len(b.policy.Cubes))
	for _, c := range b.policy.Cubes {
		require.False(b.t, seen[c.Name], "duplicate cube %q", c.Name)
		seen[c.Name] = true
	}
	p := b.policy
	return &p
}
