package factory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/policywizard/internal/policy"
	"github.com/zjrosen/policywizard/internal/trigger"
)

var _ trigger.Factory = (*TriggerFactory)(nil)

func TestTriggerFactory_Validity(t *testing.T) {
	f := NewTriggerFactory(policy.Trigger{})

	tests := []struct {
		name string
		in   policy.Trigger
		want bool
	}{
		{"complete", policy.Trigger{Name: "t", SQL: "select 1"}, true},
		{"no name", policy.Trigger{SQL: "select 1"}, false},
		{"blank name", policy.Trigger{Name: "  ", SQL: "select 1"}, false},
		{"no sql", policy.Trigger{Name: "t"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, f.IsValidTrigger(tt.in))
		})
	}
}

func TestTriggerFactory_ResetUsesTemplate(t *testing.T) {
	f := NewTriggerFactory(policy.Trigger{OverLast: "10s", Outputs: []string{}})
	f.Edit(func(tr *policy.Trigger) { tr.Name = "dirty" })

	f.ResetTrigger(4)
	require.Equal(t, "", f.GetTrigger().Name)
	require.Equal(t, "10s", f.GetTrigger().OverLast)
	require.Equal(t, 4, f.GetContext().Position)
}

func TestTriggerFactory_SetTriggerCopies(t *testing.T) {
	f := NewTriggerFactory(policy.Trigger{})
	src := policy.Trigger{Name: "a", Outputs: []string{"x"}}

	f.SetTrigger(src, 2)
	src.Outputs[0] = "y"

	require.Equal(t, []string{"x"}, f.GetTrigger().Outputs)
	require.Equal(t, 2, f.GetContext().Position)
}

func TestTriggerFactory_SetError(t *testing.T) {
	f := NewTriggerFactory(policy.Trigger{})
	form := &trigger.Form{}

	f.SetError(form)
	require.True(t, form.Submitted)
	require.Equal(t, trigger.GenericFormErrorKey, form.ErrorKey)
	require.Equal(t, trigger.GenericFormErrorKey, f.Error())

	f.ResetTrigger(0)
	require.Empty(t, f.Error())
}

func TestModelFactory_ResetAndInputs(t *testing.T) {
	transformations := []policy.Transformation{
		{Name: "m1", Order: 0, OutputFields: []policy.OutputField{{Name: "url"}, {Name: "status"}}},
		{Name: "m2", Order: 1, OutputFields: []policy.OutputField{{Name: "minute"}, {Name: "url"}}},
	}
	f := NewModelFactory()
	require.Equal(t, []string{RawInput}, f.Inputs())

	f.ResetModel(policy.Transformation{Type: "Morphline"}, 2, 2)
	f.UpdateModelInputs(transformations)

	require.Equal(t, 2, f.Model().Order)
	require.Equal(t, "Morphline", f.Model().Type)
	require.Equal(t, 2, f.Position())
	require.Equal(t, []string{"url", "status", "minute"}, f.Inputs())

	f.SetModel(transformations[0], 0)
	f.UpdateModelInputs(transformations)
	require.Equal(t, []string{RawInput}, f.Inputs())
}

func TestPolicyFactory_NextStep(t *testing.T) {
	f := NewPolicyFactory(nil, policy.Template{})
	require.NotNil(t, f.CurrentPolicy())
	require.False(t, f.NextStepEnabled())

	f.EnableNextStep()
	require.True(t, f.NextStepEnabled())
	f.DisableNextStep()
	require.False(t, f.NextStepEnabled())
}
