package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOperator_ByType(t *testing.T) {
	tests := []struct {
		typ  FieldType
		want Operator
	}{
		{FieldEnum, OpIs},
		{FieldNumber, OpIs},
		{FieldDate, OpIs},
		{FieldText, OpContains},
		{FieldBoolean, OpIs},
		{FieldMultiselect, OpIs},
		{FieldType("unknown"), OpIs},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultOperator(&Field{ID: "x", Type: tt.typ}))
		})
	}
}

func TestDefaultOperator_IgnoresFieldID(t *testing.T) {
	// Same type, very different ids: same operator.
	a := DefaultOperator(&Field{ID: "status", Type: FieldText})
	b := DefaultOperator(&Field{ID: "reportedDate", Type: FieldText})
	assert.Equal(t, a, b)
}

func TestOperator_Helpers(t *testing.T) {
	assert.True(t, OpIsAnyOf.MultiValued())
	assert.False(t, OpIs.MultiValued())
	assert.False(t, OpIsBlank.NeedsValue())
	assert.True(t, OpBetween.NeedsValue())
	assert.Equal(t, "is between", OpBetween.Label())
	assert.False(t, Operator("near").Valid())
	assert.Len(t, Operators, 13)
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	reg := NewRegistry("test", "Test", []*Field{
		{ID: "b", Label: "B", Type: FieldText, Category: "X"},
		{ID: "a", Label: "A", Type: FieldEnum, Category: "Y"},
	})
	fields := reg.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "b", fields[0].ID)
	assert.Equal(t, "a", fields[1].ID)
	assert.Same(t, fields[1], reg.Field("a"))
	assert.Nil(t, reg.Field("missing"))

	// Mutating the returned slice does not affect the registry.
	fields[0] = nil
	assert.NotNil(t, reg.Fields()[0])
}

func TestRegistry_Popular(t *testing.T) {
	reg := NewRegistry("test", "Test", []*Field{{ID: "a"}, {ID: "b"}})
	reg.SetPopular([]string{"b", "ghost"})
	pop := reg.Popular()
	require.Len(t, pop, 1)
	assert.Equal(t, "b", pop[0].ID)
}

func TestLoadBuiltin_AllDomains(t *testing.T) {
	cat, err := LoadBuiltin()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"contacts", "issues", "service-reminders", "vehicle-renewals",
		"service-history", "work-orders", "vendors", "inspections",
		"vehicles", "meter-history", "vehicle-assignments", "expenses",
	}, cat.Domains())

	issues, err := cat.Registry("issues")
	require.NoError(t, err)
	assert.Equal(t, "Issues", issues.Title())
	assert.Equal(t, "summary", issues.Fields()[0].ID)

	prio := issues.Field("priority")
	require.NotNil(t, prio)
	assert.Equal(t, FieldEnum, prio.Type)
	assert.Len(t, prio.Options, 4)

	veh := issues.Field("vehicle")
	require.NotNil(t, veh)
	assert.Equal(t, "VEHICLE", veh.Category)
	assert.Empty(t, veh.Options)

	wo, err := cat.Registry("work-orders")
	require.NoError(t, err)
	assert.Equal(t, "MGA", wo.Field("totalCost").Unit)

	for _, d := range cat.Domains() {
		reg, _ := cat.Registry(d)
		for _, f := range reg.Fields() {
			assert.True(t, f.Type.Valid(), "%s.%s has type %q", d, f.ID, f.Type)
		}
	}
}

func TestCatalog_UnknownDomain(t *testing.T) {
	cat := MustLoadBuiltin()
	_, err := cat.Registry("parts")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestLoad_RejectsBadType(t *testing.T) {
	src := []byte(`
#Field: {id: string, label: string, type: "text" | "enum", category: string}
domains: x: {title: "X", fields: [...#Field]}
domains: x: fields: [{id: "a", label: "A", type: "colour", category: "C"}]
`)
	_, err := Load(src, "bad.cue")
	assert.Error(t, err)
}

func TestLoad_RejectsDuplicateIDs(t *testing.T) {
	src := []byte(`
domains: x: {
	title: "X"
	fields: [
		{id: "a", label: "A", type: "text", category: "C"},
		{id: "a", label: "A again", type: "text", category: "C"},
	]
}
`)
	_, err := Load(src, "dup.cue")
	assert.ErrorIs(t, err, ErrDuplicateField)
}
