package sidebar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/fleetfilter/internal/filter/criteria"
	"github.com/matthewbaird/fleetfilter/internal/filter/schema"
)

func issuesStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	reg, err := schema.MustLoadBuiltin().Registry("issues")
	require.NoError(t, err)
	n := 0
	opts = append([]Option{
		WithIDFunc(func() string { n++; return fmt.Sprintf("c%d", n) }),
		WithPopular(reg.PopularIDs()),
	}, opts...)
	return NewStore(StaticFields(reg.Fields()), opts...)
}

func TestStore_OpenDeepCopies(t *testing.T) {
	s := issuesStore(t)
	initial := []criteria.Criterion{{ID: "a", Field: "labels", Operator: schema.OpIs, Value: criteria.List("BODY")}}
	s.Open(initial)

	v := criteria.List("SAFETY")
	require.NoError(t, s.Update("a", criteria.Patch{Value: &v}))

	assert.Equal(t, []string{"BODY"}, initial[0].Value.Strings())
	assert.Equal(t, []string{"SAFETY"}, s.Criteria()[0].Value.Strings())
}

func TestStore_AddDefaults(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	require.NoError(t, s.TogglePicker())
	require.NoError(t, s.SetSearch("prio"))

	c, err := s.Add("priority")
	require.NoError(t, err)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, "Priority", c.Label)
	assert.Equal(t, schema.OpIs, c.Operator)
	assert.Equal(t, criteria.KindList, c.Value.Kind())
	assert.False(t, s.PickerOpen())
	assert.Empty(t, s.Search())

	c, err = s.Add("summary")
	require.NoError(t, err)
	assert.Equal(t, schema.OpContains, c.Operator)
	assert.Equal(t, criteria.KindScalar, c.Value.Kind())

	_, err = s.Add("odometer")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestStore_UpdateUnknownIsNoop(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	_, err := s.Add("summary")
	require.NoError(t, err)

	v := criteria.Scalar("brake")
	require.NoError(t, s.Update("missing", criteria.Patch{Value: &v}))
	assert.Equal(t, "", s.Criteria()[0].Value.String())

	require.NoError(t, s.Update("c1", criteria.Patch{Value: &v}))
	assert.Equal(t, "brake", s.Criteria()[0].Value.String())
}

func TestStore_SetOperatorResets(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	_, err := s.Add("reportedDate")
	require.NoError(t, err)

	require.NoError(t, s.SetOperator("c1", schema.OpBetween))
	_, ok := s.Criteria()[0].Value.Range()
	assert.True(t, ok)
}

func TestStore_RemoveAndClear(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	for _, id := range []string{"summary", "priority", "labels"} {
		_, err := s.Add(id)
		require.NoError(t, err)
	}

	require.NoError(t, s.Remove("c2"))
	got := s.Criteria()
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c3", got[1].ID)

	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.Criteria())
	assert.Equal(t, Open, s.State())
}

func TestStore_ApplyHandsCopyAndCloses(t *testing.T) {
	var got []criteria.Criterion
	calls := 0
	s := issuesStore(t, WithOnApply(func(list []criteria.Criterion) {
		calls++
		got = list
	}))
	s.Open(nil)
	_, err := s.Add("summary")
	require.NoError(t, err)

	applied, err := s.Apply()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, got, 1)
	assert.Equal(t, applied, got)
	assert.Equal(t, Closed, s.State())

	_, err = s.Apply()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, calls)
}

func TestStore_CancelNeverApplies(t *testing.T) {
	calls := 0
	s := issuesStore(t, WithOnApply(func([]criteria.Criterion) { calls++ }))
	initial := []criteria.Criterion{{ID: "a", Field: "summary", Operator: schema.OpContains, Value: criteria.Scalar("oil")}}

	s.Open(initial)
	require.NoError(t, s.Remove("a"))
	s.Cancel()
	assert.Equal(t, 0, calls)
	assert.Equal(t, Closed, s.State())
	assert.Len(t, initial, 1)

	s.Open(initial)
	s.Close()
	assert.Equal(t, 0, calls)
}

func TestStore_ClosedRejectsEdits(t *testing.T) {
	s := issuesStore(t)
	_, err := s.Add("summary")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Update("x", criteria.Patch{}), ErrClosed)
	assert.ErrorIs(t, s.Remove("x"), ErrClosed)
	assert.ErrorIs(t, s.ClearAll(), ErrClosed)
	assert.ErrorIs(t, s.TogglePicker(), ErrClosed)
	assert.ErrorIs(t, s.SetSearch("x"), ErrClosed)
}

func TestStore_OpenResetsPicker(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	require.NoError(t, s.TogglePicker())
	require.NoError(t, s.SetSearch("veh"))
	s.Cancel()

	s.Open(nil)
	assert.False(t, s.PickerOpen())
	assert.Empty(t, s.Search())
}

func TestPicker_SearchGroupsByCategory(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	require.NoError(t, s.TogglePicker())

	all := s.Results()
	require.Len(t, all, 2)
	assert.Equal(t, "ISSUE", all[0].Category)
	assert.Equal(t, "VEHICLE", all[1].Category)
	assert.Len(t, all[0].Fields, 5)

	// Category matches pull in every field of the category.
	require.NoError(t, s.SetSearch("VeHiC"))
	groups := s.Results()
	require.Len(t, groups, 1)
	assert.Equal(t, "VEHICLE", groups[0].Category)
	assert.Equal(t, "vehicle", groups[0].Fields[0].ID)
	assert.Equal(t, "group", groups[0].Fields[1].ID)

	require.NoError(t, s.SetSearch("date"))
	groups = s.Results()
	require.Len(t, groups, 1)
	assert.Equal(t, "reportedDate", groups[0].Fields[0].ID)
}

func TestPicker_ChevScenario(t *testing.T) {
	fields := []*schema.Field{
		{ID: "make", Label: "Chevrolet Model", Type: schema.FieldEnum, Category: "VEHICLE"},
		{ID: "summary", Label: "Summary", Type: schema.FieldText, Category: "ISSUE"},
		{ID: "fleet", Label: "Fleet", Type: schema.FieldText, Category: "CHEVY FLEET"},
	}
	var applied []criteria.Criterion
	s := NewStore(StaticFields(fields), WithOnApply(func(l []criteria.Criterion) { applied = l }))
	s.Open([]criteria.Criterion{})
	require.NoError(t, s.TogglePicker())
	require.NoError(t, s.SetSearch("Chev"))

	groups := s.Results()
	require.Len(t, groups, 2)
	assert.Equal(t, "make", groups[0].Fields[0].ID)
	assert.Equal(t, "fleet", groups[1].Fields[0].ID)

	c, err := s.Select("make")
	require.NoError(t, err)
	assert.Equal(t, schema.OpIs, c.Operator)
	assert.True(t, c.Value.IsZero())

	_, err = s.Apply()
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, "make", applied[0].Field)
}

func TestPicker_WhitespaceIsPartOfQuery(t *testing.T) {
	fields := []*schema.Field{
		{ID: "dueDate", Label: "Due Date", Type: schema.FieldDate, Category: "REMINDER"},
		{ID: "summary", Label: "Summary", Type: schema.FieldText, Category: "ISSUE"},
		{ID: "vin", Label: "VIN", Type: schema.FieldText, Category: "VEHICLE"},
	}
	groups := Match(fields, " ")
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Fields, 1)
	assert.Equal(t, "dueDate", groups[0].Fields[0].ID)

	assert.Empty(t, Match(fields, "summary "))
	assert.Len(t, Match(fields, ""), 3)
}

func TestPicker_AssignmentOperatorsStayDistinct(t *testing.T) {
	reg, err := schema.MustLoadBuiltin().Registry("vehicle-assignments")
	require.NoError(t, err)

	groups := Match(reg.Fields(), "operator")
	require.Len(t, groups, 2)
	assert.Equal(t, "ASSIGNMENT", groups[0].Category)
	assert.Equal(t, "operator", groups[0].Fields[0].ID)
	assert.Equal(t, "VEHICLE", groups[1].Category)
	assert.Equal(t, "vehicleOperator", groups[1].Fields[0].ID)
}

func TestPicker_ClickOutsideKeepsSidebarOpen(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	require.NoError(t, s.TogglePicker())
	s.ClickOutside()
	assert.False(t, s.PickerOpen())
	assert.Equal(t, Open, s.State())
}

func TestStore_Popular(t *testing.T) {
	s := issuesStore(t)
	pop := s.Popular()
	require.Len(t, pop, 2)
	assert.Equal(t, "priority", pop[0].ID)
	assert.Equal(t, "assignedTo", pop[1].ID)
}

func TestStore_Snapshot(t *testing.T) {
	s := issuesStore(t)
	s.Open(nil)
	_, err := s.Add("labels")
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, Open, snap.State)
	assert.Len(t, snap.Criteria, 1)
	assert.NotEmpty(t, snap.Results)
	assert.Len(t, snap.Popular, 2)
}
