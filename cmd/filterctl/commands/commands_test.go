package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func filtersOf(t *testing.T, out string) translate.Filters {
	t.Helper()
	body, _, _ := strings.Cut(out, "query:")
	var f translate.Filters
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	return f
}

func TestDomains(t *testing.T) {
	out, _, err := run(t, "", "domains")
	require.NoError(t, err)
	assert.Contains(t, out, "issues")
	assert.Contains(t, out, "Service Reminders")
}

func TestFields(t *testing.T) {
	out, _, err := run(t, "", "fields", "issues")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "POPULAR"))
	assert.Contains(t, out, "reportedDate")
	assert.Contains(t, out, "VEHICLE")
}

func TestFields_Search(t *testing.T) {
	out, _, err := run(t, "", "fields", "issues", "--search", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "no matching fields\n", out)
}

func TestFields_UnknownDomain(t *testing.T) {
	_, _, err := run(t, "", "fields", "fuel")
	assert.ErrorContains(t, err, "unknown domain")
}

func TestTranslate_Stdin(t *testing.T) {
	in := `[{"id":"1","field":"summary","operator":"contains","value":"brake"},
	        {"id":"2","field":"unmapped","operator":"is","value":"x"}]`
	out, errOut, err := run(t, in, "translate", "issues", "--base", "status=OPEN")
	require.NoError(t, err)

	f := filtersOf(t, out)
	assert.Equal(t, "brake", f.Get("search").Value())
	assert.Equal(t, "OPEN", f.Get("status").Value())
	assert.Contains(t, out, "query: search=brake&status=OPEN")
	assert.Contains(t, errOut, `no mapping for field "unmapped"`)
}

func TestTranslate_BadBase(t *testing.T) {
	_, _, err := run(t, "[]", "translate", "issues", "--base", "status")
	assert.ErrorContains(t, err, "key=value")
}

func TestHydrate(t *testing.T) {
	out, _, err := run(t, "", "hydrate", "issues", "/issues?labels=BODY,SAFETY&bogus=1")
	require.NoError(t, err)
	f := filtersOf(t, out)
	assert.Equal(t, []string{"BODY", "SAFETY"}, f.Get("labels").Values())
	_, present := f["bogus"]
	assert.False(t, present)
	assert.Contains(t, out, "query: labels=BODY%2CSAFETY")
}
