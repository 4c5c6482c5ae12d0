package urlsync

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/fleetfilter/internal/filter/translate"
)

func domain(t *testing.T, name string) *translate.Domain {
	t.Helper()
	d, err := translate.Lookup(name)
	require.NoError(t, err)
	return d
}

func TestEncode_AllowListOmitsFalsyJoinsLists(t *testing.T) {
	d := domain(t, translate.Issues)
	f := translate.Filters{
		"page":      translate.Int(1),
		"status":    translate.String("OPEN"),
		"search":    translate.Unset(),
		"priority":  translate.String(""),
		"labels":    translate.Strings("BODY", "SAFETY"),
		"vehicleId": translate.String("v1"), // not in the issues allow-list
		"startDate": translate.String("2024-01-01"),
	}
	q := Encode(d, f)
	assert.Equal(t, url.Values{
		"status":    {"OPEN"},
		"labels":    {"BODY,SAFETY"},
		"startDate": {"2024-01-01"},
	}, q)
}

func TestEncode_FalsyBooleans(t *testing.T) {
	d := domain(t, translate.VehicleRenewals)
	q := Encode(d, translate.Filters{
		"overdue": translate.Bool(false),
		"dueSoon": translate.Bool(true),
	})
	assert.Equal(t, url.Values{"dueSoon": {"true"}}, q)
}

func TestHydrate_IgnoresUnknownParams(t *testing.T) {
	d := domain(t, translate.Contacts)
	q, err := url.ParseQuery("status=ACTIVE&search=&classification=OPERATOR&utm_source=mail&page=3")
	require.NoError(t, err)
	f := Hydrate(d, q)
	assert.Equal(t, []string{"classification", "status"}, f.Keys())
	assert.Equal(t, "ACTIVE", f.Get("status").Value())
}

func TestHydrate_SplitsLists(t *testing.T) {
	d := domain(t, translate.Issues)
	f := Hydrate(d, url.Values{"labels": {"BODY, SAFETY,,"}})
	assert.Equal(t, []string{"BODY", "SAFETY"}, f.Get("labels").Values())
}

func TestRoundTrip(t *testing.T) {
	d := domain(t, translate.Issues)
	in := translate.Filters{
		"status":   translate.String("OPEN"),
		"priority": translate.String("HIGH"),
		"labels":   translate.Strings("BODY", "RECALL"),
	}
	back := Hydrate(d, Encode(d, in))
	assert.True(t, in.Equal(back))
}

func TestWrite_UsesNavigator(t *testing.T) {
	d := domain(t, translate.Vendors)
	var gotPath string
	var gotQuery url.Values
	nav := NavigatorFunc(func(_ context.Context, path string, q url.Values) error {
		gotPath, gotQuery = path, q
		return nil
	})
	require.NoError(t, Write(context.Background(), nav, "/vendors", d, translate.Filters{"label": translate.String("LOCAL")}))
	assert.Equal(t, "/vendors", gotPath)
	assert.Equal(t, "label=LOCAL", gotQuery.Encode())
	assert.Equal(t, "label=LOCAL", Query(d, translate.Filters{"label": translate.String("LOCAL")}))
}
