package compute_test

import (
	"math"
	"strconv"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/compute"
	"github.com/reoring/worksheet/internal/fixture"
)

func withRows(t *testing.T, rows worksheet.Rows) (*worksheet.Compiled, *worksheet.Store) {
	t.Helper()
	c := fixture.Compiled(fixture.ThoughtRecord)
	s, err := worksheet.NewStore(c).Set("record-table", rows)
	require.NoError(t, err)
	return c, s
}

func before(v worksheet.Value) worksheet.Row { return worksheet.Row{"belief_before": v} }

func pair(a, b worksheet.Value) worksheet.Row {
	return worksheet.Row{"belief_before": a, "belief_after": b}
}

// TestAggregates_SkipBlankCells covers rows [10, "", 20]: blanks are ignored by sum
// and average but count sees every row.
func TestAggregates_SkipBlankCells(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{
		before(worksheet.Number(10)), before(worksheet.Text("")), before(worksheet.Number(20)),
	})
	got := compute.Resolve(c, s)

	require.True(t, got["before-total"].Resolved)
	assert.Equal(t, 30.0, got["before-total"].Value)
	require.True(t, got["before-avg"].Resolved)
	assert.Equal(t, 15.0, got["before-avg"].Value)
	require.True(t, got["row-count"].Resolved)
	assert.Equal(t, 3.0, got["row-count"].Value)
}

func TestAverage_NoNumbersIsUnresolved(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{before(worksheet.Text(""))})
	got := compute.Resolve(c, s)
	assert.False(t, got["before-avg"].Resolved)
	assert.Equal(t, compute.Placeholder, got["before-avg"].Display())
	assert.True(t, got["before-total"].Resolved, "an empty sum is zero")
	assert.Equal(t, 0.0, got["before-total"].Value)
}

// TestDifference_PerRowAndAggregate pins the multi-row semantics: each row pairs
// fieldA with fieldB and the field value is ΣB − ΣA.
func TestDifference_PerRowAndAggregate(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{
		pair(worksheet.Number(65), worksheet.Number(40)),
		pair(worksheet.Number(80), worksheet.Number(70)),
	})
	r := compute.Resolve(c, s)["belief-change"]
	require.True(t, r.Resolved)
	assert.Equal(t, -35.0, r.Value)
	require.Len(t, r.Rows, 2)
	assert.Equal(t, -25.0, r.Rows[0].Value)
	assert.Equal(t, -10.0, r.Rows[1].Value)
	assert.Equal(t, "-35", r.Display())
}

func TestDifference_SkipsIncompleteRows(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{
		pair(worksheet.Number(65), worksheet.Number(40)),
		pair(worksheet.Number(80), worksheet.Text("")),
	})
	r := compute.Resolve(c, s)["belief-change"]
	require.True(t, r.Resolved)
	assert.Equal(t, -25.0, r.Value)
	assert.False(t, r.Rows[1].Resolved)

	c, s = withRows(t, worksheet.Rows{pair(worksheet.Text(""), worksheet.Number(1))})
	assert.False(t, compute.Resolve(c, s)["belief-change"].Resolved)
}

func TestPercentageChange(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{
		pair(worksheet.Number(80), worksheet.Number(60)),
		pair(worksheet.Number(0), worksheet.Number(10)),
	})
	r := compute.Resolve(c, s)["belief-pct"]
	// (70 - 80) / 80 * 100
	require.True(t, r.Resolved)
	assert.InDelta(t, -12.5, r.Value, 1e-9)
	assert.Equal(t, "-12.5", r.Display())
	assert.InDelta(t, -25.0, r.Rows[0].Value, 1e-9)
	assert.False(t, r.Rows[1].Resolved, "zero baseline is unresolved")
}

// TestPercentageChange_ZeroBaseline checks that fieldA = 0 never produces an infinite
// or NaN value for any fieldB.
func TestPercentageChange_ZeroBaseline(t *testing.T) {
	for _, b := range []float64{-5, 0, 5, 1e9} {
		c, s := withRows(t, worksheet.Rows{pair(worksheet.Number(0), worksheet.Number(b))})
		r := compute.Resolve(c, s)["belief-pct"]
		assert.False(t, r.Resolved, "fieldB=%v", b)
		assert.False(t, math.IsInf(r.Value, 0) || math.IsNaN(r.Value))
		assert.Equal(t, "—", r.Display())

		out, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"value":null`)
	}
}

func TestGroupBy(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{
		{"belief_before": worksheet.Number(10), "kind": worksheet.Text("work")},
		{"belief_before": worksheet.Number(5), "kind": worksheet.Text("home")},
		{"belief_before": worksheet.Number(7), "kind": worksheet.Text("work")},
	})
	r := compute.Resolve(c, s)["before-total"]
	assert.Equal(t, 22.0, r.Value)
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "work", r.Groups[0].Key)
	assert.Equal(t, 17.0, r.Groups[0].Result.Value)
	assert.Equal(t, "home", r.Groups[1].Key)
	assert.Equal(t, 5.0, r.Groups[1].Result.Value)
}

func TestRecordAverage(t *testing.T) {
	c := fixture.Compiled(fixture.ThoughtRecord)
	s := worksheet.NewStore(c)
	s, err := s.AddEntry("thoughts")
	require.NoError(t, err)
	s, err = s.SetSubfield("thoughts", 0, "emotion", "intensity", worksheet.Number(80))
	require.NoError(t, err)
	s, err = s.SetSubfield("thoughts", 1, "emotion", "intensity", worksheet.Number(40))
	require.NoError(t, err)
	r := compute.Field(c, s, "avg-intensity")
	require.True(t, r.Resolved)
	assert.Equal(t, 60.0, r.Value)

	assert.False(t, compute.Field(c, s, "name").Resolved)
	assert.False(t, compute.Field(c, s, "ghost").Resolved)
}

func TestDisplayPrecision(t *testing.T) {
	r := compute.Result{Resolved: true, Value: 100.0 / 3, Precision: 2}
	assert.Equal(t, "33.33", r.Display())
	r.Precision = 0
	assert.Equal(t, "33", r.Display())
	assert.Equal(t, worksheet.Number(100.0/3), r.Number())
	assert.Nil(t, compute.Unresolved().Number())
}

func TestDisplay_LargeValues(t *testing.T) {
	c, s := withRows(t, worksheet.Rows{before(worksheet.Number(1e307))})
	got := compute.Resolve(c, s)["before-total"]
	require.True(t, got.Resolved)
	assert.NotContains(t, got.Display(), "Inf")
	assert.Equal(t, strconv.FormatFloat(1e307, 'f', -1, 64), got.Display())

	r := compute.Result{Resolved: true, Value: -1.5e300, Precision: 3}
	assert.Equal(t, strconv.FormatFloat(-1.5e300, 'f', -1, 64), r.Display())
}
