package worksheet_test

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/internal/fixture"
)

func TestNumeric(t *testing.T) {
	for _, tc := range []struct {
		in   worksheet.Value
		want float64
		ok   bool
	}{
		{worksheet.Number(2.5), 2.5, true},
		{worksheet.Text(" 10 "), 10, true},
		{worksheet.Text(""), 0, false},
		{worksheet.Text("ten"), 0, false},
		{worksheet.List{"1"}, 0, false},
		{nil, 0, false},
	} {
		got, ok := worksheet.Numeric(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.want, got, "%v", tc.in)
	}
}

func TestBlankAndUnanswered(t *testing.T) {
	blankRows := worksheet.Rows{{"a": worksheet.Text(" ")}}
	assert.False(t, worksheet.IsBlank(blankRows))
	assert.True(t, worksheet.IsUnanswered(blankRows))
	assert.True(t, worksheet.IsBlank(worksheet.Rows{}))
	assert.True(t, worksheet.IsBlank(worksheet.Nodes{"n": {"text": ""}}))
	assert.False(t, worksheet.IsBlank(worksheet.Nodes{"n": {"text": "x"}}))
	assert.False(t, worksheet.IsBlank(worksheet.Number(0)))
	assert.True(t, worksheet.IsUnanswered(worksheet.Entries{{"g": {"s": worksheet.List{}}}}))
}

func TestCloneIsDeep(t *testing.T) {
	orig := worksheet.Entries{{"g": {"s": worksheet.List{"a"}}}}
	cp := worksheet.Clone(orig).(worksheet.Entries)
	require.True(t, worksheet.Equal(orig, cp))
	cp[0]["g"]["s"] = worksheet.List{"b"}
	assert.False(t, worksheet.Equal(orig, cp))
	assert.Equal(t, worksheet.List{"a"}, orig[0]["g"]["s"])
}

func TestParsePath(t *testing.T) {
	p, err := worksheet.ParsePath("record-table.belief_before")
	require.NoError(t, err)
	assert.Equal(t, "record-table", p.Field)
	assert.Equal(t, "belief_before", p.Key)

	p, err = worksheet.ParsePath("thoughts.emotion.intensity")
	require.NoError(t, err)
	assert.Equal(t, "emotion", p.Group)

	for _, bad := range []string{"", "table", "a..b", "a.b.c.d", ". b"} {
		_, err := worksheet.ParsePath(bad)
		assert.Error(t, err, bad)
	}

	cells := worksheet.PathReference{Field: "t", Key: "v"}.Cells(worksheet.Rows{
		{"v": worksheet.Number(1)}, {"w": worksheet.Number(2)},
	})
	assert.Equal(t, []worksheet.Value{worksheet.Number(1), nil}, cells)
}

// TestFieldList_JSON checks that the type discriminator survives a schema round trip
// and that unknown variants are kept for validation instead of failing the decode.
func TestFieldList_JSON(t *testing.T) {
	s := fixture.Schema(fixture.ThoughtRecord)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	back, err := worksheet.UnmarshalSchema(b)
	require.NoError(t, err)
	require.Len(t, back.Fields(), len(s.Fields()))
	for i, f := range s.Fields() {
		assert.Equal(t, f.Type(), back.Fields()[i].Type())
		assert.Equal(t, f.Base().ID, back.Fields()[i].Base().ID)
	}

	b, err = worksheet.MarshalField(&worksheet.NumberField{FieldBase: worksheet.FieldBase{ID: "n"}, Unit: "kg"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `{"type":"number",`), string(b))

	odd, err := worksheet.UnmarshalSchema([]byte(`{"version":1,"sections":[{"id":"s","fields":[{"type":"slider","id":"x"}]}]}`))
	require.NoError(t, err)
	u, ok := odd.Fields()[0].(*worksheet.UnknownField)
	require.True(t, ok)
	assert.Equal(t, "slider", u.TypeName)
	assert.Equal(t, []string{worksheet.CodeUnknownType}, worksheet.Validate(odd).Codes())
}
