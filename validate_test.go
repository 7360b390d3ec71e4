package worksheet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/formulation"
	"github.com/reoring/worksheet/internal/fixture"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func schemaOf(sections ...*worksheet.Section) *worksheet.Schema {
	return &worksheet.Schema{ID: "t", Version: 1, Sections: sections}
}

func section(id string, fields ...worksheet.Field) *worksheet.Section {
	return &worksheet.Section{ID: id, Fields: fields}
}

func beliefTable() *worksheet.TableField {
	return &worksheet.TableField{
		FieldBase: worksheet.FieldBase{ID: "record-table"},
		Columns: []worksheet.Column{
			{ID: "belief_before", Type: worksheet.TypeNumber},
			{ID: "belief_after", Type: worksheet.TypeNumber},
		},
	}
}

func TestValidate_FixturesAreClean(t *testing.T) {
	for _, doc := range []string{fixture.ThoughtRecord, fixture.MoodDiary} {
		iss := worksheet.Validate(fixture.Schema(doc))
		assert.Empty(t, iss, "%v", iss)
	}
}

// TestValidate_CollectsEveryProblem checks that unrelated violations are all reported
// in one pass instead of stopping at the first.
func TestValidate_CollectsEveryProblem(t *testing.T) {
	s := schemaOf(
		section("a",
			&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "dup"}},
			&worksheet.NumberField{FieldBase: worksheet.FieldBase{ID: "dup"}},
			&worksheet.LikertField{FieldBase: worksheet.FieldBase{ID: "scale"}, Min: 5, Max: 1},
			&worksheet.UnknownField{FieldBase: worksheet.FieldBase{ID: "odd"}, TypeName: "slider"},
		),
		section("b",
			&worksheet.ComputedField{FieldBase: worksheet.FieldBase{ID: "total"}, Operation: worksheet.Sum, Field: "missing.col"},
		),
	)
	iss := worksheet.Validate(s)
	codes := iss.Codes()
	assert.Contains(t, codes, worksheet.CodeDuplicateID)
	assert.Contains(t, codes, worksheet.CodeInvalidRange)
	assert.Contains(t, codes, worksheet.CodeUnknownType)
	assert.Contains(t, codes, worksheet.CodeUnresolvedReference)
	assert.GreaterOrEqual(t, len(iss), 4)

	dup := iss.ForField("dup")
	require.Len(t, dup, 1)
	assert.Equal(t, "/sections/0/fields/1/id", dup[0].Path)

	ff := worksheet.ValidateWithOpt(s, worksheet.ValidateOpt{FailFast: true})
	assert.Len(t, ff, 1)
}

func TestValidate_IDsAreSchemaGlobal(t *testing.T) {
	s := schemaOf(
		section("a", &worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "x"}}),
		section("b", &worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "x"}}),
		section("x", &worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "y"}}),
	)
	iss := worksheet.Validate(s)
	require.Len(t, iss.ForField("x"), 2, "%v", iss)
	for _, it := range iss {
		assert.Equal(t, worksheet.CodeDuplicateID, it.Code)
	}
}

func TestValidate_SectionFieldClashesInDocumentOrder(t *testing.T) {
	text := func(id string) worksheet.Field { return &worksheet.TextField{FieldBase: worksheet.FieldBase{ID: id}} }
	s := schemaOf(
		section("c", text("a")),
		section("b", text("c")),
		section("d", text("e")),
		section("a", text("b")),
	)
	for range 10 {
		var paths []string
		for _, it := range worksheet.Validate(s) {
			if it.Code == worksheet.CodeDuplicateID {
				paths = append(paths, it.Path)
			}
		}
		require.Equal(t, []string{"/sections/0/id", "/sections/1/id", "/sections/3/id"}, paths)
	}
}

func TestValidate_LikertAnchors(t *testing.T) {
	s := schemaOf(section("a", &worksheet.LikertField{
		FieldBase: worksheet.FieldBase{ID: "scale"},
		Min:       0, Max: 10,
		Anchors: map[string]string{"0": "none", "11": "too far", "mid": "bad key"},
	}))
	iss := worksheet.Validate(s)
	require.Len(t, iss, 2)
	for _, it := range iss {
		assert.Equal(t, worksheet.CodeInvalidAnchor, it.Code)
	}
}

func TestValidate_TableAndRecordShapes(t *testing.T) {
	s := schemaOf(section("a",
		&worksheet.TableField{
			FieldBase: worksheet.FieldBase{ID: "tbl"},
			Columns: []worksheet.Column{
				{ID: "c", Type: worksheet.TypeText},
				{ID: "c", Type: worksheet.TypeNumber},
				{ID: "d", Type: worksheet.TypeTable},
			},
			MinRows: 3, MaxRows: 2,
		},
		&worksheet.RecordField{
			FieldBase: worksheet.FieldBase{ID: "rec"},
			Groups: []worksheet.Group{{ID: "g", Fields: []worksheet.SubField{
				{ID: "s", Type: worksheet.TypeLikert},
				{ID: "s", Type: worksheet.TypeText},
			}}},
		},
	))
	iss := worksheet.Validate(s)
	tbl := iss.ForField("tbl")
	assert.ElementsMatch(t, []string{worksheet.CodeDuplicateID, worksheet.CodeUnknownType, worksheet.CodeInvalidRange}, tbl.Codes())
	rec := iss.ForField("rec")
	assert.ElementsMatch(t, []string{worksheet.CodeRequired, worksheet.CodeDuplicateID}, rec.Codes())
}

func TestValidate_ComputedReferences(t *testing.T) {
	cases := []struct {
		name string
		cf   *worksheet.ComputedField
		code string
	}{
		{"unparseable path", &worksheet.ComputedField{Operation: worksheet.Sum, Field: "record-table"}, worksheet.CodeInvalidReference},
		{"unknown column", &worksheet.ComputedField{Operation: worksheet.Sum, Field: "record-table.nope"}, worksheet.CodeUnresolvedReference},
		{"scalar target", &worksheet.ComputedField{Operation: worksheet.Sum, Field: "note.x"}, worksheet.CodeUnresolvedReference},
		{"computed target", &worksheet.ComputedField{Operation: worksheet.Sum, Field: "other.x"}, worksheet.CodeUnresolvedReference},
		{"binary without fieldB", &worksheet.ComputedField{Operation: worksheet.Difference, FieldA: "record-table.belief_before"}, worksheet.CodeRequired},
		{"unknown operation", &worksheet.ComputedField{Operation: "median", Field: "record-table.belief_before"}, worksheet.CodeUnknownOperation},
		{"groupBy on binary", &worksheet.ComputedField{Operation: worksheet.Difference, FieldA: "record-table.belief_before",
			FieldB: "record-table.belief_after", GroupBy: "record-table.belief_before"}, worksheet.CodeInvalidReference},
		{"bad precision", &worksheet.ComputedField{Operation: worksheet.Sum, Field: "record-table.belief_before", Precision: intPtr(-1)}, worksheet.CodeInvalidRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.cf.ID = "calc"
			s := schemaOf(section("a",
				beliefTable(),
				&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "note"}},
				&worksheet.ComputedField{FieldBase: worksheet.FieldBase{ID: "other"}, Operation: worksheet.Count, Field: "record-table.belief_before"},
				tc.cf,
			))
			iss := worksheet.Validate(s).ForField("calc")
			require.NotEmpty(t, iss)
			assert.Equal(t, tc.code, iss[0].Code, "%v", iss)
		})
	}
}

func TestValidate_RecordPathAmbiguity(t *testing.T) {
	rec := &worksheet.RecordField{
		FieldBase: worksheet.FieldBase{ID: "rec"},
		Groups: []worksheet.Group{
			{ID: "before", Fields: []worksheet.SubField{{ID: "score", Type: worksheet.TypeNumber}}},
			{ID: "after", Fields: []worksheet.SubField{{ID: "score", Type: worksheet.TypeNumber}}},
		},
	}
	ambiguous := schemaOf(section("a", rec,
		&worksheet.ComputedField{FieldBase: worksheet.FieldBase{ID: "calc"}, Operation: worksheet.Sum, Field: "rec.score"}))
	iss := worksheet.Validate(ambiguous)
	require.Len(t, iss, 1)
	assert.Contains(t, iss[0].Message, "ambiguous")

	qualified := schemaOf(section("a", rec,
		&worksheet.ComputedField{FieldBase: worksheet.FieldBase{ID: "calc"}, Operation: worksheet.Difference,
			FieldA: "rec.before.score", FieldB: "rec.after.score"}))
	c, err := worksheet.Compile(qualified)
	require.NoError(t, err)
	refs, ok := c.Refs("calc")
	require.True(t, ok)
	assert.Equal(t, "before", refs.A.Group)
	assert.Equal(t, "after", refs.B.Group)
}

func TestValidate_Predicates(t *testing.T) {
	s := schemaOf(
		&worksheet.Section{ID: "a", Fields: worksheet.FieldList{
			&worksheet.NumberField{FieldBase: worksheet.FieldBase{ID: "n"}},
			beliefTable(),
			&worksheet.ComputedField{FieldBase: worksheet.FieldBase{ID: "calc"}, Operation: worksheet.Count, Field: "record-table.belief_before"},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "p1", ShowWhen: &worksheet.Predicate{Field: "n", Operator: "between", Value: 1}}},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "p2", ShowWhen: &worksheet.Predicate{Field: "ghost", Operator: worksheet.OpEmpty}}},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "p3", ShowWhen: &worksheet.Predicate{Field: "calc", Operator: worksheet.OpNotEmpty}}},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "p4", ShowWhen: &worksheet.Predicate{Field: "n", Operator: worksheet.OpGreaterThan, Value: "lots"}}},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "p5", ShowWhen: &worksheet.Predicate{Field: "n", Operator: worksheet.OpEquals}}},
		}},
	)
	iss := worksheet.Validate(s)
	assert.Equal(t, []string{worksheet.CodeUnknownOperator}, iss.ForField("p1").Codes())
	assert.Equal(t, []string{worksheet.CodeUnresolvedReference}, iss.ForField("p2").Codes())
	assert.Equal(t, []string{worksheet.CodeInvalidPredicate}, iss.ForField("p3").Codes())
	assert.Equal(t, []string{worksheet.CodeInvalidPredicate}, iss.ForField("p4").Codes())
	assert.Equal(t, []string{worksheet.CodeInvalidPredicate}, iss.ForField("p5").Codes())
}

func TestValidate_HintsForMisspelledIDs(t *testing.T) {
	s := schemaOf(
		section("a",
			&worksheet.SelectField{FieldBase: worksheet.FieldBase{ID: "mood"}, Options: []string{"low", "ok"}},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{
				ID:       "why",
				ShowWhen: &worksheet.Predicate{Field: "mod", Operator: worksheet.OpEquals, Value: "low"},
			}},
			beliefTable(),
			&worksheet.ComputedField{FieldBase: worksheet.FieldBase{ID: "total"}, Operation: worksheet.Sum,
				Field: "record-tabel.belief_before"},
			&worksheet.TextField{FieldBase: worksheet.FieldBase{
				ID:       "other",
				ShowWhen: &worksheet.Predicate{Field: "zzzzzz", Operator: worksheet.OpNotEmpty},
			}},
		),
	)
	iss := worksheet.Validate(s)
	require.Len(t, iss, 3)
	assert.Equal(t, `did you mean "mood"?`, iss[0].Hint)
	assert.Equal(t, `did you mean "record-table"?`, iss[1].Hint)
	assert.Empty(t, iss[2].Hint, "nothing is close")
}

func TestValidate_CyclesAreStructural(t *testing.T) {
	s := schemaOf(section("a",
		&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "x", ShowWhen: &worksheet.Predicate{Field: "y", Operator: worksheet.OpNotEmpty}}},
		&worksheet.TextField{FieldBase: worksheet.FieldBase{ID: "y", ShowWhen: &worksheet.Predicate{Field: "x", Operator: worksheet.OpNotEmpty}}},
	))
	iss := worksheet.Validate(s)
	require.Len(t, iss, 1)
	assert.Equal(t, worksheet.CodeCycle, iss[0].Code)
	assert.True(t, strings.Contains(iss[0].Message, "x -> y -> x") || strings.Contains(iss[0].Message, "y -> x -> y"), iss[0].Message)

	_, err := worksheet.Compile(s)
	assert.True(t, worksheet.HasCode(err, worksheet.CodeCycle))
}

func TestValidate_Formulation(t *testing.T) {
	s := schemaOf(section("a", &worksheet.FormulationField{
		FieldBase: worksheet.FieldBase{ID: "diagram"},
		Layout:    formulation.ThreeSystems,
		Nodes: []formulation.Node{
			{ID: "a", Slot: formulation.System(0)},
			{ID: "b", Slot: formulation.System(1)},
			{ID: "c", Slot: formulation.System(2)},
			{ID: "hub", Slot: formulation.Centre},
		},
		Connections: []formulation.Connection{{From: "a", To: "nowhere"}},
	}))
	iss := worksheet.Validate(s).ForField("diagram")
	assert.Contains(t, iss.Codes(), worksheet.CodeInvalidSlot)
	assert.Contains(t, iss.Codes(), worksheet.CodeUnresolvedReference)
	var paths []string
	for _, it := range iss {
		if it.Code == worksheet.CodeInvalidSlot {
			paths = append(paths, it.Path)
		}
	}
	assert.Contains(t, paths, "/sections/0/fields/0/nodes/3")
	assert.Contains(t, paths, "/sections/0/fields/0/layout")
}

func TestValidate_Versions(t *testing.T) {
	s := fixture.Schema(fixture.ThoughtRecord)
	s.Version = 0
	assert.Equal(t, []string{worksheet.CodeInvalidVersion}, worksheet.Validate(s).Codes())

	prev := fixture.Schema(fixture.ThoughtRecord)
	next := fixture.Schema(fixture.ThoughtRecord)
	next.Version = prev.Version - 1
	assert.Equal(t, []string{worksheet.CodeInvalidVersion}, worksheet.ValidateSuccessor(prev, next).Codes())
	next.Version = prev.Version + 1
	assert.Empty(t, worksheet.ValidateSuccessor(prev, next))
}

func TestValidate_RepeatableNeedsMaxEntries(t *testing.T) {
	s := fixture.Schema(fixture.MoodDiary)
	s.MaxEntries = 0
	assert.Equal(t, []string{worksheet.CodeInvalidRange}, worksheet.Validate(s).Codes())
}

// TestCompile_OrderPutsReadsFirst checks the cached evaluation order: everything a
// computed field or predicate reads comes before it.
func TestCompile_OrderPutsReadsFirst(t *testing.T) {
	c := fixture.Compiled(fixture.ThoughtRecord)
	pos := map[string]int{}
	for i, id := range c.Order() {
		pos[id] = i
	}
	for _, id := range c.Order() {
		for _, dep := range c.Reads(id) {
			assert.Less(t, pos[dep], pos[id], "%s reads %s", id, dep)
		}
	}
	assert.ElementsMatch(t, []string{"belief-change", "belief-pct", "before-total", "before-avg", "row-count", "avg-intensity"},
		c.ComputedOrder())
	assert.ElementsMatch(t, []string{"details", "coping"}, c.Dependents("mood", "distress"))
	assert.Equal(t, "details", c.SectionOf("coping"))
}
