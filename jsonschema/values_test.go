package jsonschema_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/worksheet/internal/fixture"
	"github.com/reoring/worksheet/jsonschema"
)

func TestForValues(t *testing.T) {
	out := jsonschema.ForValues(fixture.Schema(fixture.ThoughtRecord))
	assert.Equal(t, jsonschema.Draft, out.SchemaURI)
	assert.Equal(t, "object", out.Type)
	assert.Equal(t, false, out.AdditionalProperties)

	assert.NotContains(t, out.Properties, "belief-change", "computed fields are not stored")
	assert.Contains(t, out.Properties, "hot-cross")

	name := out.Properties["name"]
	assert.Equal(t, "string", name.Type)
	assert.Equal(t, "Name", name.Title)

	age := out.Properties["age"]
	require.Len(t, age.OneOf, 2, "numbers may be left blank")
	assert.Equal(t, 120.0, *age.OneOf[0].Maximum)

	mood := out.Properties["mood"]
	assert.Equal(t, []any{"", "low", "ok", "good"}, mood.Enum)

	distress := out.Properties["distress"]
	assert.Equal(t, "integer", distress.Type)
	assert.Equal(t, 10.0, *distress.Maximum)

	symptoms := out.Properties["symptoms"]
	assert.True(t, symptoms.UniqueItems)
	assert.Equal(t, []any{"sleep", "appetite", "focus"}, symptoms.Items.Enum)

	table := out.Properties["record-table"]
	assert.Equal(t, "array", table.Type)
	assert.Equal(t, 1, *table.MinItems)
	assert.Equal(t, 3, *table.MaxItems)
	assert.Len(t, table.Items.Properties, 4)

	thoughts := out.Properties["thoughts"]
	intensity := thoughts.Items.Properties["emotion"].Properties["intensity"]
	assert.Equal(t, "integer", intensity.Type)
	assert.Equal(t, 100.0, *intensity.Maximum)

	nodes := out.Properties["hot-cross"]
	assert.Equal(t, "string", nodes.Properties["situation-node"].Properties["text"].Type)
}

func TestForValues_JSON(t *testing.T) {
	out := jsonschema.ForValues(fixture.Schema(fixture.MoodDiary))
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, jsonschema.Draft, doc["$schema"])
	assert.Equal(t, false, doc["additionalProperties"])
	props := doc["properties"].(map[string]any)
	assert.NotContains(t, props, "active-minutes")
	activities := props["activities"].(map[string]any)
	assert.NotContains(t, activities, "minItems", "an unbounded table has no item bounds")
}
