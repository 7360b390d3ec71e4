package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/worksheet/i18n"
	"github.com/reoring/worksheet/internal/fixture"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func decode(t *testing.T, b *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &out))
	return out
}

func TestValidateCmd(t *testing.T) {
	schema := writeFile(t, "s.json", fixture.ThoughtRecord)
	var buf bytes.Buffer
	require.NoError(t, validateCmd([]string{"-schema", schema}, &buf))
	out := decode(t, &buf)
	assert.Equal(t, true, out["valid"])
	assert.Equal(t, "thought-record", out["id"])

	bad := writeFile(t, "bad.yaml", "version: 0\nsections:\n  - id: a\n    fields:\n      - {type: text, id: x, showWhen: {field: y, operator: empty}}\n")
	buf.Reset()
	err := validateCmd([]string{"-schema", bad}, &buf)
	assert.ErrorAs(t, err, &errFailed{})
	out = decode(t, &buf)
	assert.Equal(t, false, out["valid"])
	assert.Len(t, out["issues"], 2)
}

func TestCheckCmd(t *testing.T) {
	schema := writeFile(t, "s.json", fixture.ThoughtRecord)
	values := writeFile(t, "v.yaml", "mood: low\n")

	var buf bytes.Buffer
	err := checkCmd([]string{"-schema", schema, "-values", values}, &buf)
	assert.ErrorAs(t, err, &errFailed{})
	issues := decode(t, &buf)["issues"].([]any)
	require.Len(t, issues, 2)
	assert.Equal(t, "name", issues[0].(map[string]any)["fieldId"])
	assert.Equal(t, "trigger", issues[1].(map[string]any)["fieldId"])
}

func TestResolveCmd(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })
	schema := writeFile(t, "s.json", fixture.ThoughtRecord)
	var buf bytes.Buffer
	require.NoError(t, resolveCmd([]string{"-schema", schema, "-lang", "ja-JP"}, &buf))
	out := decode(t, &buf)
	display := out["display"].(map[string]any)
	assert.Equal(t, "未回答", display["name"])
	assert.Equal(t, "—", display["belief-change"])
	view := out["view"].(map[string]any)
	assert.Equal(t, false, view["visibility"].(map[string]any)["details"])
}

func TestSlotsAndJSONSchemaCmds(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, slotsCmd([]string{"-layout", "radial"}, &buf))
	assert.Equal(t, "radial", decode(t, &buf)["layout"])
	assert.Error(t, slotsCmd([]string{"-layout", "spiral"}, &buf))

	buf.Reset()
	schema := writeFile(t, "d.json", fixture.MoodDiary)
	require.NoError(t, jsonschemaCmd([]string{"-schema", schema}, &buf))
	out := decode(t, &buf)
	assert.Contains(t, out["properties"], "mood")
}
