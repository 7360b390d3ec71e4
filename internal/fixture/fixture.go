// Package fixture holds worksheet documents shared by the package tests.
package fixture

import (
	"github.com/reoring/worksheet"
)

// ThoughtRecord exercises every field variant: scalars, a conditional section, a
// table with computed projections, a paginated record and a formulation diagram.
const ThoughtRecord = `{
  "id": "thought-record",
  "title": "Thought record",
  "version": 3,
  "sections": [
    {"id": "about", "title": "About you", "fields": [
      {"type": "text", "id": "name", "label": "Name", "required": true},
      {"type": "number", "id": "age", "label": "Age", "min": 0, "max": 120},
      {"type": "date", "id": "day", "label": "Date"},
      {"type": "time", "id": "at", "label": "Time"},
      {"type": "select", "id": "mood", "label": "Mood", "options": ["low", "ok", "good"]},
      {"type": "likert", "id": "distress", "label": "Distress", "min": 0, "max": 10,
       "anchors": {"0": "none", "10": "extreme"}},
      {"type": "checklist", "id": "symptoms", "label": "Symptoms", "options": ["sleep", "appetite", "focus"]}
    ]},
    {"id": "details", "title": "Details",
     "showWhen": {"field": "mood", "operator": "equals", "value": "low"},
     "fields": [
      {"type": "textarea", "id": "trigger", "label": "What happened?", "required": true},
      {"type": "text", "id": "coping", "label": "Coping",
       "showWhen": {"field": "distress", "operator": "greater_than", "value": 5}}
    ]},
    {"id": "log", "title": "Log", "fields": [
      {"type": "table", "id": "record-table", "label": "Beliefs", "minRows": 1, "maxRows": 3, "columns": [
        {"id": "situation", "type": "text"},
        {"id": "belief_before", "type": "number"},
        {"id": "belief_after", "type": "number"},
        {"id": "kind", "type": "select", "options": ["work", "home"]}
      ]},
      {"type": "computed", "id": "belief-change", "operation": "difference",
       "fieldA": "record-table.belief_before", "fieldB": "record-table.belief_after"},
      {"type": "computed", "id": "belief-pct", "operation": "percentage_change",
       "fieldA": "record-table.belief_before", "fieldB": "record-table.belief_after", "precision": 1},
      {"type": "computed", "id": "before-total", "operation": "sum",
       "field": "record-table.belief_before", "groupBy": "record-table.kind"},
      {"type": "computed", "id": "before-avg", "operation": "average", "field": "record-table.belief_before"},
      {"type": "computed", "id": "row-count", "operation": "count", "field": "record-table.situation"}
    ]},
    {"id": "records", "title": "Thought records", "fields": [
      {"type": "record", "id": "thoughts", "label": "Thoughts", "minRecords": 1, "maxRecords": 3, "groups": [
        {"id": "situation", "label": "Situation", "fields": [
          {"id": "what", "type": "text"},
          {"id": "where", "type": "select", "options": ["home", "work"]}
        ]},
        {"id": "emotion", "label": "Emotion", "fields": [
          {"id": "name", "type": "text"},
          {"id": "intensity", "type": "likert", "min": 0, "max": 100}
        ]}
      ]},
      {"type": "computed", "id": "avg-intensity", "operation": "average", "field": "thoughts.intensity"}
    ]},
    {"id": "map", "title": "Formulation", "fields": [
      {"type": "formulation", "id": "hot-cross", "label": "Five areas", "layout": "cross_sectional",
       "nodes": [
        {"id": "situation-node", "slot": "centre", "label": "Situation", "fields": [{"id": "text", "label": "What"}]},
        {"id": "thoughts-node", "slot": "top", "label": "Thoughts", "fields": [{"id": "text"}]},
        {"id": "feelings-node", "slot": "left", "label": "Feelings", "fields": [{"id": "text"}]}
       ],
       "connections": [
        {"from": "situation-node", "to": "thoughts-node"},
        {"from": "situation-node", "to": "feelings-node"}
       ]}
    ]}
  ]
}`

// MoodDiary is a repeatable worksheet with at most seven entries.
const MoodDiary = `{
  "id": "mood-diary",
  "title": "Mood diary",
  "version": 1,
  "repeatable": true,
  "maxEntries": 7,
  "sections": [
    {"id": "today", "fields": [
      {"type": "likert", "id": "mood", "label": "Mood", "min": 1, "max": 5, "required": true},
      {"type": "textarea", "id": "notes", "label": "Notes"},
      {"type": "table", "id": "activities", "columns": [
        {"id": "what", "type": "text"},
        {"id": "minutes", "type": "number"}
      ]},
      {"type": "computed", "id": "active-minutes", "operation": "sum", "field": "activities.minutes"}
    ]}
  ]
}`

// Schema decodes a document and panics when it does not decode.
func Schema(doc string) *worksheet.Schema {
	s, err := worksheet.UnmarshalSchema([]byte(doc))
	if err != nil {
		panic(err)
	}
	return s
}

// Compiled decodes and compiles a document.
func Compiled(doc string) *worksheet.Compiled {
	return worksheet.MustCompile(Schema(doc))
}
