package worksheet

import (
	"fmt"
	"strconv"

	"github.com/reoring/worksheet/formulation"
)

// Validate checks a schema and returns every structural issue found. An empty result
// means the schema can be compiled and bound to a store.
func Validate(s *Schema) Issues {
	_, iss := analyze(s)
	return iss
}

// ValidateWithOpt is Validate with options.
func ValidateWithOpt(s *Schema, opt ValidateOpt) Issues {
	iss := Validate(s)
	if opt.FailFast && len(iss) > 1 {
		return iss[:1]
	}
	return iss
}

// ValidateSuccessor validates next as an edit of prev: next must be valid on its own and
// its version must not go backwards.
func ValidateSuccessor(prev, next *Schema) Issues {
	iss := Validate(next)
	if prev != nil && next != nil && next.Version < prev.Version {
		iss = AppendIssues(iss, Root().Field("version").Issue("", CodeInvalidVersion,
			fmt.Sprintf("version %d is older than the current version %d", next.Version, prev.Version),
			"got", next.Version, "min", prev.Version))
	}
	return iss
}

type validator struct {
	iss       Issues
	fields    map[string]Field
	order     []string
	sectionOf map[string]string
	locs      map[string]PathRef
	refs      map[string]ComputedRefs
}

func (v *validator) add(p PathRef, fieldID, code, msg string, kv ...any) {
	v.iss = append(v.iss, p.Issue(fieldID, code, msg, kv...))
}

// hint attaches a remediation hint to the last issue.
func (v *validator) hint(h string) {
	if h != "" && len(v.iss) > 0 {
		v.iss[len(v.iss)-1].Hint = h
	}
}

// analyze runs every structural check and, when the schema is clean, returns the
// compiled form.
func analyze(s *Schema) (*Compiled, Issues) {
	if s == nil {
		return nil, Issues{Root().Issue("", CodeRequired, "schema is nil")}
	}
	v := &validator{
		fields:    map[string]Field{},
		sectionOf: map[string]string{},
		locs:      map[string]PathRef{},
		refs:      map[string]ComputedRefs{},
	}
	root := Root()
	if s.Version < 1 {
		v.add(root.Field("version"), "", CodeInvalidVersion, "version must be at least 1", "got", s.Version)
	}
	if s.MaxEntries < 0 || (s.Repeatable && s.MaxEntries < 1) {
		v.add(root.Field("maxEntries"), "", CodeInvalidRange, "repeatable worksheets need maxEntries >= 1", "got", s.MaxEntries)
	}

	// Pass 1: ids and locations.
	sectionIDs := map[string]PathRef{}
	for i, sec := range s.Sections {
		sp := root.Field("sections").Index(i)
		if sec == nil {
			v.add(sp, "", CodeRequired, "section is null")
			continue
		}
		switch {
		case sec.ID == "":
			v.add(sp.Field("id"), "", CodeRequired, "section id is required")
		case sectionIDs[sec.ID] != nil:
			v.add(sp.Field("id"), sec.ID, CodeDuplicateID,
				fmt.Sprintf("section id %q is already used at %s", sec.ID, sectionIDs[sec.ID].Pointer()))
		default:
			sectionIDs[sec.ID] = sp
		}
		for j, f := range sec.Fields {
			fp := sp.Field("fields").Index(j)
			if f == nil {
				v.add(fp, "", CodeRequired, "field is null")
				continue
			}
			id := f.Base().ID
			if id == "" {
				v.add(fp.Field("id"), "", CodeRequired, "field id is required")
				continue
			}
			if prev, dup := v.locs[id]; dup {
				v.add(fp.Field("id"), id, CodeDuplicateID,
					fmt.Sprintf("field id %q is already used at %s; ids are schema-global", id, prev.Pointer()))
				continue
			}
			v.locs[id] = fp
			v.fields[id] = f
			v.order = append(v.order, id)
			v.sectionOf[id] = sec.ID
		}
	}
	clashed := make(map[string]bool)
	for _, sec := range s.Sections {
		if sec == nil || clashed[sec.ID] {
			continue
		}
		if fp, clash := v.locs[sec.ID]; clash {
			clashed[sec.ID] = true
			v.add(sectionIDs[sec.ID].Field("id"), sec.ID, CodeDuplicateID,
				fmt.Sprintf("section id %q collides with the field at %s", sec.ID, fp.Pointer()))
		}
	}

	// Pass 2: per-variant checks and predicates. Walk the declaration order again so
	// issues come out in document order.
	for i, sec := range s.Sections {
		if sec == nil {
			continue
		}
		sp := root.Field("sections").Index(i)
		if sec.ShowWhen != nil {
			v.checkPredicate(sp.Field("showWhen"), sec.ID, sec.ShowWhen)
		}
		for j, f := range sec.Fields {
			if f == nil || f.Base().ID == "" {
				continue
			}
			fp := sp.Field("fields").Index(j)
			if v.fields[f.Base().ID] != f {
				// duplicate already reported
				continue
			}
			v.checkField(fp, f)
			if p := f.Base().ShowWhen; p != nil {
				v.checkPredicate(fp.Field("showWhen"), f.Base().ID, p)
			}
		}
	}

	locs := make(map[string]PathRef, len(v.locs)+len(sectionIDs))
	for id, p := range sectionIDs {
		locs[id] = p
	}
	for id, p := range v.locs {
		locs[id] = p
	}
	g := buildGraph(s, v.fields, v.refs)
	v.iss = append(v.iss, cycleIssues(g, locs)...)
	if len(v.iss) > 0 {
		return nil, v.iss
	}
	order, _ := g.TopoOrder()
	return &Compiled{
		schema:     s,
		fields:     v.fields,
		fieldOrder: v.order,
		sectionOf:  v.sectionOf,
		refs:       v.refs,
		graph:      g,
		order:      order,
	}, nil
}

func (v *validator) checkField(fp PathRef, f Field) {
	id := f.Base().ID
	switch t := f.(type) {
	case *TextField, *TextareaField, *DateField, *TimeField:
	case *NumberField:
		if t.Min != nil && t.Max != nil && *t.Min > *t.Max {
			v.add(fp, id, CodeInvalidRange, "number min is greater than max", "min", *t.Min, "max", *t.Max)
		}
	case *SelectField:
		v.checkOptions(fp.Field("options"), id, t.Options)
	case *ChecklistField:
		v.checkOptions(fp.Field("options"), id, t.Options)
	case *LikertField:
		v.checkLikert(fp, id, float64(t.Min), float64(t.Max), t.Anchors)
	case *TableField:
		v.checkTable(fp, t)
	case *RecordField:
		v.checkRecord(fp, t)
	case *FormulationField:
		v.checkFormulation(fp, t)
	case *ComputedField:
		v.checkComputed(fp, t)
	case *UnknownField:
		v.add(fp.Field("type"), id, CodeUnknownType, fmt.Sprintf("unknown field type %q", t.TypeName),
			"type", t.TypeName)
	default:
		v.add(fp.Field("type"), id, CodeUnknownType, fmt.Sprintf("unsupported field variant %T", f))
	}
}

func (v *validator) checkOptions(p PathRef, id string, opts []string) {
	if len(opts) == 0 {
		v.add(p, id, CodeRequired, "at least one option is required")
		return
	}
	seen := map[string]bool{}
	for i, o := range opts {
		if seen[o] {
			v.add(p.Index(i), id, CodeDuplicateID, fmt.Sprintf("option %q is listed twice", o))
		}
		seen[o] = true
	}
}

func (v *validator) checkLikert(p PathRef, id string, lo, hi float64, anchors map[string]string) {
	if lo >= hi {
		v.add(p, id, CodeInvalidRange, "likert min must be less than max", "min", lo, "max", hi)
		return
	}
	for _, k := range sortedKeys(anchors) {
		n, err := strconv.Atoi(k)
		if err != nil || float64(n) < lo || float64(n) > hi {
			v.add(p.Field("anchors").Field(k), id, CodeInvalidAnchor,
				fmt.Sprintf("anchor %q is not a point of the scale [%s, %s]", k, FormatNumber(lo), FormatNumber(hi)))
		}
	}
}

func (v *validator) checkBounds(p PathRef, id, minKey, maxKey string, lo, hi int) {
	if lo < 0 {
		v.add(p.Field(minKey), id, CodeInvalidRange, minKey+" cannot be negative", "got", lo)
	}
	if hi < 0 {
		v.add(p.Field(maxKey), id, CodeInvalidRange, maxKey+" cannot be negative", "got", hi)
	}
	if hi > 0 && lo > hi {
		v.add(p.Field(maxKey), id, CodeInvalidRange, fmt.Sprintf("%s (%d) is below %s (%d)", maxKey, hi, minKey, lo),
			"min", lo, "max", hi)
	}
}

func (v *validator) checkTable(fp PathRef, t *TableField) {
	id := t.ID
	if len(t.Columns) == 0 {
		v.add(fp.Field("columns"), id, CodeRequired, "a table needs at least one column")
	}
	seen := map[string]bool{}
	for i, c := range t.Columns {
		cp := fp.Field("columns").Index(i)
		if c.ID == "" {
			v.add(cp.Field("id"), id, CodeRequired, "column id is required")
			continue
		}
		if seen[c.ID] {
			v.add(cp.Field("id"), id, CodeDuplicateID, fmt.Sprintf("column id %q is declared twice", c.ID))
		}
		seen[c.ID] = true
		if !allowedType(c.Type, columnTypes) {
			v.add(cp.Field("type"), id, CodeUnknownType, fmt.Sprintf("column type %q is not allowed in tables", c.Type),
				"allowed", columnTypes)
		}
		if c.Type == TypeSelect {
			v.checkOptions(cp.Field("options"), id, c.Options)
		}
	}
	v.checkBounds(fp, id, "minRows", "maxRows", t.MinRows, t.MaxRows)
}

func (v *validator) checkRecord(fp PathRef, t *RecordField) {
	id := t.ID
	if len(t.Groups) == 0 {
		v.add(fp.Field("groups"), id, CodeRequired, "a record needs at least one group")
	}
	groups := map[string]bool{}
	for i, g := range t.Groups {
		gp := fp.Field("groups").Index(i)
		if g.ID == "" {
			v.add(gp.Field("id"), id, CodeRequired, "group id is required")
		} else if groups[g.ID] {
			v.add(gp.Field("id"), id, CodeDuplicateID, fmt.Sprintf("group id %q is declared twice", g.ID))
		}
		groups[g.ID] = true
		if len(g.Fields) == 0 {
			v.add(gp.Field("fields"), id, CodeRequired, "a group needs at least one sub-field")
		}
		subs := map[string]bool{}
		for j, sf := range g.Fields {
			sp := gp.Field("fields").Index(j)
			if sf.ID == "" {
				v.add(sp.Field("id"), id, CodeRequired, "sub-field id is required")
				continue
			}
			if subs[sf.ID] {
				v.add(sp.Field("id"), id, CodeDuplicateID, fmt.Sprintf("sub-field id %q is declared twice in group %q", sf.ID, g.ID))
			}
			subs[sf.ID] = true
			if !allowedType(sf.Type, subFieldTypes) {
				v.add(sp.Field("type"), id, CodeUnknownType, fmt.Sprintf("sub-field type %q is not allowed in records", sf.Type),
					"allowed", subFieldTypes)
				continue
			}
			switch sf.Type {
			case TypeSelect, TypeChecklist:
				v.checkOptions(sp.Field("options"), id, sf.Options)
			case TypeLikert:
				if sf.Min == nil || sf.Max == nil {
					v.add(sp, id, CodeRequired, "likert sub-fields need min and max")
				} else {
					v.checkLikert(sp, id, *sf.Min, *sf.Max, sf.Anchors)
				}
			case TypeNumber:
				if sf.Min != nil && sf.Max != nil && *sf.Min > *sf.Max {
					v.add(sp, id, CodeInvalidRange, "number min is greater than max")
				}
			}
		}
	}
	v.checkBounds(fp, id, "minRecords", "maxRecords", t.MinRecords, t.MaxRecords)
}

func (v *validator) checkFormulation(fp PathRef, t *FormulationField) {
	for _, pr := range formulation.ValidateGraph(t.Layout, t.Nodes, t.Connections) {
		p := fp.Field(string(pr.Target))
		if pr.Index >= 0 {
			p = p.Index(pr.Index)
		}
		v.add(p, t.ID, pr.Code, pr.Message, "node", pr.NodeID)
	}
}

func (v *validator) checkComputed(fp PathRef, t *ComputedField) {
	id := t.ID
	if !t.Operation.Valid() {
		v.add(fp.Field("operation"), id, CodeUnknownOperation, fmt.Sprintf("unknown operation %q", t.Operation),
			"operation", string(t.Operation))
		return
	}
	if t.Precision != nil && (*t.Precision < 0 || *t.Precision > 10) {
		v.add(fp.Field("precision"), id, CodeInvalidRange, "precision must be within [0, 10]", "got", *t.Precision)
	}
	var refs ComputedRefs
	resolve := func(key, raw string) (PathReference, bool) {
		p := fp.Field(key)
		ref, err := ParsePath(raw)
		if err != nil {
			v.add(p, id, CodeInvalidReference, err.Error(), "path", raw)
			return PathReference{}, false
		}
		ref, _, why := resolvePath(v.fields, ref)
		if why != "" {
			v.add(p, id, CodeUnresolvedReference, why, "path", raw)
			if _, known := v.fields[ref.Field]; !known {
				v.hint(didYouMean(ref.Field, v.order))
			}
			return PathReference{}, false
		}
		return ref, true
	}
	if t.Operation.Binary() {
		if t.FieldA == "" {
			v.add(fp.Field("fieldA"), id, CodeRequired, fmt.Sprintf("%s needs fieldA", t.Operation))
		}
		if t.FieldB == "" {
			v.add(fp.Field("fieldB"), id, CodeRequired, fmt.Sprintf("%s needs fieldB", t.Operation))
		}
		if t.GroupBy != "" {
			v.add(fp.Field("groupBy"), id, CodeInvalidReference, fmt.Sprintf("groupBy is not supported for %s", t.Operation))
		}
		var okA, okB bool
		if t.FieldA != "" {
			refs.A, okA = resolve("fieldA", t.FieldA)
		}
		if t.FieldB != "" {
			refs.B, okB = resolve("fieldB", t.FieldB)
		}
		if okA && okB && refs.A.Field != refs.B.Field {
			v.add(fp.Field("fieldB"), id, CodeInvalidReference,
				fmt.Sprintf("fieldA and fieldB must read the same table or record (%q vs %q)", refs.A.Field, refs.B.Field))
		}
	} else {
		if t.Field == "" {
			v.add(fp.Field("field"), id, CodeRequired, fmt.Sprintf("%s needs field", t.Operation))
		} else {
			refs.Field, _ = resolve("field", t.Field)
		}
		if t.GroupBy != "" {
			var ok bool
			refs.GroupBy, ok = resolve("groupBy", t.GroupBy)
			if ok && refs.Field.Raw != "" && refs.GroupBy.Field != refs.Field.Field {
				v.add(fp.Field("groupBy"), id, CodeInvalidReference,
					fmt.Sprintf("groupBy must read the same table or record as field (%q)", refs.Field.Field))
			}
		}
	}
	v.refs[id] = refs
}

func (v *validator) checkPredicate(p PathRef, owner string, pr *Predicate) {
	if !pr.Operator.Valid() {
		v.add(p.Field("operator"), owner, CodeUnknownOperator, fmt.Sprintf("unknown operator %q", pr.Operator),
			"operator", string(pr.Operator))
	}
	switch f, ok := v.fields[pr.Field]; {
	case pr.Field == "":
		v.add(p.Field("field"), owner, CodeInvalidPredicate, "predicate field is required")
	case !ok:
		v.add(p.Field("field"), owner, CodeUnresolvedReference, fmt.Sprintf("predicate reads unknown field %q", pr.Field))
		v.hint(didYouMean(pr.Field, v.order))
	case f.Type() == TypeComputed:
		v.add(p.Field("field"), owner, CodeInvalidPredicate,
			fmt.Sprintf("predicate cannot read computed field %q", pr.Field))
	}
	if !pr.Operator.Valid() {
		return
	}
	if pr.Operator.NeedsValue() && pr.Value == nil {
		v.add(p.Field("value"), owner, CodeInvalidPredicate, fmt.Sprintf("operator %s needs a value", pr.Operator))
		return
	}
	if pr.Operator == OpGreaterThan || pr.Operator == OpLessThan {
		if _, ok := LiteralNumber(pr.Value); !ok {
			v.add(p.Field("value"), owner, CodeInvalidPredicate,
				fmt.Sprintf("operator %s needs a numeric value, got %v", pr.Operator, pr.Value))
		}
	}
}
