package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/reoring/worksheet"
)

// readYAML decodes the first document of a YAML stream into JSON-like values
// (map[string]any, []any, string, int64, float64, bool, nil). Duplicate mapping keys
// are collected as issues with their line and column.
func readYAML(data []byte) (any, worksheet.Issues) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, worksheet.Issues{{Path: "/", Code: worksheet.CodeParse, Message: "empty YAML document"}}
		}
		return nil, worksheet.Issues{{Path: "/", Code: worksheet.CodeParse, Message: err.Error(), Cause: err}}
	}
	w := &yamlWalker{active: map[*yaml.Node]bool{}, budget: maxYAMLNodes}
	v := w.value(&root, worksheet.Root())
	return v, w.iss
}

// maxYAMLNodes bounds the number of nodes produced after alias expansion.
const maxYAMLNodes = 100_000

type yamlWalker struct {
	iss    worksheet.Issues
	active map[*yaml.Node]bool // collections on the current path
	budget int
	spent  bool
}

func (w *yamlWalker) value(n *yaml.Node, p worksheet.PathRef) any {
	if w.spent {
		return nil
	}
	if w.budget--; w.budget < 0 {
		w.spent = true
		w.iss = append(w.iss, p.Issue("", worksheet.CodeParse,
			fmt.Sprintf("document expands to more than %d nodes", maxYAMLNodes), "line", n.Line))
		return nil
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return w.value(n.Content[0], p)
	case yaml.AliasNode:
		if n.Alias == nil || w.active[n.Alias] {
			w.iss = append(w.iss, p.Issue("", worksheet.CodeParse,
				fmt.Sprintf("alias *%s at %d:%d refers to an enclosing node", n.Value, n.Line, n.Column), "line", n.Line))
			return nil
		}
		return w.value(n.Alias, p)
	case yaml.MappingNode, yaml.SequenceNode:
		w.active[n] = true
		defer delete(w.active, n)
		if n.Kind == yaml.SequenceNode {
			return w.sequence(n, p)
		}
		return w.mapping(n, p)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return nil
		case "!!bool":
			if b, err := strconv.ParseBool(n.Value); err == nil {
				return b
			}
			return n.Value
		case "!!int":
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return i
			}
			return n.Value
		case "!!float":
			if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return f
			}
			return n.Value
		default:
			return n.Value
		}
	default:
		return nil
	}
}

// mergeSources lists the mappings named by a "<<" value: one alias or mapping, or a
// sequence of them.
func mergeSources(n *yaml.Node) []*yaml.Node {
	if n.Kind == yaml.SequenceNode {
		return n.Content
	}
	return []*yaml.Node{n}
}

func (w *yamlWalker) mapping(n *yaml.Node, p worksheet.PathRef) any {
	m := make(map[string]any, len(n.Content)/2)
	first := make(map[string][2]int, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Tag == "!!merge" {
			merges = append(merges, v)
			continue
		}
		key := k.Value
		if pos, dup := first[key]; dup {
			w.iss = append(w.iss, p.Issue("", worksheet.CodeDuplicateKey,
				fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", key, k.Line, k.Column, pos[0], pos[1]),
				"key", key, "line", k.Line))
			continue
		}
		first[key] = [2]int{k.Line, k.Column}
		m[key] = w.value(v, p.Field(key))
	}
	// explicit keys win over merged ones; earlier merge sources win over later ones
	for _, src := range merges {
		for _, mv := range mergeSources(src) {
			mm, ok := w.value(mv, p).(map[string]any)
			if !ok {
				continue
			}
			for k, v := range mm {
				if _, set := m[k]; !set {
					m[k] = v
				}
			}
		}
	}
	return m
}

func (w *yamlWalker) sequence(n *yaml.Node, p worksheet.PathRef) any {
	arr := make([]any, 0, len(n.Content))
	for i, c := range n.Content {
		arr = append(arr, w.value(c, p.Index(i)))
	}
	return arr
}
