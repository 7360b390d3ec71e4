package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/reoring/worksheet"
)

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	key          string // last key of an object
	index        int    // next element index of an array
	path         worksheet.PathRef
}

// DuplicateKeys scans a JSON document and reports every object key that appears more
// than once in the same object. A syntax error is reported as a parse_error issue.
func DuplicateKeys(data []byte) worksheet.Issues {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var issues worksheet.Issues
	var stack []*frame

	// valuePath is the pointer of the value that starts at the current token.
	valuePath := func() worksheet.PathRef {
		if len(stack) == 0 {
			return worksheet.Root()
		}
		top := stack[len(stack)-1]
		if top.kind == kindObject {
			return top.path.Field(top.key)
		}
		return top.path.Index(top.index)
	}
	// consumed marks the end of one value in the enclosing container.
	consumed := func() {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		if top.kind == kindObject {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if len(stack) > 0 {
				issues = append(issues, worksheet.Issue{Path: "/", Code: worksheet.CodeParse,
					Message: "unexpected end of JSON input", Cause: io.ErrUnexpectedEOF})
			}
			break
		}
		if err != nil {
			issues = append(issues, worksheet.Issue{Path: "/", Code: worksheet.CodeParse, Message: err.Error(), Cause: err})
			break
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{':
				stack = append(stack, &frame{kind: kindObject, keys: map[string]struct{}{}, expectingKey: true, path: valuePath()})
			case '[':
				stack = append(stack, &frame{kind: kindArray, path: valuePath()})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				consumed()
			}
		case string:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.kind == kindObject && top.expectingKey {
					if _, dup := top.keys[v]; dup {
						issues = append(issues, top.path.Issue("", worksheet.CodeDuplicateKey,
							fmt.Sprintf("key %s appears more than once", strconv.Quote(v)), "key", v))
					}
					top.keys[v] = struct{}{}
					top.key = v
					top.expectingKey = false
					continue
				}
			}
			consumed()
		default:
			consumed()
		}
	}
	return issues
}
