// Package source loads worksheet schemas and value documents from JSON or YAML.
//
// JSON is decoded with goccy/go-json and YAML with gopkg.in/yaml.v3; YAML documents
// are normalized to JSON-like values and then follow the JSON path, so both formats
// accept exactly the same documents. Duplicate object keys are rejected in both.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/reoring/worksheet"
)

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// FormatOf infers the format from a file extension. Unknown extensions are JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// ParseSchema decodes a schema document. It does not validate the schema.
func ParseSchema(data []byte, f Format) (*worksheet.Schema, error) {
	raw, err := toJSON(data, f)
	if err != nil {
		return nil, err
	}
	return worksheet.UnmarshalSchema(raw)
}

// CompileSchema decodes and compiles a schema document.
func CompileSchema(data []byte, f Format) (*worksheet.Compiled, error) {
	s, err := ParseSchema(data, f)
	if err != nil {
		return nil, err
	}
	return worksheet.Compile(s)
}

// LoadSchema reads, decodes and compiles a schema file.
func LoadSchema(path string) (*worksheet.Compiled, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read schema: %w", err)
	}
	return CompileSchema(data, FormatOf(path))
}

// ParseValues decodes a value document for c.
func ParseValues(c *worksheet.Compiled, data []byte, f Format) (*worksheet.Store, error) {
	raw, err := toJSON(data, f)
	if err != nil {
		return nil, err
	}
	return worksheet.UnmarshalValues(c, raw)
}

// LoadValues reads and decodes a value file for c.
func LoadValues(c *worksheet.Compiled, path string) (*worksheet.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read values: %w", err)
	}
	return ParseValues(c, data, FormatOf(path))
}

// toJSON checks a document for duplicate keys and returns its JSON encoding.
func toJSON(data []byte, f Format) ([]byte, error) {
	switch f {
	case YAML:
		v, iss := readYAML(data)
		if len(iss) > 0 {
			return nil, iss
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("source: encode yaml document: %w", err)
		}
		return out, nil
	case JSON, "":
		if iss := DuplicateKeys(data); len(iss) > 0 {
			return nil, iss
		}
		return data, nil
	default:
		return nil, fmt.Errorf("source: unsupported format %q", f)
	}
}
