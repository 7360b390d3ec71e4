package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-json"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/eval"
	"github.com/reoring/worksheet/formulation"
	"github.com/reoring/worksheet/i18n"
	"github.com/reoring/worksheet/jsonschema"
	"github.com/reoring/worksheet/source"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	var err error
	switch sub {
	case "validate":
		err = validateCmd(os.Args[2:], os.Stdout)
	case "resolve":
		err = resolveCmd(os.Args[2:], os.Stdout)
	case "check":
		err = checkCmd(os.Args[2:], os.Stdout)
	case "slots":
		err = slotsCmd(os.Args[2:], os.Stdout)
	case "jsonschema":
		err = jsonschemaCmd(os.Args[2:], os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		var failed errFailed
		if errors.As(err, &failed) {
			os.Exit(1)
		}
		fatalf("%s: %v", sub, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `worksheet CLI

Usage:
  worksheet validate -schema s.yaml [-prev old.yaml] [-fail-fast]
  worksheet resolve -schema s.yaml -values v.json [-lang ja-JP]
  worksheet check -schema s.yaml -values v.json [-enforce-hidden]
  worksheet slots -layout radial
  worksheet jsonschema -schema s.yaml

Schema and value files are JSON or YAML, chosen by extension.`)
}

// errFailed signals that the command ran and reported problems on stdout.
type errFailed struct{}

func (errFailed) Error() string { return "problems reported" }

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type issueOut struct {
	FieldID string         `json:"fieldId,omitempty"`
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

func issuesOut(iss worksheet.Issues) []issueOut {
	out := make([]issueOut, 0, len(iss))
	for _, it := range iss {
		out = append(out, issueOut{FieldID: it.FieldID, Path: it.Path, Code: it.Code, Message: it.Message, Hint: it.Hint, Params: it.Params})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// reportIssues prints issues carried by err and converts them into errFailed.
func reportIssues(w io.Writer, err error) error {
	iss, ok := worksheet.AsIssues(err)
	if !ok {
		return err
	}
	if werr := writeJSON(w, map[string]any{"valid": false, "issues": issuesOut(iss)}); werr != nil {
		return werr
	}
	return errFailed{}
}

func validateCmd(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schemaPath, prevPath string
	var failFast, verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file (.json, .yaml)")
	fs.StringVar(&prevPath, "prev", "", "previous version of the schema; the new version must not be older")
	fs.BoolVar(&failFast, "fail-fast", false, "report only the first issue")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	log := newLogger(verbose)

	s, err := readSchema(schemaPath)
	if err != nil {
		return reportIssues(w, err)
	}
	var iss worksheet.Issues
	if prevPath != "" {
		prev, err := readSchema(prevPath)
		if err != nil {
			return fmt.Errorf("previous schema: %w", err)
		}
		iss = worksheet.ValidateSuccessor(prev, s)
		if failFast && len(iss) > 1 {
			iss = iss[:1]
		}
	} else {
		iss = worksheet.ValidateWithOpt(s, worksheet.ValidateOpt{FailFast: failFast})
	}
	log.Debug("validated", "schema", schemaPath, "issues", len(iss))
	if len(iss) > 0 {
		return reportIssues(w, iss)
	}
	return writeJSON(w, map[string]any{"valid": true, "id": s.ID, "version": s.Version})
}

func resolveCmd(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	var schemaPath, valuesPath, lang string
	var verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file (.json, .yaml)")
	fs.StringVar(&valuesPath, "values", "", "value file (.json, .yaml); defaults are used when empty")
	fs.StringVar(&lang, "lang", "en", "language of display placeholders, as a BCP 47 tag (en, ja, ja-JP)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	i18n.SetLanguage(lang)
	c, s, err := load(schemaPath, valuesPath)
	if err != nil {
		return reportIssues(w, err)
	}
	engine := eval.New(c, eval.Options{Logger: newLogger(verbose)})
	view := engine.Resolve(s)
	display := map[string]string{}
	for _, f := range c.Fields() {
		display[f.Base().ID] = view.Display(f.Base().ID)
	}
	return writeJSON(w, map[string]any{"view": view, "display": display})
}

func checkCmd(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemaPath, valuesPath string
	var enforceHidden, verbose bool
	fs.StringVar(&schemaPath, "schema", "", "schema file (.json, .yaml)")
	fs.StringVar(&valuesPath, "values", "", "value file (.json, .yaml)")
	fs.BoolVar(&enforceHidden, "enforce-hidden", false, "require answers for hidden required fields too")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	_ = fs.Parse(args)
	if schemaPath == "" || valuesPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	c, s, err := load(schemaPath, valuesPath)
	if err != nil {
		return reportIssues(w, err)
	}
	opt := eval.CheckOpt{}
	if enforceHidden {
		opt.HiddenRequired = eval.EnforceHidden
	}
	view := eval.New(c, eval.Options{Logger: newLogger(verbose)}).Resolve(s)
	if iss := eval.Check(c, s, view, opt); len(iss) > 0 {
		return reportIssues(w, iss)
	}
	return writeJSON(w, map[string]any{"valid": true})
}

func slotsCmd(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("slots", flag.ExitOnError)
	var layout string
	fs.StringVar(&layout, "layout", "", "formulation layout")
	_ = fs.Parse(args)
	l := formulation.Layout(layout)
	if !l.Valid() {
		return fmt.Errorf("unknown layout %q (known: %v)", layout, formulation.Layouts())
	}
	return writeJSON(w, map[string]any{
		"layout":   l,
		"slots":    formulation.LayoutSlots(l),
		"required": formulation.RequiredSlots(l),
	})
}

func jsonschemaCmd(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("jsonschema", flag.ExitOnError)
	var schemaPath string
	fs.StringVar(&schemaPath, "schema", "", "schema file (.json, .yaml)")
	_ = fs.Parse(args)
	if schemaPath == "" {
		fs.Usage()
		os.Exit(2)
	}
	c, err := source.LoadSchema(schemaPath)
	if err != nil {
		return reportIssues(w, err)
	}
	return writeJSON(w, jsonschema.ForValues(c.Schema()))
}

func readSchema(path string) (*worksheet.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.ParseSchema(data, source.FormatOf(path))
}

func load(schemaPath, valuesPath string) (*worksheet.Compiled, *worksheet.Store, error) {
	c, err := source.LoadSchema(schemaPath)
	if err != nil {
		return nil, nil, err
	}
	if valuesPath == "" {
		return c, worksheet.NewStore(c), nil
	}
	s, err := source.LoadValues(c, valuesPath)
	if err != nil {
		return nil, nil, err
	}
	return c, s, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
