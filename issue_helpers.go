package worksheet

// IssueAt creates an Issue at the given path with provided code, message and params map.
// This is a convenience helper to improve readability at call sites with many parameters.
func IssueAt(p PathRef, fieldID, code, msg string, params map[string]any) Issue {
	return Issue{FieldID: fieldID, Path: p.Pointer(), Code: code, Message: msg, Params: params}
}

// valueIssue builds the single-issue error returned by store transitions.
func valueIssue(p PathRef, fieldID, code, msg string, kv ...any) error {
	return Issues{p.Issue(fieldID, code, msg, kv...)}
}
