package codec

import (
	"time"
)

// Codec converts between a wire representation A and a domain representation B.
type Codec[A, B any] interface {
	Decode(a A) (B, error) // wire -> domain
	Encode(b B) (A, error) // domain -> canonical wire
}

// FormatError reports input that does not match the codec's layout.
type FormatError struct {
	Format string
	Input  string
	Err    error
}

func (e *FormatError) Error() string {
	return "codec: " + e.Format + ": cannot parse " + quote(e.Input)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Timestamp returns a Codec that converts between RFC3339 strings and time.Time.
// Encoding is canonical: UTC, trailing zero fractions trimmed.
func Timestamp() Codec[string, time.Time] { return rfc3339Codec{} }

type rfc3339Codec struct{}

func (rfc3339Codec) Decode(a string) (time.Time, error) {
	t, err := parseRFC3339(a)
	if err != nil {
		return time.Time{}, &FormatError{Format: "RFC3339", Input: a, Err: err}
	}
	return t, nil
}

func (rfc3339Codec) Encode(b time.Time) (string, error) {
	if b.IsZero() {
		return "", &FormatError{Format: "RFC3339", Input: "zero time"}
	}
	return formatRFC3339Canonical(b), nil
}

func parseRFC3339(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func quote(s string) string { return "\"" + s + "\"" }
