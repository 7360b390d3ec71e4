package codec

import (
	"strings"
	"time"
)

// Wire layouts of date and time field values.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Date returns a Codec for calendar dates (YYYY-MM-DD).
func Date() Codec[string, time.Time] { return layoutCodec{name: "date", layouts: []string{DateLayout}} }

// Clock returns a Codec for wall-clock times (HH:MM). Seconds are accepted on input
// and dropped on output.
func Clock() Codec[string, time.Time] {
	return layoutCodec{name: "time", layouts: []string{ClockLayout, "15:04:05"}}
}

type layoutCodec struct {
	name    string
	layouts []string
}

func (c layoutCodec) Decode(a string) (time.Time, error) {
	s := strings.TrimSpace(a)
	var last error
	for _, l := range c.layouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return t, nil
		}
		last = err
	}
	return time.Time{}, &FormatError{Format: c.name, Input: a, Err: last}
}

func (c layoutCodec) Encode(b time.Time) (string, error) { return b.Format(c.layouts[0]), nil }

// Valid reports whether s decodes under c.
func Valid(c Codec[string, time.Time], s string) bool {
	_, err := c.Decode(s)
	return err == nil
}
