// Package spans encodes per-line annotations: highlighted sub-ranges of a
// line's text used for syntax and search coloring.
//
// An annotation is a space-separated list of spans, each written as
// "start-end:attr" where start and end are byte columns (end exclusive)
// and attr is an opaque attribute name without spaces:
//
//	0-4:keyword 5-9:ident 12-20:string
//
// The empty string is the empty annotation. Split, Shift and Join keep
// spans aligned with text when lines are cut or concatenated.
package spans

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformed reports an annotation that does not follow the span syntax.
var ErrMalformed = errors.New("malformed annotation")

// Span is one highlighted range of a line.
type Span struct {
	Start int
	End   int
	Attr  string
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// String returns the span's textual form.
func (s Span) String() string {
	return strconv.Itoa(s.Start) + "-" + strconv.Itoa(s.End) + ":" + s.Attr
}

// Parse decodes an annotation. Empty spans are dropped.
func Parse(annotation string) ([]Span, error) {
	fields := strings.Fields(annotation)
	if len(fields) == 0 {
		return nil, nil
	}

	out := make([]Span, 0, len(fields))
	for _, f := range fields {
		rng, attr, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q has no attribute", ErrMalformed, f)
		}
		lo, hi, ok := strings.Cut(rng, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q has no range", ErrMalformed, f)
		}
		start, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformed, f, err)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformed, f, err)
		}
		if start < 0 || end < start {
			return nil, fmt.Errorf("%w: %q is inverted", ErrMalformed, f)
		}
		if start == end {
			continue
		}
		out = append(out, Span{Start: start, End: end, Attr: attr})
	}
	return out, nil
}

// Format encodes spans, ordered by start column.
func Format(spans []Span) string {
	if len(spans) == 0 {
		return ""
	}
	sorted := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Len() > 0 {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var sb strings.Builder
	for i, s := range sorted {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Split cuts an annotation at col. Spans wholly before col stay in head,
// spans at or after col move to tail renumbered from zero, and a span
// that straddles col is divided between the two.
//
// A malformed annotation cannot be cut; it is returned whole as head.
func Split(annotation string, col int) (head, tail string) {
	if annotation == "" {
		return "", ""
	}
	spans, err := Parse(annotation)
	if err != nil {
		return annotation, ""
	}
	if col < 0 {
		col = 0
	}

	var h, t []Span
	for _, s := range spans {
		switch {
		case s.End <= col:
			h = append(h, s)
		case s.Start >= col:
			t = append(t, Span{Start: s.Start - col, End: s.End - col, Attr: s.Attr})
		default:
			h = append(h, Span{Start: s.Start, End: col, Attr: s.Attr})
			t = append(t, Span{Start: 0, End: s.End - col, Attr: s.Attr})
		}
	}
	return Format(h), Format(t)
}

// Shift moves every span right by delta columns.
func Shift(annotation string, delta int) string {
	if annotation == "" || delta == 0 {
		return annotation
	}
	spans, err := Parse(annotation)
	if err != nil {
		return annotation
	}
	for i := range spans {
		spans[i].Start += delta
		spans[i].End += delta
	}
	return Format(spans)
}

// Join concatenates the annotation of a line with the annotation of the
// text appended at offset.
func Join(head string, offset int, tail string) string {
	tail = Shift(tail, offset)
	switch {
	case head == "":
		return tail
	case tail == "":
		return head
	}
	hs, err := Parse(head)
	if err != nil {
		return head
	}
	ts, err := Parse(tail)
	if err != nil {
		return head
	}
	return Format(append(hs, ts...))
}

// Truncate drops everything at or after col.
func Truncate(annotation string, col int) string {
	head, _ := Split(annotation, col)
	return head
}
