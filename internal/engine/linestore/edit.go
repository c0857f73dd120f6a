package linestore

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/linestore/internal/engine/spans"
)

// Mark is a delayed edit recorded on a line by MarkLine.
type Mark uint8

const (
	// MarkNone clears a pending mark.
	MarkNone Mark = iota
	// MarkDelete deletes the line when marks are applied.
	MarkDelete
	// MarkJoin appends the line onto its predecessor when marks are applied.
	MarkJoin
)

// SplitLine cuts line n at byte column col. With makeNew the tail becomes
// a new line n+1; otherwise the tail is discarded. The annotation is cut
// at the same column.
func (s *Store) SplitLine(n, col int, makeNew bool) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	l := s.lookup(n)
	if l == nil {
		return s.rangeError("split line", n)
	}

	text := string(l.text)
	col = clampColumn(text, col)
	headColor, tailColor := spans.Split(l.color, col)

	if err := s.overwriteLine(n, text[:col], headColor); err != nil {
		return err
	}
	if !makeNew {
		return nil
	}
	return s.insertLine(n+1, text[col:], tailColor)
}

// clampColumn limits col to the text and moves it back to a rune start.
func clampColumn(text string, col int) int {
	if col < 0 {
		return 0
	}
	if col >= len(text) {
		return len(text)
	}
	for col > 0 && !utf8.RuneStart(text[col]) {
		col--
	}
	return col
}

// JoinLine appends line n+1 onto line n and deletes line n+1. When the
// result exceeds MaxLineLength it is truncated, a warning is logged and
// truncated is reported; the join still happens.
func (s *Store) JoinLine(n int) (truncated bool, err error) {
	if err := s.checkWritable(); err != nil {
		return false, err
	}
	if n < 0 || n+1 >= s.lines {
		return false, s.rangeError("join line", n)
	}
	return s.joinLine(n)
}

func (s *Store) joinLine(n int) (bool, error) {
	a, b := s.lookup(n), s.lookup(n+1)
	if a == nil || b == nil {
		return false, s.inconsistent("join line", n, "line pair not addressable")
	}
	head, tail := string(a.text), string(b.text)
	joined := head + tail
	color := spans.Join(a.color, len(head), b.color)

	truncated := false
	if len(joined) > s.maxLineLength {
		joined, _ = cutAt(joined, s.maxLineLength)
		color = spans.Truncate(color, len(joined))
		truncated = true
		s.log.Warn("joined line %d truncated to %d bytes", n, len(joined))
	}

	if err := s.overwriteLine(n, joined, color); err != nil {
		return false, err
	}
	if err := s.deleteLine(n + 1); err != nil {
		return truncated, err
	}
	return truncated, nil
}

// MarkLine records a delayed edit on line n without restructuring storage.
// Marks take effect when ApplyMarks runs.
func (s *Store) MarkLine(n int, m Mark) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	var state lineState
	switch m {
	case MarkNone:
		state = stateLive
	case MarkDelete:
		state = statePendingDelete
	case MarkJoin:
		state = statePendingJoin
	default:
		return fmt.Errorf("mark line: %w: %d", ErrInvalidMode, m)
	}

	l := s.lookup(n)
	if l == nil {
		return s.rangeError("mark line", n)
	}
	if l.state != stateLive {
		s.pending--
	}
	if state != stateLive {
		s.pending++
	}
	l.state = state
	return nil
}

// Marked returns the pending mark on line n.
func (s *Store) Marked(n int) Mark {
	l := s.lookup(n)
	if l == nil {
		return MarkNone
	}
	switch l.state {
	case statePendingDelete:
		return MarkDelete
	case statePendingJoin:
		return MarkJoin
	default:
		return MarkNone
	}
}

// PendingMarks returns the number of lines carrying a mark.
func (s *Store) PendingMarks() int {
	return s.pending
}

// ApplyMarks performs every pending mark in one pass from the last line to
// the first. A MarkJoin on line 0 has nothing to join onto and is cleared.
func (s *Store) ApplyMarks() error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	for n := s.lines - 1; n >= 0 && s.pending > 0; n-- {
		l := s.lookup(n)
		if l == nil {
			return s.inconsistent("apply marks", n, "line not addressable")
		}
		switch l.state {
		case statePendingDelete:
			if err := s.deleteLine(n); err != nil {
				return err
			}
		case statePendingJoin:
			if n == 0 {
				l.state = stateLive
				s.pending--
				continue
			}
			if _, err := s.joinLine(n - 1); err != nil {
				return err
			}
		}
	}
	return nil
}
