package linestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dshills/linestore/internal/engine/spans"
)

// Load appends newline-delimited text from r to the end of the document.
func (s *Store) Load(r io.Reader, filter bool) error {
	return s.LoadBlock(r, s.lines, 0, filter)
}

// LoadBlock streams newline-delimited text from r into the document at
// (line, col).
//
// The existing line's text before col prefixes the first incoming line and
// the text after col is appended to the last incoming line. Input without
// any line terminator is spliced into the existing line. Input that ends
// with a terminator leaves the suffix on a line of its own; when appending
// at the end of the document no trailing empty line is created. CR before
// LF is dropped; with filter, control characters other than TAB and ANSI
// escape sequences are removed as well.
//
// On a read error the lines stored so far remain in the document.
func (s *Store) LoadBlock(r io.Reader, line, col int, filter bool) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if line < 0 || line > s.lines {
		return s.rangeError("load block", line)
	}

	existing := line < s.lines
	var prefix, suffix, headColor, tailColor string
	if existing {
		l := s.lookup(line)
		if l == nil {
			return s.inconsistent("load block", line, "line not addressable")
		}
		text := string(l.text)
		col = clampColumn(text, col)
		prefix, suffix = text[:col], text[col:]
		headColor, tailColor = spans.Split(l.color, col)
	} else {
		// Appending at the end runs in one direction only.
		prev := s.strategy
		s.strategy = AppendOptimized
		defer func() { s.strategy = prev }()
	}

	br := bufio.NewReader(r)
	first, terminated, err := readLine(br, filter)
	if err != nil {
		return fmt.Errorf("load block: %w", err)
	}

	if !terminated {
		if !existing {
			if first == "" {
				return nil
			}
			_, err := s.store(line, first, "", Insert)
			return err
		}
		color := spans.Join(headColor, len(prefix)+len(first), tailColor)
		_, err := s.store(line, prefix+first+suffix, color, Overwrite)
		return err
	}

	n := line
	var written int
	if existing {
		written, err = s.store(n, prefix+first, headColor, Overwrite)
	} else {
		written, err = s.store(n, first, "", Insert)
	}
	if err != nil {
		return err
	}
	n += written

	if existing && n < s.lines {
		if p, err := s.locate(n); err == nil && p.block > 0 {
			if err := s.splitBlock(n, true); err != nil {
				return err
			}
		}
	}

	for {
		text, terminated, err := readLine(br, filter)
		if err != nil {
			return fmt.Errorf("load block: line %d: %w", n, err)
		}
		if !terminated {
			if existing {
				_, err = s.store(n, text+suffix, spans.Shift(tailColor, len(text)), Insert)
			} else if text != "" {
				_, err = s.store(n, text, "", Insert)
			}
			return err
		}
		if written, err = s.store(n, text, "", Insert); err != nil {
			return err
		}
		n += written
	}
}

// readLine reads one line. terminated reports whether a newline ended it;
// a line cut short by EOF is returned with terminated false.
func readLine(br *bufio.Reader, filter bool) (text string, terminated bool, err error) {
	text, err = br.ReadString('\n')
	switch {
	case err == nil:
		terminated = true
		text = strings.TrimSuffix(text[:len(text)-1], "\r")
	case errors.Is(err, io.EOF):
		err = nil
	default:
		return "", false, err
	}
	if filter {
		text = filterControl(text)
	}
	return text, terminated, nil
}

// filterControl removes ANSI escape sequences and control characters other
// than TAB.
func filterControl(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if c := s[i]; (c < 0x20 && c != '\t') || c == 0x7f || c == 0xc2 {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == 0x1b:
			i += escapeLen(s[i:])
			continue
		case r == '\t':
			sb.WriteRune(r)
		case r < 0x20, r == 0x7f, r >= 0x80 && r <= 0x9f:
		default:
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	return sb.String()
}

// escapeLen returns the byte length of the escape sequence at the start of
// s, which begins with ESC.
func escapeLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case '[':
		// CSI: parameters and intermediates up to a final byte in @..~.
		for i := 2; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return len(s)
	case ']':
		// OSC: terminated by BEL or ESC \.
		for i := 2; i < len(s); i++ {
			if s[i] == 0x07 {
				return i + 1
			}
			if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return len(s)
	default:
		_, size := utf8.DecodeRuneInString(s[1:])
		return 1 + size
	}
}
