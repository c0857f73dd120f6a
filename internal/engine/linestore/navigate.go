package linestore

// Position moves the cursor to line n, clamped to [0, Lines()].
func (s *Store) Position(n int) {
	if n < 0 {
		n = 0
	}
	if n > s.lines {
		n = s.lines
	}
	s.cur = position{line: n}
	if n < s.lines {
		if p, err := s.locate(n); err == nil {
			s.cur = p
		}
	}
}

// CursorLine returns the line the cursor points at. It is -1 after Prev
// walks off the start and Lines() after Next walks off the end.
func (s *Store) CursorLine() int {
	return s.cur.line
}

// Next returns the line under the cursor and advances to the following
// line. It returns false once the cursor is past the last line.
func (s *Store) Next() (string, bool) {
	l, ok := s.atCursor()
	if !ok {
		return "", false
	}
	text := string(l.text)
	s.cur.line++
	s.step(&s.cur)
	return text, true
}

// Prev returns the line under the cursor and retreats to the preceding
// line. A cursor at Lines() first steps back onto the last line, so a
// backward walk can start from Position(Lines()). It returns false once
// the cursor is before the first line.
func (s *Store) Prev() (string, bool) {
	if s.cur.line == s.lines && s.lines > 0 {
		s.Position(s.lines - 1)
	}
	l, ok := s.atCursor()
	if !ok {
		return "", false
	}
	text := string(l.text)
	s.cur.line--
	s.back(&s.cur)
	return text, true
}

// atCursor resolves the cursor and returns its line.
func (s *Store) atCursor() (*line, bool) {
	if s.cur.line < 0 || s.cur.line >= s.lines {
		return nil, false
	}
	if !s.cur.valid {
		p, err := s.locate(s.cur.line)
		if err != nil {
			return nil, false
		}
		s.cur = p
	}
	if s.lineAt(s.cur) == nil {
		// The cursor landed on an empty block; move to the next real line.
		s.skipForward(&s.cur)
	}
	l := s.lineAt(s.cur)
	return l, l != nil
}

// Line returns the text of line n, or "" when n is out of range.
func (s *Store) Line(n int) string {
	if l := s.lookup(n); l != nil {
		return string(l.text)
	}
	return ""
}

// lookup finds line n, checking the cursor, then the last random lookup,
// then translating from scratch.
func (s *Store) lookup(n int) *line {
	if n < 0 || n >= s.lines {
		return nil
	}
	if s.cur.valid && s.cur.line == n {
		if l := s.lineAt(s.cur); l != nil {
			return l
		}
	}
	if s.last.valid && s.last.line == n {
		if l := s.lineAt(s.last); l != nil {
			return l
		}
	}
	p, err := s.locate(n)
	if err != nil {
		return nil
	}
	s.last = p
	return s.lineAt(p)
}

// step moves p one slot forward after p.line was incremented, crossing
// block, header and data boundaries and skipping empty blocks.
func (s *Store) step(p *position) {
	if !p.valid {
		return
	}
	p.block++
	s.skipForward(p)
}

// skipForward advances p until it addresses an existing line. It
// invalidates p when storage runs out.
func (s *Store) skipForward(p *position) {
	for p.valid {
		if p.data >= len(s.data) {
			p.valid = false
			return
		}
		if b := s.blockAt(*p); b != nil && p.block < len(b.lines) {
			return
		}
		p.block = 0
		p.header++
		if h := s.data[p.data].hdr; h == nil || p.header >= len(h.blocks) {
			p.header = 0
			p.data++
			if p.data >= len(s.data) {
				p.valid = false
			}
		}
	}
}

// back moves p one slot backward after p.line was decremented.
func (s *Store) back(p *position) {
	if !p.valid {
		return
	}
	p.block--
	for p.block < 0 {
		p.header--
		for p.header < 0 {
			p.data--
			if p.data < 0 {
				p.valid = false
				return
			}
			if h := s.data[p.data].hdr; h != nil {
				p.header = len(h.blocks) - 1
			}
		}
		if b := s.blockAt(*p); b != nil {
			p.block = len(b.lines) - 1
		}
	}
}
