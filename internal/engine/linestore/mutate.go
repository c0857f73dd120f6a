package linestore

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/linestore/internal/engine/spans"
)

// PutLine stores text at line n.
//
// Overwrite replaces an existing line and keeps its annotation. Insert adds
// a line before n and accepts n == Lines() to append. Text longer than
// MaxLineLength is wrapped into following inserted lines.
func (s *Store) PutLine(n int, text string, mode Mode) error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	var color string
	switch mode {
	case Overwrite:
		if n < 0 || n >= s.lines {
			return s.rangeError("put line", n)
		}
		l := s.lookup(n)
		if l == nil {
			return s.inconsistent("put line", n, "line not addressable")
		}
		color = l.color
	case Insert:
		if n < 0 || n > s.lines {
			return s.rangeError("insert line", n)
		}
	default:
		return fmt.Errorf("put line: %w: %d", ErrInvalidMode, mode)
	}

	_, err := s.store(n, text, color, mode)
	return err
}

// store writes text at n with the given mode, wrapping over-length text
// and splitting its annotation in lock-step. It returns the number of
// lines written.
func (s *Store) store(n int, text, color string, mode Mode) (int, error) {
	written := 0
	for {
		head, rest := s.wrap(text)
		headColor, restColor := color, ""
		if rest != "" {
			headColor, restColor = spans.Split(color, len(head))
			s.log.Warn("line %d exceeds %d bytes, wrapping", n, s.maxLineLength)
		}

		var err error
		if mode == Overwrite && written == 0 {
			err = s.overwriteLine(n, head, headColor)
		} else {
			err = s.insertLine(n, head, headColor)
		}
		if err != nil {
			return written, err
		}
		written++

		if rest == "" {
			return written, nil
		}
		n++
		text, color = rest, restColor
	}
}

// wrap cuts text at the maximum line length, backing off to a UTF-8
// boundary.
func (s *Store) wrap(text string) (head, rest string) {
	return cutAt(text, s.maxLineLength)
}

func cutAt(text string, limit int) (head, rest string) {
	if len(text) <= limit {
		return text, ""
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}
	return text[:cut], text[cut:]
}

// bootstrap allocates the first data slot, header and block.
func (s *Store) bootstrap() {
	h := newHeader(s.headerSize)
	h.blocks = append(h.blocks, newBlock(s.linesPerBlock))
	h.counts = append(h.counts, 0)
	s.data = append(s.data[:0], dataSlot{hdr: h})
	s.color.Grow(1)
	s.color.Reset()
	s.invalidate()
}

// insertLine inserts a single line that already fits the length limit.
func (s *Store) insertLine(n int, text, color string) error {
	if s.lines == 0 {
		s.bootstrap()
	}

	p, err := s.locate(n)
	if err != nil {
		return err
	}
	b := s.blockAt(p)
	if len(b.lines) >= s.linesPerBlock-1 {
		if err := s.splitBlock(n, false); err != nil {
			return err
		}
		if p, err = s.locate(n); err != nil {
			return err
		}
		b = s.blockAt(p)
	}

	b.lines = append(b.lines, line{})
	copy(b.lines[p.block+1:], b.lines[p.block:])
	b.lines[p.block] = newLine(text)
	b.color.ShiftRight(p.block)

	h := s.data[p.data].hdr
	h.counts[p.header]++
	h.lines++
	s.data[p.data].lines++
	s.lines++

	s.invalidate()
	s.hint = p
	if color != "" {
		s.applyColor(p, color)
	}
	return nil
}

// overwriteLine replaces the text and annotation of an existing line.
func (s *Store) overwriteLine(n int, text, color string) error {
	p, err := s.locate(n)
	if err != nil {
		return err
	}
	l := s.lineAt(p)
	if l == nil {
		return s.inconsistent("overwrite line", n, "translated slot holds no line")
	}
	l.set(text)
	s.applyColor(p, color)
	return nil
}

// DeleteLines removes count lines starting at n.
func (s *Store) DeleteLines(n, count int) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if count <= 0 {
		return nil
	}
	if n < 0 || n >= s.lines {
		return s.rangeError("delete lines", n)
	}
	if n+count > s.lines {
		return s.rangeError("delete lines", n+count-1)
	}

	for i := 0; i < count; i++ {
		if err := s.deleteLine(n); err != nil {
			return err
		}
	}
	return nil
}

// deleteLine removes line n, compacting emptied blocks and headers.
func (s *Store) deleteLine(n int) error {
	p, err := s.locate(n)
	if err != nil {
		return err
	}
	h := s.data[p.data].hdr
	b := h.blocks[p.header]
	if p.block >= len(b.lines) {
		return s.inconsistent("delete line", n, "block slot %d past %d lines", p.block, len(b.lines))
	}

	l := &b.lines[p.block]
	if l.state != stateLive {
		s.pending--
	}
	hadColor := l.color != ""
	l.release()

	last := len(b.lines) - 1
	copy(b.lines[p.block:], b.lines[p.block+1:])
	b.lines[last] = line{}
	b.lines = b.lines[:last]
	b.color.ShiftLeft(p.block)

	h.counts[p.header]--
	h.lines--
	s.data[p.data].lines--
	s.lines--
	s.invalidate()

	switch {
	case len(b.lines) == 0:
		s.removeBlock(p.data, p.header)
	case hadColor && !b.color.Any():
		h.color.Clear(p.header)
		if !h.color.Any() {
			s.color.Clear(p.data)
		}
	}

	if len(b.lines) > 0 {
		if p.block < len(b.lines) {
			s.hint = p
		} else {
			s.hint = position{line: n - 1, data: p.data, header: p.header, block: p.block - 1, valid: true}
		}
	}
	return nil
}

// removeBlock unlinks an empty block and compacts its header; an emptied
// header is unlinked from the data level in turn. Parent bits are
// re-derived from the remaining children.
func (s *Store) removeBlock(di, hi int) {
	h := s.data[di].hdr
	h.blocks[hi].release()

	last := len(h.blocks) - 1
	copy(h.blocks[hi:], h.blocks[hi+1:])
	h.blocks[last] = nil
	h.blocks = h.blocks[:last]
	copy(h.counts[hi:], h.counts[hi+1:])
	h.counts = h.counts[:last]
	h.color.ShiftLeft(hi)

	if len(h.blocks) == 0 {
		s.removeHeader(di)
		return
	}
	if !h.color.Any() {
		s.color.Clear(di)
	}
}

func (s *Store) removeHeader(di int) {
	s.data[di].hdr.release()

	last := len(s.data) - 1
	copy(s.data[di:], s.data[di+1:])
	s.data[last] = dataSlot{}
	s.data = s.data[:last]
	s.color.ShiftLeft(di)
}
