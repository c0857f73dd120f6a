package linestore

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// PutColor sets the annotation of line n. An empty annotation clears it.
func (s *Store) PutColor(n int, annotation string) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if n < 0 || n >= s.lines {
		return s.rangeError("put color", n)
	}
	p, err := s.locate(n)
	if err != nil {
		return err
	}
	if s.lineAt(p) == nil {
		return s.inconsistent("put color", n, "translated slot holds no line")
	}
	s.applyColor(p, annotation)
	return nil
}

// applyColor stores the annotation and keeps the three bitmap levels in
// step. Setting rolls the bit up unconditionally; clearing walks up only
// while the child level has no bits left.
func (s *Store) applyColor(p position, annotation string) {
	h := s.data[p.data].hdr
	b := h.blocks[p.header]
	b.lines[p.block].color = annotation

	if annotation != "" {
		b.color.Set(p.block)
		h.color.Set(p.header)
		s.color.Set(p.data)
		s.colored = true
		return
	}

	b.color.Clear(p.block)
	if b.color.Any() {
		return
	}
	h.color.Clear(p.header)
	if h.color.Any() {
		return
	}
	s.color.Clear(p.data)
}

// Color looks up annotations. Current returns line n's own annotation. Up
// returns the nearest annotated line at or before n; Down the nearest
// strictly after n, where n == -1 searches from the first line. ok is
// false when nothing is found.
func (s *Store) Color(n int, dir Direction) (found int, annotation string, ok bool) {
	switch dir {
	case Current:
		if l := s.lookup(n); l != nil && l.color != "" {
			return n, l.color, true
		}
		return -1, "", false
	case Up:
		return s.colorUp(n)
	case Down:
		return s.colorDown(n)
	default:
		s.log.Warn("color: %v: %d", ErrInvalidMode, dir)
		return -1, "", false
	}
}

func (s *Store) colorUp(n int) (int, string, bool) {
	if !s.colored || s.lines == 0 || n < 0 {
		return -1, "", false
	}
	if n >= s.lines {
		n = s.lines - 1
	}
	p, err := s.locate(n)
	if err != nil {
		return -1, "", false
	}

	h := s.data[p.data].hdr
	b := h.blocks[p.header]
	if i := b.color.Prev(p.block); i >= 0 && i < len(b.lines) {
		return n - p.block + i, b.lines[i].color, true
	}

	base := n - p.block - h.offset(p.header)
	if found, c, ok := lastInHeader(h, p.header-1, base); ok {
		return found, c, true
	}

	for di := s.color.Prev(p.data - 1); di >= 0; di = s.color.Prev(di - 1) {
		dh := s.data[di].hdr
		if dh == nil {
			continue
		}
		if found, c, ok := lastInHeader(dh, len(dh.blocks)-1, s.dataOffset(di)); ok {
			return found, c, true
		}
	}
	return -1, "", false
}

// lastInHeader finds the last annotated line in blocks [0, from] of h,
// whose first line is base.
func lastInHeader(h *header, from, base int) (int, string, bool) {
	for hi := h.color.Prev(from); hi >= 0; hi = h.color.Prev(hi - 1) {
		if hi >= len(h.blocks) || h.blocks[hi] == nil {
			continue
		}
		b := h.blocks[hi]
		if i := b.color.Prev(len(b.lines) - 1); i >= 0 {
			return base + h.offset(hi) + i, b.lines[i].color, true
		}
	}
	return -1, "", false
}

func (s *Store) colorDown(n int) (int, string, bool) {
	if !s.colored || n >= s.lines-1 {
		return -1, "", false
	}
	if n < 0 {
		return s.firstFromData(-1, 0)
	}
	p, err := s.locate(n)
	if err != nil {
		return -1, "", false
	}

	h := s.data[p.data].hdr
	b := h.blocks[p.header]
	if i := b.color.Next(p.block); i >= 0 && i < len(b.lines) {
		return n - p.block + i, b.lines[i].color, true
	}

	base := n - p.block - h.offset(p.header)
	if found, c, ok := firstInHeader(h, p.header, base); ok {
		return found, c, true
	}
	return s.firstFromData(p.data, base+h.lines)
}

// firstFromData finds the first annotated line in data slots after di.
// base is the first line of slot di+1.
func (s *Store) firstFromData(di, base int) (int, string, bool) {
	next := di + 1
	for d := s.color.Next(di); d >= 0 && d < len(s.data); d = s.color.Next(d) {
		for ; next < d; next++ {
			base += s.data[next].lines
		}
		if h := s.data[d].hdr; h != nil {
			if found, c, ok := firstInHeader(h, -1, base); ok {
				return found, c, true
			}
		}
	}
	return -1, "", false
}

// firstInHeader finds the first annotated line in blocks strictly after
// slot after in h, whose first line is base.
func firstInHeader(h *header, after, base int) (int, string, bool) {
	for hi := h.color.Next(after); hi >= 0 && hi < len(h.blocks); hi = h.color.Next(hi) {
		b := h.blocks[hi]
		if b == nil {
			continue
		}
		if i := b.color.Next(-1); i >= 0 && i < len(b.lines) {
			return base + h.offset(hi) + i, b.lines[i].color, true
		}
	}
	return -1, "", false
}

// AnnotatedLines returns the set of annotated line numbers. Subtrees
// whose bit is clear are skipped without visiting their lines.
func (s *Store) AnnotatedLines() *roaring.Bitmap {
	rb := roaring.New()
	if !s.colored {
		return rb
	}
	base := 0
	for di := range s.data {
		d := s.data[di]
		if s.color.Test(di) && d.hdr != nil {
			h := d.hdr
			off := base
			for hi, b := range h.blocks {
				if h.color.Test(hi) && b != nil {
					for i := b.color.Next(-1); i >= 0 && i < len(b.lines); i = b.color.Next(i) {
						rb.Add(uint32(off + i))
					}
				}
				off += h.counts[hi]
			}
		}
		base += d.lines
	}
	return rb
}

// String describes the store for debugging.
func (s *Store) String() string {
	return fmt.Sprintf("linestore(%s: %d lines, %d data slots)", s.id, s.lines, len(s.data))
}
