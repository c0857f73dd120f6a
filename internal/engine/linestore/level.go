package linestore

import (
	"github.com/dshills/linestore/internal/engine/bitsearch"
)

// alignment is the unit line buffers are rounded up to.
const alignment = 16

func alignUp(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}

// lineState tracks delayed edits on a line.
type lineState uint8

const (
	stateLive lineState = iota
	statePendingDelete
	statePendingJoin
)

// line is one stored line: its text buffer, annotation and pending state.
type line struct {
	text  []byte
	color string
	state lineState
}

func newLine(s string) line {
	buf := make([]byte, len(s), alignUp(len(s)))
	copy(buf, s)
	return line{text: buf}
}

// set replaces the text, reusing the buffer when it is large enough.
func (l *line) set(s string) {
	if cap(l.text) >= len(s) {
		l.text = append(l.text[:0], s...)
		return
	}
	buf := make([]byte, len(s), alignUp(len(s)))
	copy(buf, s)
	l.text = buf
}

func (l *line) release() {
	l.text = nil
	l.color = ""
	l.state = stateLive
}

func (l *line) allocated() int {
	return cap(l.text) + len(l.color)
}

// block is a fixed-capacity run of lines with one annotation bit per line.
type block struct {
	lines []line
	color bitsearch.Bitmap
}

func newBlock(capacity int) *block {
	return &block{
		lines: make([]line, 0, capacity),
		color: bitsearch.New(capacity),
	}
}

func (b *block) release() {
	for i := range b.lines {
		b.lines[i].release()
	}
	b.lines = nil
	b.color = nil
}

// header is a fixed-capacity run of blocks. counts[i] mirrors the line
// count of blocks[i]; lines is their sum.
type header struct {
	blocks []*block
	counts []int
	lines  int
	color  bitsearch.Bitmap
}

func newHeader(capacity int) *header {
	return &header{
		blocks: make([]*block, 0, capacity),
		counts: make([]int, 0, capacity),
		color:  bitsearch.New(capacity),
	}
}

// offset returns the number of lines in blocks before slot i.
func (h *header) offset(i int) int {
	n := 0
	for _, c := range h.counts[:i] {
		n += c
	}
	return n
}

func (h *header) recount() {
	h.lines = 0
	for _, c := range h.counts {
		h.lines += c
	}
}

func (h *header) release() {
	for i, b := range h.blocks {
		if b != nil {
			b.release()
		}
		h.blocks[i] = nil
	}
	h.blocks = nil
	h.counts = nil
	h.color = nil
	h.lines = 0
}

// dataSlot owns one header and caches its line count.
type dataSlot struct {
	hdr   *header
	lines int
}

// dataOffset returns the number of lines in data slots before slot i.
func (s *Store) dataOffset(i int) int {
	n := 0
	for _, d := range s.data[:i] {
		n += d.lines
	}
	return n
}

// blockAt returns the block addressed by p, or nil.
func (s *Store) blockAt(p position) *block {
	if p.data < 0 || p.data >= len(s.data) {
		return nil
	}
	h := s.data[p.data].hdr
	if h == nil || p.header < 0 || p.header >= len(h.blocks) {
		return nil
	}
	return h.blocks[p.header]
}

// lineAt returns the line addressed by p, or nil.
func (s *Store) lineAt(p position) *line {
	b := s.blockAt(p)
	if b == nil || p.block < 0 || p.block >= len(b.lines) {
		return nil
	}
	return &b.lines[p.block]
}
