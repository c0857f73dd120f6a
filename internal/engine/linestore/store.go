package linestore

import (
	"github.com/google/uuid"

	"github.com/dshills/linestore/internal/engine/bitsearch"
	"github.com/dshills/linestore/internal/logging"
)

// Strategy selects where blocks and headers are cut when they fill up.
type Strategy uint8

const (
	// Balanced cuts near the middle so later inserts on either side stay cheap.
	Balanced Strategy = iota
	// AppendOptimized cuts at the insertion point so repeated appends leave
	// full blocks behind them.
	AppendOptimized
)

// String returns the strategy name.
func (st Strategy) String() string {
	switch st {
	case Balanced:
		return "balanced"
	case AppendOptimized:
		return "append"
	default:
		return "unknown"
	}
}

// Mode selects how PutLine stores text.
type Mode uint8

const (
	// Overwrite replaces the text of an existing line.
	Overwrite Mode = iota
	// Insert adds a new line before line n (n == Lines() appends).
	Insert
)

// Direction selects the annotation search performed by Color.
type Direction uint8

const (
	// Current returns the line's own annotation.
	Current Direction = iota
	// Up finds the nearest annotated line at or before the given line.
	Up
	// Down finds the nearest annotated line strictly after the given line.
	Down
)

// position addresses one line slot: data slot, header slot, block slot.
// valid is false while the indices have not been resolved for line.
type position struct {
	line   int
	data   int
	header int
	block  int
	valid  bool
}

// Store is the root handle of a document's line storage.
//
// Lines live in a three-level hierarchy: the store's data slots each own a
// header table, each header table owns up to HeaderSize blocks, and each
// block holds up to LinesPerBlock lines. A parallel bitmap at every level
// marks the subtrees that contain annotated lines.
//
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	id    string
	data  []dataSlot
	color bitsearch.Bitmap // one bit per data slot
	lines int

	hint position // last translated position
	cur  position // sequential cursor
	last position // last random lookup

	writable bool
	colored  bool // an annotation has been set at least once
	strategy Strategy
	pending  int

	linesPerBlock int
	headerSize    int
	maxLineLength int

	log *logging.Logger
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		id:            uuid.New().String(),
		writable:      true,
		linesPerBlock: DefaultLinesPerBlock,
		headerSize:    DefaultHeaderSize,
		maxLineLength: DefaultMaxLineLength,
		log:           logging.Null(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.WithField("store", s.id)
	return s
}

// Destroy releases every line's text and annotation and empties the store.
// The store remains usable afterwards.
func (s *Store) Destroy() {
	for i := range s.data {
		if h := s.data[i].hdr; h != nil {
			h.release()
		}
		s.data[i] = dataSlot{}
	}
	s.data = nil
	s.color = nil
	s.lines = 0
	s.colored = false
	s.pending = 0
	s.invalidate()
	s.cur = position{}
}

// ID returns the store's unique identifier.
func (s *Store) ID() string {
	return s.id
}

// Lines returns the number of lines in the document.
func (s *Store) Lines() int {
	return s.lines
}

// Writable reports whether mutations are allowed.
func (s *Store) Writable() bool {
	return s.writable
}

// SetWritable enables or disables mutations.
func (s *Store) SetWritable(w bool) {
	s.writable = w
}

// Strategy returns the current split strategy.
func (s *Store) Strategy() Strategy {
	return s.strategy
}

// SetStrategy changes the split strategy for subsequent splits.
func (s *Store) SetStrategy(st Strategy) {
	s.strategy = st
}

// MaxLineLength returns the byte length beyond which lines are wrapped.
func (s *Store) MaxLineLength() int {
	return s.maxLineLength
}

// Geometry returns the block and header capacities.
func (s *Store) Geometry() (linesPerBlock, headerSize int) {
	return s.linesPerBlock, s.headerSize
}

// invalidate drops every cached translation. The cursor keeps its line
// number and re-resolves on next use.
func (s *Store) invalidate() {
	s.hint.valid = false
	s.cur.valid = false
	s.last.valid = false
}
