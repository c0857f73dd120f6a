package linestore

import (
	"github.com/dshills/linestore/internal/logging"
)

// Default geometry values.
const (
	DefaultLinesPerBlock = 128
	DefaultHeaderSize    = 64
	DefaultMaxLineLength = 4096

	// MinGeometry is the smallest block or header capacity accepted.
	MinGeometry = 4
)

// Option configures a Store during creation.
type Option func(*Store)

// WithLogger sets the logger. The store adds its own ID as a field.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithGeometry sets the block and header capacities. Values below
// MinGeometry are ignored.
func WithGeometry(linesPerBlock, headerSize int) Option {
	return func(s *Store) {
		if linesPerBlock >= MinGeometry {
			s.linesPerBlock = linesPerBlock
		}
		if headerSize >= MinGeometry {
			s.headerSize = headerSize
		}
	}
}

// WithMaxLineLength sets the byte length beyond which lines are wrapped.
func WithMaxLineLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxLineLength = n
		}
	}
}

// WithStrategy sets the block and header split strategy.
func WithStrategy(st Strategy) Option {
	return func(s *Store) {
		s.strategy = st
	}
}

// WithReadOnly creates a read-only store.
// Mutations return ErrReadOnly until SetWritable(true).
func WithReadOnly() Option {
	return func(s *Store) {
		s.writable = false
	}
}
