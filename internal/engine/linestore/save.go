package linestore

import (
	"bufio"
	"fmt"
	"io"
)

// Save writes every line followed by a newline. Marked lines are written
// as they stand; call ApplyMarks first to drop them.
func (s *Store) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	written, err := s.writeAll(bw)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if written != s.lines {
		return s.inconsistent("save", -1, "wrote %d lines, counters say %d", written, s.lines)
	}
	return nil
}

// EmergencySave writes whatever lines the storage still holds, ignoring
// counters and recovering from panics. It is meant for salvaging a
// document after an InconsistencyError.
func (s *Store) EmergencySave(w io.Writer) (written int, err error) {
	bw := bufio.NewWriter(w)
	defer func() {
		if r := recover(); r != nil {
			_ = bw.Flush()
			err = fmt.Errorf("emergency save: %w: recovered after %d lines: %v", ErrInconsistent, written, r)
		}
	}()

	written, err = s.writeAll(bw)
	if err != nil {
		return written, fmt.Errorf("emergency save: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("emergency save: %w", err)
	}
	s.log.Warn("emergency save wrote %d lines (%d counted)", written, s.lines)
	return written, nil
}

// writeAll walks storage structurally and writes each line.
func (s *Store) writeAll(bw *bufio.Writer) (int, error) {
	written := 0
	for _, d := range s.data {
		if d.hdr == nil {
			continue
		}
		for _, b := range d.hdr.blocks {
			if b == nil {
				continue
			}
			for i := range b.lines {
				if _, err := bw.Write(b.lines[i].text); err != nil {
					return written, err
				}
				if err := bw.WriteByte('\n'); err != nil {
					return written, err
				}
				written++
			}
		}
	}
	return written, nil
}
