package linestore

// AllocatedSize returns the bytes held by lines in [from, to): buffer
// capacity plus annotation length. Bounds are clamped to the document.
func (s *Store) AllocatedSize(from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > s.lines {
		to = s.lines
	}
	if from >= to {
		return 0
	}

	p, err := s.locate(from)
	if err != nil {
		return 0
	}
	total := 0
	for n := from; n < to && p.valid; n++ {
		l := s.lineAt(p)
		if l == nil {
			break
		}
		total += l.allocated()
		p.line++
		s.step(&p)
	}
	return total
}

// Stats summarizes the shape of the storage.
type Stats struct {
	Lines          int
	DataSlots      int
	Headers        int
	Blocks         int
	AnnotatedLines int
	AllocatedBytes int
	PendingMarks   int
}

// Stats walks the storage and reports its shape.
func (s *Store) Stats() Stats {
	st := Stats{
		Lines:        s.lines,
		DataSlots:    len(s.data),
		PendingMarks: s.pending,
	}
	for _, d := range s.data {
		if d.hdr == nil {
			continue
		}
		st.Headers++
		for _, b := range d.hdr.blocks {
			if b == nil {
				continue
			}
			st.Blocks++
			st.AnnotatedLines += b.color.Count()
			for i := range b.lines {
				st.AllocatedBytes += b.lines[i].allocated()
			}
		}
	}
	return st
}
