package linestore

// splitBlock cuts the block holding target in two so an insert at target
// has room. When needTwo is set the cut falls exactly at target and the
// enclosing header keeps room for two more blocks; bulk loads use this
// before streaming lines into the middle of a block.
func (s *Store) splitBlock(target int, needTwo bool) error {
	p, err := s.locate(target)
	if err != nil {
		return err
	}

	need := 1
	if needTwo {
		need = 2
	}
	if len(s.data[p.data].hdr.blocks)+need > s.headerSize {
		if err := s.splitHeader(p.data, need); err != nil {
			return err
		}
		if p, err = s.locate(target); err != nil {
			return err
		}
	}

	h := s.data[p.data].hdr
	b := h.blocks[p.header]
	n := len(b.lines)
	if n < 2 {
		return nil
	}
	cut := s.blockCut(p.block, n, needTwo)

	nb := newBlock(s.linesPerBlock)
	nb.lines = append(nb.lines, b.lines[cut:]...)
	for i := cut; i < n; i++ {
		b.lines[i] = line{}
	}
	b.lines = b.lines[:cut]
	b.color, nb.color = b.color.Split(cut)

	at := p.header + 1
	h.blocks = append(h.blocks, nil)
	copy(h.blocks[at+1:], h.blocks[at:])
	h.blocks[at] = nb
	h.counts = append(h.counts, 0)
	copy(h.counts[at+1:], h.counts[at:])
	h.counts[p.header] = len(b.lines)
	h.counts[at] = len(nb.lines)

	h.color.ShiftRight(at)
	if nb.color.Any() {
		h.color.Set(at)
	}
	if !b.color.Any() {
		h.color.Clear(p.header)
	}

	s.invalidate()
	s.log.Debug("split block %d/%d at %d: %d + %d lines", p.data, p.header, cut, len(b.lines), len(nb.lines))
	return nil
}

// blockCut picks the index at which a block of n lines is cut for an
// insert at slot at. Both halves always keep at least one line.
func (s *Store) blockCut(at, n int, exact bool) int {
	cut := at
	if !exact && s.strategy == Balanced {
		cut = (at + n/2) / 2
	}
	if cut < 1 {
		cut = 1
	}
	if cut > n-1 {
		cut = n - 1
	}
	return cut
}

// splitHeader moves the back blocks of data slot di's header into a new
// header linked as the following data slot. The balanced strategy cuts in
// the middle; the append strategy moves only the last need blocks.
func (s *Store) splitHeader(di, need int) error {
	h := s.data[di].hdr
	n := len(h.blocks)
	if n < 2 {
		return s.inconsistent("split header", -1, "data slot %d has %d blocks", di, n)
	}

	cut := n / 2
	if s.strategy == AppendOptimized {
		cut = n - need
	}
	if cut < 1 {
		cut = 1
	}
	if cut > n-1 {
		cut = n - 1
	}

	nh := newHeader(s.headerSize)
	nh.blocks = append(nh.blocks, h.blocks[cut:]...)
	nh.counts = append(nh.counts, h.counts[cut:]...)
	for i := cut; i < n; i++ {
		h.blocks[i] = nil
	}
	h.blocks = h.blocks[:cut]
	h.counts = h.counts[:cut]
	h.recount()
	nh.recount()
	h.color, nh.color = h.color.Split(cut)

	at := di + 1
	s.data = append(s.data, dataSlot{})
	copy(s.data[at+1:], s.data[at:])
	s.data[at] = dataSlot{hdr: nh, lines: nh.lines}
	s.data[di].lines = h.lines

	s.color.Grow(len(s.data))
	s.color.ShiftRight(at)
	if nh.color.Any() {
		s.color.Set(at)
	}
	if !h.color.Any() {
		s.color.Clear(di)
	}

	s.invalidate()
	s.log.Debug("split header %d at %d: %d + %d blocks", di, cut, len(h.blocks), len(nh.blocks))
	return nil
}
