package linestore

// locate translates line n into storage indices. n == Lines() addresses the
// append position just past the last line of the last block.
//
// The fast path reuses the last translation when n falls inside the same
// block. Otherwise data slots, then header slots, are scanned accumulating
// line counts.
func (s *Store) locate(n int) (position, error) {
	if n < 0 || n > s.lines {
		return position{}, s.inconsistent("locate", n, "line outside [0, %d]", s.lines)
	}

	if p, ok := s.near(s.hint, n); ok {
		s.hint = p
		return p, nil
	}
	if p, ok := s.near(s.cur, n); ok {
		s.hint = p
		return p, nil
	}

	acc := 0
	di := -1
	last := len(s.data) - 1
	for i := range s.data {
		cnt := s.data[i].lines
		if n < acc+cnt || (i == last && n == acc+cnt) {
			di = i
			break
		}
		acc += cnt
	}
	if di < 0 {
		return position{}, s.inconsistent("locate", n, "no data slot brackets the line (%d slots, %d lines counted)", len(s.data), acc)
	}

	h := s.data[di].hdr
	if h == nil {
		return position{}, s.inconsistent("locate", n, "data slot %d has no header", di)
	}
	hi := -1
	last = len(h.counts) - 1
	for i, cnt := range h.counts {
		if n < acc+cnt || (i == last && n == acc+cnt) {
			hi = i
			break
		}
		acc += cnt
	}
	if hi < 0 {
		return position{}, s.inconsistent("locate", n, "no block in data slot %d brackets the line", di)
	}
	if h.blocks[hi] == nil {
		return position{}, s.inconsistent("locate", n, "block slot %d of data slot %d is empty", hi, di)
	}

	p := position{line: n, data: di, header: hi, block: n - acc, valid: true}
	s.hint = p
	return p, nil
}

// near resolves n relative to a cached position when n lies in the cached
// block. The slot just past the block only counts for the append position.
func (s *Store) near(c position, n int) (position, bool) {
	if !c.valid {
		return position{}, false
	}
	b := s.blockAt(c)
	if b == nil {
		return position{}, false
	}
	start := c.line - c.block
	end := start + len(b.lines)
	if n < start || n > end {
		return position{}, false
	}
	if n == end && (n != s.lines || !s.isLastBlock(c)) {
		return position{}, false
	}
	return position{line: n, data: c.data, header: c.header, block: n - start, valid: true}, true
}

func (s *Store) isLastBlock(p position) bool {
	return p.data == len(s.data)-1 && p.header == len(s.data[p.data].hdr.blocks)-1
}

