package linestore

// Verify checks every structural invariant: counters agree at all levels,
// no container is empty or over capacity, annotation bits match the lines
// they describe, and the pending-mark count is right. It returns the first
// violation as an *InconsistencyError.
func (s *Store) Verify() error {
	const op = "verify"
	total, pending := 0, 0
	colored := false

	for di, d := range s.data {
		h := d.hdr
		if h == nil {
			return s.inconsistent(op, -1, "data slot %d has no header", di)
		}
		if len(h.blocks) == 0 {
			return s.inconsistent(op, -1, "data slot %d has an empty header", di)
		}
		if len(h.blocks) > s.headerSize {
			return s.inconsistent(op, -1, "data slot %d holds %d blocks, capacity %d", di, len(h.blocks), s.headerSize)
		}
		if len(h.counts) != len(h.blocks) {
			return s.inconsistent(op, -1, "data slot %d has %d counts for %d blocks", di, len(h.counts), len(h.blocks))
		}

		sum := 0
		headerColored := false
		for hi, b := range h.blocks {
			if b == nil || len(b.lines) == 0 {
				return s.inconsistent(op, total+sum, "block %d/%d is empty", di, hi)
			}
			if len(b.lines) > s.linesPerBlock {
				return s.inconsistent(op, total+sum, "block %d/%d holds %d lines, capacity %d", di, hi, len(b.lines), s.linesPerBlock)
			}
			if h.counts[hi] != len(b.lines) {
				return s.inconsistent(op, total+sum, "block %d/%d counted %d, holds %d", di, hi, h.counts[hi], len(b.lines))
			}

			blockColored := false
			for i := range b.lines {
				has := b.lines[i].color != ""
				if b.color.Test(i) != has {
					return s.inconsistent(op, total+sum+i, "annotation bit %v, annotation present %v", b.color.Test(i), has)
				}
				blockColored = blockColored || has
				if b.lines[i].state != stateLive {
					pending++
				}
			}
			if b.color.Next(len(b.lines)-1) >= 0 {
				return s.inconsistent(op, total+sum, "block %d/%d has bits past its lines", di, hi)
			}
			if h.color.Test(hi) != blockColored {
				return s.inconsistent(op, total+sum, "header bit %d/%d is %v, block annotated %v", di, hi, h.color.Test(hi), blockColored)
			}
			headerColored = headerColored || blockColored
			sum += len(b.lines)
		}

		if h.color.Next(len(h.blocks)-1) >= 0 {
			return s.inconsistent(op, total, "header %d has bits past its blocks", di)
		}
		if h.lines != sum || d.lines != sum {
			return s.inconsistent(op, total, "data slot %d counted %d/%d, holds %d", di, d.lines, h.lines, sum)
		}
		if s.color.Test(di) != headerColored {
			return s.inconsistent(op, total, "data bit %d is %v, header annotated %v", di, s.color.Test(di), headerColored)
		}
		colored = colored || headerColored
		total += sum
	}

	if s.color.Next(len(s.data)-1) >= 0 {
		return s.inconsistent(op, -1, "data bitmap has bits past %d slots", len(s.data))
	}
	if total != s.lines {
		return s.inconsistent(op, -1, "storage holds %d lines, counter says %d", total, s.lines)
	}
	if colored && !s.colored {
		return s.inconsistent(op, -1, "annotations present but never recorded")
	}
	if pending != s.pending {
		return s.inconsistent(op, -1, "%d marked lines, counter says %d", pending, s.pending)
	}
	return nil
}
