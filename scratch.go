package cfr

// scratch holds reusable per-depth buffers for a recursive walk. The buffer
// for a depth stays valid until the walk next descends to that depth.
type scratch struct {
	bufs [][]float64
}

// get returns a zeroed slice of length n for the node at the given depth.
func (s *scratch) get(depth, n int) []float64 {
	for len(s.bufs) <= depth {
		s.bufs = append(s.bufs, nil)
	}

	buf := s.bufs[depth]
	if cap(buf) < n {
		buf = make([]float64, n)
		s.bufs[depth] = buf
		return buf
	}

	buf = buf[:n]
	for i := range buf {
		buf[i] = 0
	}

	return buf
}
