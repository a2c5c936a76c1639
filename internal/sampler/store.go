package sampler

import "pacer/internal/bench"

// store owns the sample histories. Appends come only from the controller's
// round loop; everything downstream (statistics, progress, the final matrix)
// gets copies, never live slices.
type store struct {
	order   []string
	samples map[string][]float64
}

func newStore(specs []bench.Spec) *store {
	s := &store{samples: make(map[string][]float64, len(specs))}
	for _, spec := range specs {
		id := spec.ID()
		s.order = append(s.order, id)
		s.samples[id] = nil
	}
	return s
}

func (s *store) append(id string, ms float64) {
	s.samples[id] = append(s.samples[id], ms)
}

// snapshot returns a copy of one spec's sample history in round order.
func (s *store) snapshot(id string) []float64 {
	xs := s.samples[id]
	out := make([]float64, len(xs))
	copy(out, xs)
	return out
}

func (s *store) minCount() int {
	min := -1
	for _, id := range s.order {
		if n := len(s.samples[id]); min < 0 || n < min {
			min = n
		}
	}
	return min
}
