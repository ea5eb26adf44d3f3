package datasource

import "sort"

// interval is a closed range [lo, hi] on the column-0 real line.
type interval struct {
	lo, hi float64
}

func (iv interval) valid() bool { return iv.lo <= iv.hi }

// intervalSet keeps a sorted list of disjoint closed intervals. A dynamic
// source uses two of these to partition its axis into Resident, Pending and
// (by complement) Unknown sub-ranges.
type intervalSet struct {
	ivs []interval
}

// add inserts iv, coalescing with any interval it overlaps or touches.
func (s *intervalSet) add(iv interval) {
	if !iv.valid() {
		return
	}
	out := make([]interval, 0, len(s.ivs)+1)
	inserted := false
	for _, cur := range s.ivs {
		switch {
		case cur.hi < iv.lo:
			out = append(out, cur)
		case iv.hi < cur.lo:
			if !inserted {
				out = append(out, iv)
				inserted = true
			}
			out = append(out, cur)
		default:
			if cur.lo < iv.lo {
				iv.lo = cur.lo
			}
			if cur.hi > iv.hi {
				iv.hi = cur.hi
			}
		}
	}
	if !inserted {
		out = append(out, iv)
	}
	s.ivs = out
}

// remove subtracts iv from the set, splitting intervals as needed.
func (s *intervalSet) remove(iv interval) {
	if !iv.valid() {
		return
	}
	out := make([]interval, 0, len(s.ivs)+1)
	for _, cur := range s.ivs {
		if cur.hi < iv.lo || iv.hi < cur.lo {
			out = append(out, cur)
			continue
		}
		if cur.lo < iv.lo {
			out = append(out, interval{cur.lo, iv.lo})
		}
		if iv.hi < cur.hi {
			out = append(out, interval{iv.hi, cur.hi})
		}
	}
	s.ivs = out
}

// subtract returns the parts of iv not covered by the set. Gap endpoints
// may coincide with covered endpoints; fetches are inclusive and merges
// idempotent, so the overlap is harmless.
func (s *intervalSet) subtract(iv interval) []interval {
	if !iv.valid() {
		return nil
	}
	var out []interval
	lo := iv.lo
	covered := false
	for _, cur := range s.ivs {
		if cur.hi < lo {
			continue
		}
		if cur.lo > iv.hi {
			break
		}
		if cur.lo > lo {
			out = append(out, interval{lo, cur.lo})
		}
		covered = true
		if cur.hi > lo {
			lo = cur.hi
		}
		if lo >= iv.hi {
			break
		}
	}
	if lo < iv.hi || (!covered && lo == iv.hi) {
		out = append(out, interval{lo, iv.hi})
	}
	return out
}

// covers reports whether iv lies entirely inside the set.
func (s *intervalSet) covers(iv interval) bool {
	return len(s.subtract(iv)) == 0
}

// bounds returns the overall extent of the set.
func (s *intervalSet) bounds() (interval, bool) {
	if len(s.ivs) == 0 {
		return interval{}, false
	}
	return interval{s.ivs[0].lo, s.ivs[len(s.ivs)-1].hi}, true
}

// gaps returns the sub-intervals of iv covered by none of the given sets.
func gaps(iv interval, sets ...*intervalSet) []interval {
	rest := []interval{iv}
	for _, s := range sets {
		var next []interval
		for _, r := range rest {
			next = append(next, s.subtract(r)...)
		}
		rest = next
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].lo < rest[j].lo })
	return rest
}
