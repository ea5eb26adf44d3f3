package datasource

import "testing"

func TestIntervalSetAddCoalesces(t *testing.T) {
	var s intervalSet
	s.add(interval{0, 10})
	s.add(interval{20, 30})
	s.add(interval{5, 25})

	if len(s.ivs) != 1 {
		t.Fatalf("expected one coalesced interval, got %v", s.ivs)
	}
	if s.ivs[0] != (interval{0, 30}) {
		t.Fatalf("expected [0,30], got %v", s.ivs[0])
	}
}

func TestIntervalSetAddTouching(t *testing.T) {
	var s intervalSet
	s.add(interval{0, 10})
	s.add(interval{10, 20})

	if len(s.ivs) != 1 || s.ivs[0] != (interval{0, 20}) {
		t.Fatalf("touching intervals must coalesce, got %v", s.ivs)
	}
}

func TestIntervalSetRemoveSplits(t *testing.T) {
	var s intervalSet
	s.add(interval{0, 30})
	s.remove(interval{10, 20})

	if len(s.ivs) != 2 {
		t.Fatalf("expected split into two, got %v", s.ivs)
	}
	if s.ivs[0] != (interval{0, 10}) || s.ivs[1] != (interval{20, 30}) {
		t.Fatalf("unexpected split result %v", s.ivs)
	}
}

func TestIntervalSetSubtract(t *testing.T) {
	var s intervalSet
	s.add(interval{10, 20})
	s.add(interval{30, 40})

	out := s.subtract(interval{0, 50})
	want := []interval{{0, 10}, {20, 30}, {40, 50}}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}

	if got := s.subtract(interval{12, 18}); len(got) != 0 {
		t.Fatalf("fully covered query must yield no gaps, got %v", got)
	}
}

func TestIntervalSetSubtractPoint(t *testing.T) {
	var s intervalSet
	s.add(interval{10, 20})

	if got := s.subtract(interval{15, 15}); len(got) != 0 {
		t.Fatalf("covered point must yield no gaps, got %v", got)
	}
	if got := s.subtract(interval{5, 5}); len(got) != 1 || got[0] != (interval{5, 5}) {
		t.Fatalf("uncovered point must survive subtraction, got %v", got)
	}
}

func TestIntervalSetCoversAndBounds(t *testing.T) {
	var s intervalSet
	if _, ok := s.bounds(); ok {
		t.Fatalf("empty set has no bounds")
	}

	s.add(interval{1, 5})
	s.add(interval{8, 9})

	if !s.covers(interval{2, 4}) {
		t.Fatalf("expected [2,4] covered")
	}
	if s.covers(interval{4, 8}) {
		t.Fatalf("[4,8] spans a hole and must not be covered")
	}
	b, ok := s.bounds()
	if !ok || b != (interval{1, 9}) {
		t.Fatalf("expected bounds [1,9], got %v ok %v", b, ok)
	}
}

func TestGapsAcrossSets(t *testing.T) {
	var resident, pending intervalSet
	resident.add(interval{0, 10})
	pending.add(interval{20, 30})

	out := gaps(interval{0, 40}, &resident, &pending)
	want := []interval{{10, 20}, {30, 40}}
	if len(out) != len(want) {
		t.Fatalf("expected %v, got %v", want, out)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, out)
		}
	}
}
