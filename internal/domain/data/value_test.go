package data

import (
	"errors"
	"testing"
	"time"
)

func TestNumberCompareTotalOrder(t *testing.T) {
	a := NumberValue(1.5)
	b := NumberValue(2.5)

	if c, err := a.Compare(b); err != nil || c != -1 {
		t.Fatalf("expected -1, got %d err %v", c, err)
	}
	if c, err := b.Compare(a); err != nil || c != 1 {
		t.Fatalf("expected 1, got %d err %v", c, err)
	}
	if c, err := a.Compare(NumberValue(1.5)); err != nil || c != 0 {
		t.Fatalf("expected 0, got %d err %v", c, err)
	}
}

func TestCompareAcrossKinds(t *testing.T) {
	n := NumberValue(10)
	d := DatetimeValue(10)

	if _, err := n.Compare(d); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if _, err := d.Compare(n); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestAddAcrossKinds(t *testing.T) {
	if _, err := NumberValue(1).Add(NewDatetimeMeasure(1, Day)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if _, err := DatetimeValue(0).Add(NumberMeasure(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
}

func TestDatetimeAddDay(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	v := DatetimeValue(float64(start.UnixMilli()))

	got, err := v.Add(NewDatetimeMeasure(1, Day))
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	want := start.Add(24 * time.Hour)
	if got.(DatetimeValue).Time() != want {
		t.Fatalf("expected %v, got %v", want, got.(DatetimeValue).Time())
	}
}

func TestParseNumberLenient(t *testing.T) {
	v, ok := Parse(Number, "3.25")
	if !ok || v.Real() != 3.25 {
		t.Fatalf("expected 3.25, got %v ok %v", v, ok)
	}

	// malformed numeric input degrades to zero
	v, ok = Parse(Number, "not-a-number")
	if !ok || v.Real() != 0 {
		t.Fatalf("expected 0 for malformed input, got %v ok %v", v, ok)
	}
}

func TestParseDatetimeLengthDispatch(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"202106", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"20210615", time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2021061512", time.Date(2021, 6, 15, 12, 0, 0, 0, time.UTC)},
		{"202106151230", time.Date(2021, 6, 15, 12, 30, 0, 0, time.UTC)},
		{"20210615123045", time.Date(2021, 6, 15, 12, 30, 45, 0, time.UTC)},
		{"20210615123045.5", time.Date(2021, 6, 15, 12, 30, 45, 5e8, time.UTC)},
	}
	for _, c := range cases {
		v, ok := Parse(Datetime, c.in)
		if !ok {
			t.Fatalf("parse %q failed", c.in)
		}
		if got := v.(DatetimeValue).Time(); !got.Equal(c.want) {
			t.Fatalf("parse %q: expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestParseDatetimeBadInput(t *testing.T) {
	for _, in := range []string{"abcd", "2021-06-15", "999999999999999999"} {
		if v, ok := Parse(Datetime, in); ok {
			t.Fatalf("expected parse failure for %q, got %v", in, v)
		}
	}
}

func TestFromRealRoundTrip(t *testing.T) {
	for _, kind := range []Kind{Number, Datetime} {
		v := FromReal(kind, 1623758445000)
		if v.Kind() != kind {
			t.Fatalf("expected kind %s, got %s", kind, v.Kind())
		}
		if v.Real() != 1623758445000 {
			t.Fatalf("expected projection round-trip, got %v", v.Real())
		}
	}
}
