package labeler

import (
	"testing"

	"GraphAxis/internal/domain/data"
	"GraphAxis/internal/format"
)

func numberLabeler(t *testing.T, min, max, spacing, alignment, lengthPx float64) *Labeler {
	t.Helper()
	return New(
		Axis{Min: data.NumberValue(min), Max: data.NumberValue(max), LengthPx: lengthPx},
		data.NumberMeasure(spacing),
		data.NumberValue(alignment),
		format.New(data.Number, "%g"),
		Point{}, 0, Point{},
	)
}

func TestLabelerSequence(t *testing.T) {
	l := numberLabeler(t, 0, 10, 3, 0, 500)
	if err := l.Prepare(data.NumberValue(1), data.NumberValue(10)); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	var got []float64
	for l.HasNext() {
		got = append(got, l.Next().Real())
	}
	want := []float64{3, 6, 9}
	if len(got) != len(want) {
		t.Fatalf("expected ticks %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ticks %v, got %v", want, got)
		}
	}
}

func TestLabelerFirstTickOnBoundary(t *testing.T) {
	l := numberLabeler(t, 0, 10, 3, 0, 500)
	if err := l.Prepare(data.NumberValue(3), data.NumberValue(7)); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if v := l.Next(); v == nil || v.Real() != 3 {
		t.Fatalf("expected first tick at 3, got %v", v)
	}
}

func TestLabelerPeekDoesNotAdvance(t *testing.T) {
	l := numberLabeler(t, 0, 10, 2, 0, 500)
	if err := l.Prepare(data.NumberValue(0), data.NumberValue(10)); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	if p := l.PeekNext(); p == nil || p.Real() != 0 {
		t.Fatalf("expected peek 0, got %v", p)
	}
	if p := l.PeekNext(); p == nil || p.Real() != 0 {
		t.Fatalf("peek must not advance, got %v", p)
	}
	if v := l.Next(); v.Real() != 0 {
		t.Fatalf("expected next 0, got %v", v)
	}
	if p := l.PeekNext(); p == nil || p.Real() != 2 {
		t.Fatalf("expected peek 2 after advance, got %v", p)
	}
}

func TestLabelerUnpreparedYieldsNothing(t *testing.T) {
	l := numberLabeler(t, 0, 10, 2, 0, 500)
	if l.HasNext() {
		t.Fatalf("unprepared labeler must yield nothing")
	}
	if l.Next() != nil {
		t.Fatalf("unprepared Next must return nil")
	}
}

func TestLabelerPrepareRestarts(t *testing.T) {
	l := numberLabeler(t, 0, 10, 5, 0, 500)
	_ = l.Prepare(data.NumberValue(0), data.NumberValue(10))
	for l.HasNext() {
		l.Next()
	}
	if l.HasNext() {
		t.Fatalf("sequence must be exhausted")
	}

	if err := l.Prepare(data.NumberValue(0), data.NumberValue(10)); err != nil {
		t.Fatalf("re-prepare: %v", err)
	}
	if v := l.Next(); v == nil || v.Real() != 0 {
		t.Fatalf("expected restart at 0, got %v", v)
	}
}

func TestLabelerInvalidSpacing(t *testing.T) {
	l := numberLabeler(t, 0, 10, 0, 0, 500)
	if err := l.Prepare(data.NumberValue(0), data.NumberValue(10)); err == nil {
		t.Fatalf("expected error for zero spacing")
	}
	if l.HasNext() {
		t.Fatalf("failed prepare must leave labeler empty")
	}
}

func TestLabelDensityScalesWithSpacing(t *testing.T) {
	sparse := numberLabeler(t, 0, 100, 50, 0, 500)
	dense := numberLabeler(t, 0, 100, 5, 0, 500)

	ds, dd := sparse.LabelDensity(), dense.LabelDensity()
	if ds <= 0 || dd <= 0 {
		t.Fatalf("expected positive densities, got %v and %v", ds, dd)
	}
	if dd <= ds {
		t.Fatalf("tighter spacing must be denser: %v vs %v", dd, ds)
	}
}

func TestLabelDensityDegenerateAxis(t *testing.T) {
	l := numberLabeler(t, 5, 5, 1, 0, 500)
	if d := l.LabelDensity(); d != 0 {
		t.Fatalf("degenerate axis must report zero density, got %v", d)
	}
}

func TestRenderLabelOffset(t *testing.T) {
	l := numberLabeler(t, 0, 10, 2, 0, 500)
	lab := l.RenderLabel(data.NumberValue(5))
	if lab.Text != "5" {
		t.Fatalf("expected text 5, got %q", lab.Text)
	}
	if lab.AxisOffsetPx != 250 {
		t.Fatalf("expected offset 250px, got %v", lab.AxisOffsetPx)
	}
}

func TestDatetimeLabelerDailyTicks(t *testing.T) {
	min, _ := data.Parse(data.Datetime, "2021061512")
	max, _ := data.Parse(data.Datetime, "20210618")
	alignment, _ := data.Parse(data.Datetime, "20210101")

	l := New(
		Axis{Min: min, Max: max, LengthPx: 600},
		data.NewDatetimeMeasure(1, data.Day),
		alignment,
		format.New(data.Datetime, "%Y-%M-%D"),
		Point{}, 0, Point{},
	)
	if err := l.Prepare(min, max); err != nil {
		t.Fatalf("prepare: %v", err)
	}

	var texts []string
	for l.HasNext() {
		texts = append(texts, l.RenderLabel(l.Next()).Text)
	}
	want := []string{"2021-06-16", "2021-06-17", "2021-06-18"}
	if len(texts) != len(want) {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, texts)
		}
	}
}

func TestParsePoint(t *testing.T) {
	if p := ParsePoint("3.5,-2"); p.X != 3.5 || p.Y != -2 {
		t.Fatalf("unexpected point %+v", p)
	}
	if p := ParsePoint("1 2"); p.X != 1 || p.Y != 2 {
		t.Fatalf("unexpected point %+v", p)
	}
	if p := ParsePoint("junk"); p.X != 0 || p.Y != 0 {
		t.Fatalf("malformed input must yield origin, got %+v", p)
	}
}
