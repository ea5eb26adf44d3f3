package usecase

import (
	"fmt"

	"GraphAxis/internal/datasource"
	"GraphAxis/internal/domain/data"
	"GraphAxis/internal/format"
	"GraphAxis/internal/labeler"
)

// TicksUseCase computes tick positions and labels for an axis range.
type TicksUseCase struct {
	source datasource.Source
}

func NewTicksUseCase(source datasource.Source) *TicksUseCase {
	return &TicksUseCase{source: source}
}

type GetTicksParams struct {
	Min       string
	Max       string
	Spacing   string
	Alignment string
	Format    string
	LengthPx  float64
}

type Tick struct {
	Value    float64 `json:"value"`
	Text     string  `json:"text"`
	OffsetPx float64 `json:"offset_px"`
}

type GetTicksResult struct {
	Min     string  `json:"min"`
	Max     string  `json:"max"`
	Spacing string  `json:"spacing"`
	Density float64 `json:"density"`
	Count   int     `json:"count"`
	Ticks   []Tick  `json:"ticks"`
}

const maxTicks = 10000

func (uc *TicksUseCase) GetTicks(p GetTicksParams) (*GetTicksResult, error) {
	keyKind := uc.source.Columns()[0].Kind()
	min, ok := data.Parse(keyKind, p.Min)
	if !ok {
		return nil, fmt.Errorf("bad min %q for %s axis: %w", p.Min, keyKind, data.ErrTypeMismatch)
	}
	max, ok := data.Parse(keyKind, p.Max)
	if !ok {
		return nil, fmt.Errorf("bad max %q for %s axis: %w", p.Max, keyKind, data.ErrTypeMismatch)
	}
	c, err := min.Compare(max)
	if err != nil {
		return nil, fmt.Errorf("compare bounds: %w", err)
	}
	if c > 0 {
		return nil, &data.ConfigurationError{Reason: "min must be <= max"}
	}
	spacing, ok := data.ParseMeasure(keyKind, p.Spacing)
	if !ok {
		return nil, fmt.Errorf("bad spacing %q for %s axis: %w", p.Spacing, keyKind, data.ErrInvalidMeasure)
	}
	alignment := data.FromReal(keyKind, 0)
	if p.Alignment != "" {
		alignment, ok = data.Parse(keyKind, p.Alignment)
		if !ok {
			return nil, fmt.Errorf("bad alignment %q for %s axis: %w", p.Alignment, keyKind, data.ErrTypeMismatch)
		}
	}
	if p.LengthPx <= 0 {
		p.LengthPx = 500
	}

	f := format.New(keyKind, p.Format)
	lab := labeler.New(
		labeler.Axis{Min: min, Max: max, LengthPx: p.LengthPx},
		spacing, alignment, f,
		labeler.Point{}, 0, labeler.Point{},
	)
	if err := lab.Prepare(min, max); err != nil {
		return nil, fmt.Errorf("prepare ticks: %w", err)
	}

	ticks := make([]Tick, 0, 64)
	for lab.HasNext() && len(ticks) < maxTicks {
		v := lab.Next()
		l := lab.RenderLabel(v)
		ticks = append(ticks, Tick{Value: v.Real(), Text: l.Text, OffsetPx: l.AxisOffsetPx})
	}

	return &GetTicksResult{
		Min:     min.String(),
		Max:     max.String(),
		Spacing: spacing.String(),
		Density: lab.LabelDensity(),
		Count:   len(ticks),
		Ticks:   ticks,
	}, nil
}
