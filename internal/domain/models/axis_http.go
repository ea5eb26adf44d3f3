package models

// Requests for the axis HTTP endpoints. Defined in domain for consistency
// and reuse.

type WindowRequest struct {
	Columns string `query:"columns" json:"columns" validate:"required"`
	Min     string `query:"min" json:"min" validate:"required"`
	Max     string `query:"max" json:"max" validate:"required"`
	Buffer  int    `query:"buffer" json:"buffer" default:"0" validate:"gte=0,lte=1000"`
}

type TicksRequest struct {
	Min       string  `query:"min" json:"min" validate:"required"`
	Max       string  `query:"max" json:"max" validate:"required"`
	Spacing   string  `query:"spacing" json:"spacing" validate:"required"`
	Alignment string  `query:"alignment" json:"alignment"`
	Format    string  `query:"format" json:"format"`
	LengthPx  float64 `query:"length_px" json:"length_px" default:"500" validate:"gte=0,lte=100000"`
}
