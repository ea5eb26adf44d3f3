package data

import "strings"

type missingOp int

const (
	opNone missingOp = iota
	opLT
	opLE
	opEQ
	opGE
	opGT
)

// parseMissingOp is case-insensitive; unrecognized operator strings degrade
// silently to "no predicate".
func parseMissingOp(s string) missingOp {
	switch strings.ToLower(s) {
	case "lt":
		return opLT
	case "le":
		return opLE
	case "eq":
		return opEQ
	case "ge":
		return opGE
	case "gt":
		return opGT
	}
	return opNone
}

// Variable is the metadata for one column of a data source: its id, fixed
// column index, value kind, and an optional missing-value predicate.
// Scientific data sets often mark absent readings with an extreme sentinel
// such as -9000; configuring operator "le" with threshold -9000 makes
// IsMissing flag those sentinels. A Variable is immutable once built.
type Variable struct {
	id           string
	column       int
	kind         Kind
	missingOp    missingOp
	missingValue Value
}

// NewVariable builds a Variable with no missing-value predicate.
func NewVariable(id string, column int, kind Kind) *Variable {
	return &Variable{id: id, column: column, kind: kind}
}

// NewVariableWithMissing builds a Variable whose IsMissing evaluates
// "x <op> threshold" with op one of "lt", "le", "eq", "ge", "gt".
func NewVariableWithMissing(id string, column int, kind Kind, threshold Value, op string) *Variable {
	return &Variable{
		id:           id,
		column:       column,
		kind:         kind,
		missingOp:    parseMissingOp(op),
		missingValue: threshold,
	}
}

func (v *Variable) ID() string  { return v.id }
func (v *Variable) Column() int { return v.column }
func (v *Variable) Kind() Kind  { return v.kind }

// IsMissing reports whether x matches this variable's missing-value
// predicate. Always false when no predicate is configured or when x is of
// the wrong kind; evaluation never mutates x.
func (v *Variable) IsMissing(x Value) bool {
	if v.missingOp == opNone || v.missingValue == nil || x == nil {
		return false
	}
	c, err := x.Compare(v.missingValue)
	if err != nil {
		return false
	}
	switch v.missingOp {
	case opLT:
		return c < 0
	case opLE:
		return c <= 0
	case opEQ:
		return c == 0
	case opGE:
		return c >= 0
	case opGT:
		return c > 0
	}
	return false
}
