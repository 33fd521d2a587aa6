package transform

// params.go defines one tagged parameter struct per operation. Each struct
// knows its operation name, so the dispatcher can resolve the registry entry
// from the parameters alone. Structs are constructed fresh per user action
// and never persisted.

// Operation names. These are the action identifiers exposed on the trigger
// surface.
const (
	OpDropMissing  = "drop-missing"
	OpFillMean     = "fill-mean"
	OpFillMedian   = "fill-median"
	OpFillMode     = "fill-mode"
	OpFillForward  = "fill-forward"
	OpFillBackward = "fill-backward"
	OpConvertType  = "convert-type"
	OpDropColumns  = "drop-columns"
	OpReplaceValue = "replace-value"
	OpDiscretize   = "discretize"
	OpNormalize    = "normalize"
	OpEncode       = "encode"
	OpSplit        = "split"
)

// Params is the parameter bundle for a single operation invocation.
type Params interface {
	// Op returns the operation name this bundle belongs to.
	Op() string
}

// FillStrategy selects how missing values are filled.
type FillStrategy string

const (
	FillMean     FillStrategy = "mean"
	FillMedian   FillStrategy = "median"
	FillMode     FillStrategy = "mode"
	FillForward  FillStrategy = "forward"
	FillBackward FillStrategy = "backward"
)

// TargetType is the destination type for a convert-type operation.
type TargetType string

const (
	TargetNumeric  TargetType = "numeric"
	TargetText     TargetType = "text"
	TargetDatetime TargetType = "datetime"
)

// BinStrategy selects how discretization bin edges are placed.
type BinStrategy string

const (
	BinsEqualWidth     BinStrategy = "equal-width"
	BinsEqualFrequency BinStrategy = "equal-frequency"
)

// ScaleMethod selects the normalization formula.
type ScaleMethod string

const (
	ScaleMinMax   ScaleMethod = "minmax"
	ScaleStandard ScaleMethod = "standard"
	ScaleRobust   ScaleMethod = "robust"
)

// EncodeMethod selects the categorical encoding scheme.
type EncodeMethod string

const (
	EncodeOneHot EncodeMethod = "one-hot"
	EncodeLabel  EncodeMethod = "label"
)

// DropMissingParams removes rows where the column is null.
type DropMissingParams struct {
	Column string `json:"column"`
}

func (DropMissingParams) Op() string { return OpDropMissing }

// FillParams fills null cells in a column using the given strategy. The
// operation name is derived from the strategy, matching the per-strategy
// registry entries.
type FillParams struct {
	Column   string       `json:"column"`
	Strategy FillStrategy `json:"strategy"`
}

func (p FillParams) Op() string { return "fill-" + string(p.Strategy) }

// ConvertTypeParams coerces a column to a target type. Unparsable cells
// become null.
type ConvertTypeParams struct {
	Column string     `json:"column"`
	Target TargetType `json:"target"`
}

func (ConvertTypeParams) Op() string { return OpConvertType }

// DropColumnsParams removes the listed columns.
type DropColumnsParams struct {
	Columns []string `json:"columns"`
}

func (DropColumnsParams) Op() string { return OpDropColumns }

// ReplaceValueParams replaces exact matches of Old with New in a column.
// An empty New sets matched cells to null.
type ReplaceValueParams struct {
	Column string `json:"column"`
	Old    string `json:"old"`
	New    string `json:"new"`
}

func (ReplaceValueParams) Op() string { return OpReplaceValue }

// DiscretizeParams buckets a numeric column into integer bin indices,
// appended as a new `<column>_bins` column.
type DiscretizeParams struct {
	Column   string      `json:"column"`
	Bins     int         `json:"bins"`
	Strategy BinStrategy `json:"strategy"`
}

func (DiscretizeParams) Op() string { return OpDiscretize }

// NormalizeParams rescales numeric columns in place. Statistics are fit on
// the current data in the same step; nothing is persisted across calls.
type NormalizeParams struct {
	Columns []string    `json:"columns"`
	Method  ScaleMethod `json:"method"`
}

func (NormalizeParams) Op() string { return OpNormalize }

// EncodeParams converts a categorical column to a numeric representation.
type EncodeParams struct {
	Column string       `json:"column"`
	Method EncodeMethod `json:"method"`
}

func (EncodeParams) Op() string { return OpEncode }

// SplitParams deterministically partitions rows into train and test sets,
// recorded in a `split` marker column.
type SplitParams struct {
	Target       string  `json:"target"`
	TestFraction float64 `json:"testFraction"`
}

func (SplitParams) Op() string { return OpSplit }
