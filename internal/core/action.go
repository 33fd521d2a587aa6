package core

// action.go converts the loosely-typed parameter bundle collected by the
// trigger surface into the tagged per-operation parameter struct the
// registry expects. Unknown operations are rejected here, before any data
// is read.

import (
	"fmt"

	"github.com/datalens-app/datalens/internal/transform"
)

// ActionRequest is the wire form of a single user-triggered action: the
// operation name plus the superset of parameters the operations accept.
// Constructed fresh per action; never persisted.
type ActionRequest struct {
	Op           string   `json:"op"`
	Column       string   `json:"column,omitempty"`
	Columns      []string `json:"columns,omitempty"`
	Target       string   `json:"target,omitempty"`
	Old          string   `json:"old,omitempty"`
	New          string   `json:"new,omitempty"`
	Bins         int      `json:"bins,omitempty"`
	Strategy     string   `json:"strategy,omitempty"`
	Method       string   `json:"method,omitempty"`
	TestFraction float64  `json:"testFraction,omitempty"`
}

// Params builds the typed parameter bundle for the request's operation.
// Returns a ValidationError for an unknown operation; per-field validation
// happens in the registry entry's Validate.
func (r ActionRequest) Params() (transform.Params, error) {
	switch r.Op {
	case transform.OpDropMissing:
		return transform.DropMissingParams{Column: r.Column}, nil
	case transform.OpFillMean:
		return transform.FillParams{Column: r.Column, Strategy: transform.FillMean}, nil
	case transform.OpFillMedian:
		return transform.FillParams{Column: r.Column, Strategy: transform.FillMedian}, nil
	case transform.OpFillMode:
		return transform.FillParams{Column: r.Column, Strategy: transform.FillMode}, nil
	case transform.OpFillForward:
		return transform.FillParams{Column: r.Column, Strategy: transform.FillForward}, nil
	case transform.OpFillBackward:
		return transform.FillParams{Column: r.Column, Strategy: transform.FillBackward}, nil
	case transform.OpConvertType:
		return transform.ConvertTypeParams{Column: r.Column, Target: transform.TargetType(r.Target)}, nil
	case transform.OpDropColumns:
		return transform.DropColumnsParams{Columns: r.Columns}, nil
	case transform.OpReplaceValue:
		return transform.ReplaceValueParams{Column: r.Column, Old: r.Old, New: r.New}, nil
	case transform.OpDiscretize:
		return transform.DiscretizeParams{Column: r.Column, Bins: r.Bins, Strategy: transform.BinStrategy(r.Strategy)}, nil
	case transform.OpNormalize:
		return transform.NormalizeParams{Columns: r.Columns, Method: transform.ScaleMethod(r.Method)}, nil
	case transform.OpEncode:
		return transform.EncodeParams{Column: r.Column, Method: transform.EncodeMethod(r.Method)}, nil
	case transform.OpSplit:
		return transform.SplitParams{Target: r.Target, TestFraction: r.TestFraction}, nil
	default:
		return nil, &transform.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", r.Op)}
	}
}
