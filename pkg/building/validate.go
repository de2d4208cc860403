package building

import (
	"errors"
	"fmt"
	"math"

	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// ValidateInputs checks raw records before registration. offset is the index
// the first input will receive. Nothing here rejects a record: problems are
// reported and the record is registered with defaults or a box fallback.
func ValidateInputs(inputs []Input, offset int) *validation.Report {
	r := validation.NewReport()
	for i, in := range inputs {
		idx := offset + i
		validateHeight(idx, in, r)
		validateStyle(idx, in, r)
		validatePolygon(idx, in, r)
		if in.Landmark && in.Name == "" {
			r.AddInfo(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("landmark building %d has no name", idx),
				Path:    fmt.Sprintf("buildings[%d].name", idx),
			})
		}
	}
	return r
}

func validateHeight(idx int, in Input, r *validation.Report) {
	if in.Height > 0 && !math.IsInf(in.Height, 0) {
		return
	}
	r.AddWarning(validation.Result{
		Level:       validation.LevelSchema,
		Message:     fmt.Sprintf("building %d height must be positive; using %.1f", idx, minHeight),
		Path:        fmt.Sprintf("buildings[%d].height", idx),
		ActualValue: in.Height,
		Expected:    "> 0",
	})
}

func validateStyle(idx int, in Input, r *validation.Report) {
	if _, ok := ParseStyle(in.Style); ok {
		return
	}
	r.AddWarning(validation.Result{
		Level:       validation.LevelSchema,
		Message:     fmt.Sprintf("building %d has unknown style %q; using residential", idx, in.Style),
		Path:        fmt.Sprintf("buildings[%d].style", idx),
		ActualValue: in.Style,
		Expected:    "one of residential, church, basilica, commercial, modern, industrial, civic, theatre, museum",
	})
}

func validatePolygon(idx int, in Input, r *validation.Report) {
	err := geo.FromPairs(in.Polygon).Validate()
	if err == nil {
		return
	}
	msg := fmt.Sprintf("building %d footprint is not a simple polygon (%v); it will render as a box", idx, err)
	if errors.Is(err, geo.ErrNonFinite) {
		msg = fmt.Sprintf("building %d footprint has non-finite coordinates; they are dropped", idx)
	}
	r.AddWarning(validation.Result{
		Level:       validation.LevelSchema,
		Message:     msg,
		Path:        fmt.Sprintf("buildings[%d].polygon", idx),
		ActualValue: len(in.Polygon),
		Expected:    ">= 3 distinct, finite, non-crossing vertices",
	})
}
