package jsonschema

import (
	"fmt"
	"math/big"
)

// numericBoundKeyword implements minimum/maximum/exclusiveMinimum/
// exclusiveMaximum uniformly across dialects: draft4 represents
// exclusiveness as a sibling boolean flag on minimum/maximum, draft6+
// folds the bound directly into exclusiveMinimum/exclusiveMaximum. The
// compiler normalizes both forms into this one struct (spec.md §9's fixed
// "must be a number" message decision — see the maximum/minimum entry in
// DESIGN.md for the Open Question this resolves).
type numericBoundKeyword struct {
	baseKeyword
	bound     *big.Float
	exclusive bool
	isMax     bool
}

func (k *numericBoundKeyword) evaluate(ec *evalCtx, instance any) bool {
	v, ok := toBigFloat(instance)
	if !ok {
		return true // non-numeric instances are not constrained by numeric keywords.
	}
	cmp := v.Cmp(k.bound)
	var ok2 bool
	if k.isMax {
		if k.exclusive {
			ok2 = cmp < 0
		} else {
			ok2 = cmp <= 0
		}
	} else {
		if k.exclusive {
			ok2 = cmp > 0
		} else {
			ok2 = cmp >= 0
		}
	}
	if ok2 {
		return true
	}
	name := k.name
	rel := "at least"
	if k.isMax && k.exclusive {
		rel = "less than"
	} else if k.isMax {
		rel = "at most"
	} else if k.exclusive {
		rel = "greater than"
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          name,
		Message:          fmt.Sprintf("value must be a number %s %s", rel, k.bound.Text('g', -1)),
		Params:           map[string]any{"limit": k.bound.Text('g', -1)},
	})
	return false
}

// multipleOfKeyword implements "multipleOf".
type multipleOfKeyword struct {
	baseKeyword
	divisor *big.Float
}

func (k *multipleOfKeyword) evaluate(ec *evalCtx, instance any) bool {
	v, ok := toBigFloat(instance)
	if !ok {
		return true
	}
	q := new(big.Float).Quo(v, k.divisor)
	// A quotient is an integer multiple iff it has no fractional part.
	// big.Float doesn't offer a direct frac-check, so round-trip through
	// big.Int at sufficient precision.
	qi, _ := q.Int(nil)
	qf := new(big.Float).SetInt(qi)
	diff := new(big.Float).Sub(q, qf)
	diff.Abs(diff)
	tol := big.NewFloat(1e-9)
	if diff.Cmp(tol) <= 0 {
		return true
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          "multipleOf",
		Message:          fmt.Sprintf("value must be a multiple of %s", k.divisor.Text('g', -1)),
	})
	return false
}
