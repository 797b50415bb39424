package jsonschema

import "fmt"

// arrayLengthKeyword implements minItems/maxItems.
type arrayLengthKeyword struct {
	baseKeyword
	limit int
	isMax bool
}

func (k *arrayLengthKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	n := len(a)
	ok2 := n >= k.limit
	if k.isMax {
		ok2 = n <= k.limit
	}
	if ok2 {
		return true
	}
	rel := "at least"
	if k.isMax {
		rel = "at most"
	}
	ec.report(Issue{
		InstanceLocation: ec.loc,
		SchemaLocation:   k.loc.String(),
		Keyword:          k.name,
		Message:          fmt.Sprintf("array must have %s %d items", rel, k.limit),
		Params:           map[string]any{"limit": k.limit, "length": n},
	})
	return false
}

// uniqueItemsKeyword implements "uniqueItems".
type uniqueItemsKeyword struct {
	baseKeyword
}

func (k *uniqueItemsKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	for i := 0; i < len(a); i++ {
		for j := i + 1; j < len(a); j++ {
			if deepEqualJSON(a[i], a[j]) {
				ec.report(Issue{
					InstanceLocation: ec.loc,
					SchemaLocation:   k.loc.String(),
					Keyword:          "uniqueItems",
					Message:          fmt.Sprintf("items at index %d and %d are duplicates", i, j),
					Params:           map[string]any{"first": i, "second": j},
				})
				return false
			}
		}
	}
	return true
}

// prefixItemsKeyword implements 2020-12's "prefixItems" (positional
// validation), and also backs draft4..2019-09's array-valued "items"
// keyword, which the compiler normalizes to this same struct (see
// dialectTag.itemsIsTupleArray).
type prefixItemsKeyword struct {
	baseKeyword
	schemas []*schemaNode
}

func (k *prefixItemsKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	ok2 := true
	n := len(a)
	if n > len(k.schemas) {
		n = len(k.schemas)
	}
	for i := 0; i < n; i++ {
		cec := ec.child(itoa(i))
		if k.schemas[i].evaluate(cec, a[i]) {
			ec.scope.markIndex(i)
		} else {
			ok2 = false
			if ec.short {
				return false
			}
		}
	}
	return ok2
}

// itemsKeyword implements 2020-12's "items" (validates every array element
// at index >= len(prefixItems) against one schema), and draft4..2019-09's
// single-schema "items" form (validates every element).
type itemsKeyword struct {
	baseKeyword
	schema     *schemaNode
	startIndex int // first index this keyword applies to (len(prefixItems), 0 if none).
}

func (k *itemsKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	ok2 := true
	for i := k.startIndex; i < len(a); i++ {
		cec := ec.child(itoa(i))
		if k.schema.evaluate(cec, a[i]) {
			ec.scope.markIndex(i)
		} else {
			ok2 = false
			if ec.short {
				return false
			}
		}
	}
	return ok2
}

// additionalItemsKeyword implements draft4..2019-09's "additionalItems":
// applies to every index beyond a sibling tuple-form "items"'s length.
// Absent in 2020-12, where "items" itself plays this role.
type additionalItemsKeyword struct {
	baseKeyword
	schema     *schemaNode
	startIndex int
}

func (k *additionalItemsKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	ok2 := true
	for i := k.startIndex; i < len(a); i++ {
		cec := ec.child(itoa(i))
		if k.schema.evaluate(cec, a[i]) {
			ec.scope.markIndex(i)
		} else {
			ok2 = false
			if ec.short {
				return false
			}
		}
	}
	return ok2
}

// containsKeyword implements contains/minContains/maxContains.
type containsKeyword struct {
	baseKeyword
	schema   *schemaNode
	min, max int // max == -1 means unset.
}

func (k *containsKeyword) evaluate(ec *evalCtx, instance any) bool {
	a, ok := asArray(instance)
	if !ok {
		return true
	}
	matched := 0
	for i, v := range a {
		// contains evaluates a throwaway scope per candidate: a failed
		// match must not pollute ec.scope, but a successful one marks
		// the index evaluated for unevaluatedItems' benefit.
		sink := Issues{}
		cec := ec.child(itoa(i)).withReport(&sink)
		if k.schema.evaluate(cec, v) {
			matched++
			ec.scope.markIndex(i)
		}
	}
	if matched < k.min || (k.max >= 0 && matched > k.max) {
		ec.report(Issue{
			InstanceLocation: ec.loc,
			SchemaLocation:   k.loc.String(),
			Keyword:          "contains",
			Message:          fmt.Sprintf("array must contain between %d and %s matching items, found %d", k.min, maxLabel(k.max), matched),
			Params:           map[string]any{"matched": matched, "min": k.min, "max": k.max},
		})
		return false
	}
	return true
}

func maxLabel(max int) string {
	if max < 0 {
		return "unbounded"
	}
	return itoa(max)
}
