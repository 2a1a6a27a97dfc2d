package inference

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Evaluate reports whether the condition tree matches the profile.
func Evaluate(node Node, p Profile) bool {
	switch n := node.(type) {
	case *Group:
		return evaluateGroup(n, p)
	case *Criterion:
		return evaluateCriterion(n, p)
	default:
		return false
	}
}

func evaluateGroup(g *Group, p Profile) bool {
	if g == nil || len(g.Children) == 0 {
		return false
	}

	switch g.Operator {
	case OperatorAnd:
		for _, child := range g.Children {
			if !Evaluate(child, p) {
				return false
			}
		}
		return true
	case OperatorOr:
		for _, child := range g.Children {
			if Evaluate(child, p) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// evaluateCriterion never fails: a panic while comparing odd value shapes
// makes this criterion false and leaves its siblings alone.
func evaluateCriterion(c *Criterion, p Profile) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()

	if c == nil {
		return false
	}

	actual, found := Resolve(p, c.Field)
	if !found {
		return false
	}

	switch c.Operator {
	case CompareEquals:
		return valuesEqual(actual, c.Value)
	case CompareAtLeast:
		a, okA := toFloat(actual)
		e, okE := toFloat(c.Value)
		return okA && okE && a >= e
	case CompareAtMost:
		a, okA := toFloat(actual)
		e, okE := toFloat(c.Value)
		return okA && okE && a <= e
	case CompareIn:
		options, ok := asSequence(c.Value)
		return ok && containsValue(options, actual)
	case CompareContains:
		items, ok := containerItems(actual)
		return ok && containsValue(items, c.Value)
	default:
		return false
	}
}

// containerItems returns the elements of a sequence value. Strings are
// decoded as JSON arrays; anything that does not decode to an array yields false.
func containerItems(v interface{}) ([]interface{}, bool) {
	if s, ok := v.(string); ok {
		var decoded interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err != nil {
			return nil, false
		}
		items, ok := decoded.([]interface{})
		return items, ok
	}
	return asSequence(v)
}

func containsValue(items []interface{}, want interface{}) bool {
	for _, item := range items {
		if valuesEqual(item, want) {
			return true
		}
	}
	return false
}

func asSequence(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []string:
		out := make([]interface{}, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	case string, nil:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// valuesEqual is structural equality where numbers compare by value
// regardless of their Go type, so 4 == 4.0. Against a number a boolean
// counts as 1 or 0.
func valuesEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	na, aNum := numericValue(a)
	nb, bNum := numericValue(b)
	if aNum || bNum {
		if !aNum {
			na, aNum = boolValue(a)
		}
		if !bNum {
			nb, bNum = boolValue(b)
		}
		return aNum && bNum && na == nb
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	if sa, ok := asSequence(a); ok {
		sb, ok := asSequence(b)
		if !ok || len(sa) != len(sb) {
			return false
		}
		for i := range sa {
			if !valuesEqual(sa[i], sb[i]) {
				return false
			}
		}
		return true
	}

	if ma, ok := asMapping(a); ok {
		mb, ok := asMapping(b)
		if !ok || len(ma) != len(mb) {
			return false
		}
		for k, va := range ma {
			vb, ok := mb[k]
			if !ok || !valuesEqual(va, vb) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(a, b)
}

func asMapping(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case Profile:
		return m, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

type floatNumber interface {
	Float64() (float64, error)
}

// numericValue handles Go numeric kinds and json.Number, not strings or bools.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case floatNumber:
		f, err := n.Float64()
		return f, err == nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// toFloat coerces a value for ordered comparison: numbers, numeric strings
// (surrounding whitespace allowed) and booleans as 1 or 0.
func toFloat(v interface{}) (float64, bool) {
	if f, ok := numericValue(v); ok {
		return f, !math.IsNaN(f)
	}
	switch s := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case bool:
		return boolValue(s)
	}
	return 0, false
}

func boolValue(v interface{}) (float64, bool) {
	b, ok := v.(bool)
	if !ok {
		return 0, false
	}
	if b {
		return 1, true
	}
	return 0, true
}
