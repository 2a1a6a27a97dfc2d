package inference

import (
	"reflect"
	"strings"
)

// Profile is a student's questionnaire answers as a nested mapping, e.g.
// {"strand": "STEM", "skills": {"analytical": 5}, "interests": ["Technology"]}.
type Profile map[string]interface{}

// Resolve walks a dot-separated path such as "skills.analytical". found is
// false when a segment is missing, when an intermediate value is not a
// mapping, or when the value is null.
func Resolve(p Profile, path string) (value interface{}, found bool) {
	var current interface{} = map[string]interface{}(p)
	for _, key := range strings.Split(path, ".") {
		next, ok := lookupKey(current, key)
		if !ok || next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

func lookupKey(container interface{}, key string) (interface{}, bool) {
	switch m := container.(type) {
	case map[string]interface{}:
		v, ok := m[key]
		return v, ok
	case Profile:
		v, ok := m[key]
		return v, ok
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(container)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}
	return v.Interface(), true
}
