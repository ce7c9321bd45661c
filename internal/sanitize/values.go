package sanitize

import (
	"sort"

	"cogentcore.org/core/math32"

	"model-viewer/internal/scenegraph"
)

// FilterUniforms returns a new uniform map holding only bindings whose value
// is a number, a numeric array, a vector, a matrix or a texture handle, and
// the sorted names of the dropped bindings.
func FilterUniforms(in map[string]scenegraph.Uniform) (map[string]scenegraph.Uniform, []string) {
	out := make(map[string]scenegraph.Uniform, len(in))
	var dropped []string
	for k, u := range in {
		if safeUniformValue(u.Value) {
			out[k] = u
		} else {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return out, dropped
}

func safeUniformValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case []float32, []float64, []int, []int32, []uint32:
		return true
	case []any:
		for _, e := range x {
			if !isNumber(e) {
				return false
			}
		}
		return true
	case math32.Vector2, math32.Vector3, math32.Vector4, math32.Matrix3, math32.Matrix4, scenegraph.Texture:
		return true
	case *math32.Vector2, *math32.Vector3, *math32.Vector4, *math32.Matrix3, *math32.Matrix4:
		return true
	case *scenegraph.Texture:
		return x != nil
	}
	return isNumber(v)
}

func isNumber(v any) bool {
	switch v.(type) {
	case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	return isNumber(v)
}

// FilterUserData rebuilds free-form metadata key by key. Strings, numbers
// and booleans are kept (strings pass through FilterText); arrays are kept
// with their non-scalar elements removed; everything else is dropped. The
// sorted names of dropped keys are returned.
func FilterUserData(in map[string]any) (map[string]any, []string) {
	out := make(map[string]any, len(in))
	var dropped []string
	for k, v := range in {
		switch x := v.(type) {
		case string:
			out[k] = FilterText(x)
		case []string:
			clean := make([]any, 0, len(x))
			for _, s := range x {
				clean = append(clean, FilterText(s))
			}
			out[k] = clean
		case []any:
			clean := make([]any, 0, len(x))
			for _, e := range x {
				if !isScalar(e) {
					continue
				}
				if s, ok := e.(string); ok {
					e = FilterText(s)
				}
				clean = append(clean, e)
			}
			out[k] = clean
		case []float64, []float32, []int, []bool:
			out[k] = x
		default:
			if isScalar(v) {
				out[k] = v
				continue
			}
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return out, dropped
}
