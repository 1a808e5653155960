package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"socialgraph/internal/models"

	"github.com/vektah/gqlparser/v2/ast"
)

// coerceArguments resolves and validates the arguments of one field against
// its definition. Every UUID and enum value is checked here, before any
// resolver runs.
func (e *Engine) coerceArguments(cf *collectedField, vars map[string]interface{}) (map[string]interface{}, error) {
	raw := cf.field.ArgumentMap(vars)
	args := make(map[string]interface{}, len(cf.def.Arguments))
	for _, argDef := range cf.def.Arguments {
		v, err := e.coerceInput(argDef.Type, raw[argDef.Name], argDef.Name)
		if err != nil {
			return nil, err
		}
		if v != nil {
			args[argDef.Name] = v
		}
	}
	return args, nil
}

func (e *Engine) coerceInput(typ *ast.Type, v interface{}, path string) (interface{}, error) {
	if v == nil {
		if typ.NonNull {
			return nil, models.NewValidationError(fmt.Sprintf("%s is required", path))
		}
		return nil, nil
	}

	if typ.Elem != nil {
		items, ok := v.([]interface{})
		if !ok {
			items = []interface{}{v}
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			c, err := e.coerceInput(typ.Elem, item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	def := e.schema.Types[typ.NamedType]
	if def == nil {
		return nil, fmt.Errorf("unknown input type %s", typ.NamedType)
	}

	switch def.Kind {
	case ast.Scalar:
		return coerceScalar(def.Name, v, path)
	case ast.Enum:
		s, ok := v.(string)
		if !ok || def.EnumValues.ForName(s) == nil {
			return nil, enumError(def, v, path)
		}
		return s, nil
	case ast.InputObject:
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, models.NewValidationError(fmt.Sprintf("%s must be a %s object", path, def.Name))
		}
		for name := range m {
			if def.Fields.ForName(name) == nil {
				return nil, models.NewValidationError(fmt.Sprintf("%s.%s is not a field of %s", path, name, def.Name))
			}
		}
		out := make(map[string]interface{}, len(m))
		for _, f := range def.Fields {
			fv, present := m[f.Name]
			if !present && !f.Type.NonNull {
				continue
			}
			c, err := e.coerceInput(f.Type, fv, path+"."+f.Name)
			if err != nil {
				return nil, err
			}
			if c != nil {
				out[f.Name] = c
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s has non-input type %s", path, def.Name)
}

func coerceScalar(name string, v interface{}, path string) (interface{}, error) {
	switch name {
	case scalarUUID:
		s, ok := v.(string)
		if !ok {
			return nil, models.NewValidationError(fmt.Sprintf("%s must be a UUID string", path))
		}
		if err := models.ValidateUUID(path, s); err != nil {
			return nil, err
		}
		return s, nil
	case "String", "ID":
		if s, ok := v.(string); ok {
			return s, nil
		}
	case "Boolean":
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case "Int":
		if n, ok := toFloat(v); ok && n == math.Trunc(n) && n >= math.MinInt32 && n <= math.MaxInt32 {
			return int(n), nil
		}
	case "Float":
		if n, ok := toFloat(v); ok && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n, nil
		}
	default:
		return v, nil
	}
	return nil, models.NewValidationError(fmt.Sprintf("%s: cannot use %v as %s", path, v, name))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func enumError(def *ast.Definition, v interface{}, path string) error {
	names := make([]string, len(def.EnumValues))
	for i, ev := range def.EnumValues {
		names[i] = ev.Name
	}
	return models.NewValidationError(fmt.Sprintf("%s: %v is not a valid %s, expected one of %s",
		path, v, def.Name, strings.Join(names, ", ")))
}

// checkScalar validates a stored value of a custom scalar or enum type on its
// way out of the store.
func (e *Engine) checkScalar(typeName string, v interface{}, path string) error {
	switch typeName {
	case scalarUUID:
		s, _ := v.(string)
		return models.ValidateUUID(path, s)
	}
	if def := e.schema.Types[typeName]; def != nil && def.Kind == ast.Enum {
		s, ok := v.(string)
		if !ok || def.EnumValues.ForName(s) == nil {
			return enumError(def, v, path)
		}
	}
	return nil
}
