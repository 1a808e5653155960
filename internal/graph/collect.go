package graph

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// collectedField is one response key of a selection set after fragments are
// expanded and directives applied. Fields sharing a response key are merged.
type collectedField struct {
	key        string
	name       string
	def        *ast.FieldDefinition
	field      *ast.Field
	selections ast.SelectionSet
}

// collectFields flattens set for an object of type def.
func collectFields(def *ast.Definition, set ast.SelectionSet, vars map[string]interface{}) []*collectedField {
	var out []*collectedField
	byKey := map[string]*collectedField{}
	seenFragments := map[string]bool{}

	var walk func(ast.SelectionSet)
	walk = func(set ast.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *ast.Field:
				if !included(s.Directives, vars) {
					continue
				}
				key := s.Alias
				if key == "" {
					key = s.Name
				}
				if cf, ok := byKey[key]; ok {
					cf.selections = append(cf.selections, s.SelectionSet...)
					continue
				}
				cf := &collectedField{
					key:        key,
					name:       s.Name,
					def:        s.Definition,
					field:      s,
					selections: append(ast.SelectionSet(nil), s.SelectionSet...),
				}
				byKey[key] = cf
				out = append(out, cf)

			case *ast.InlineFragment:
				if !included(s.Directives, vars) || !typeApplies(s.TypeCondition, def) {
					continue
				}
				walk(s.SelectionSet)

			case *ast.FragmentSpread:
				if !included(s.Directives, vars) || seenFragments[s.Name] {
					continue
				}
				seenFragments[s.Name] = true
				if s.Definition == nil || !typeApplies(s.Definition.TypeCondition, def) {
					continue
				}
				walk(s.Definition.SelectionSet)
			}
		}
	}
	walk(set)
	return out
}

// included evaluates @skip and @include.
func included(directives ast.DirectiveList, vars map[string]interface{}) bool {
	if d := directives.ForName("skip"); d != nil {
		if skip, _ := d.ArgumentMap(vars)["if"].(bool); skip {
			return false
		}
	}
	if d := directives.ForName("include"); d != nil {
		if include, _ := d.ArgumentMap(vars)["if"].(bool); !include {
			return false
		}
	}
	return true
}

// typeApplies reports whether a fragment with the given type condition applies
// to objects of type def. The schema has no interfaces or unions.
func typeApplies(condition string, def *ast.Definition) bool {
	return condition == "" || condition == def.Name
}
