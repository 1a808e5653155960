package graph

import (
	"fmt"

	"socialgraph/internal/models"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// resultMap is a response object with keys in selection order.
type resultMap = orderedmap.OrderedMap[string, any]

// completeObject assembles obj into a response map. It returns false when a
// non-null field of obj could not be produced, in which case obj itself
// becomes null in its parent.
func (r *run) completeObject(obj *objectResult) (*resultMap, bool) {
	out := orderedmap.New[string, any](len(obj.fields))
	for _, fr := range obj.fields {
		v, ok := r.completeField(fr)
		if !ok {
			return nil, false
		}
		out.Set(fr.field.key, v)
	}
	return out, true
}

// completeField returns the response value of fr, or false when fr is null
// but declared non-null.
func (r *run) completeField(fr *fieldResult) (any, bool) {
	typ := fr.field.def.Type
	if fr.failed {
		return nil, !typ.NonNull
	}

	var (
		value any
		null  bool
		// reported is true when the cause of a null has already produced an error.
		reported bool
	)

	switch fr.kind {
	case kindLeaf:
		value = fr.value
		null = value == nil

	case kindObject:
		if fr.object == nil {
			null = true
			if fr.missing && typ.NonNull {
				r.addError(fieldError(
					models.NewNotFoundError(typ.Name(), fr.handle.Key()),
					fr.path, fr.field.field.Position,
				))
				reported = true
			}
			break
		}
		m, ok := r.completeObject(fr.object)
		if !ok {
			null, reported = true, true
			break
		}
		value = m

	case kindList:
		list := make([]any, 0, len(fr.items))
		for _, item := range fr.items {
			m, ok := r.completeObject(item)
			if !ok {
				if typ.Elem.NonNull {
					null, reported = true, true
					break
				}
				list = append(list, nil)
				continue
			}
			list = append(list, m)
		}
		if !null {
			value = list
		}
	}

	if !null {
		return value, true
	}
	if !typ.NonNull {
		return nil, true
	}
	if !reported {
		r.addError(fieldError(
			fmt.Errorf("cannot return null for non-nullable field %s", fr.field.def.Name),
			fr.path, fr.field.field.Position,
		))
	}
	return nil, false
}
