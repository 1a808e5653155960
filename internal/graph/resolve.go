package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"socialgraph/internal/loader"
	"socialgraph/internal/middleware"
	"socialgraph/internal/observability"
	"socialgraph/internal/registry"
	"socialgraph/internal/repository"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type resultKind int

const (
	kindLeaf resultKind = iota
	kindObject
	kindList
)

// objectResult is one object in the result tree together with the record it
// was resolved from.
type objectResult struct {
	def        *ast.Definition
	record     any
	path       ast.Path
	selections ast.SelectionSet
	fields     []*fieldResult
}

// fieldResult holds the outcome of one response key of an object.
type fieldResult struct {
	field *collectedField
	path  ast.Path
	kind  resultKind

	value  any
	object *objectResult
	items  []*objectResult

	// failed marks a field whose error has been reported.
	failed bool
	// missing marks a to-one lookup that matched no row.
	missing bool

	edge   *registry.Edge
	handle *loader.Handle
}

func newFieldResult(cf *collectedField, parent ast.Path) *fieldResult {
	return &fieldResult{field: cf, path: appendPath(parent, ast.PathName(cf.key))}
}

func (fr *fieldResult) children() []*objectResult {
	switch fr.kind {
	case kindObject:
		if fr.object != nil {
			return []*objectResult{fr.object}
		}
	case kindList:
		return fr.items
	}
	return nil
}

// run is the request-local state of one execution.
type run struct {
	engine *Engine
	vars   map[string]interface{}

	mu   sync.Mutex
	errs gqlerror.List
}

func (r *run) addError(err *gqlerror.Error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *run) fail(fr *fieldResult, err error) {
	fr.failed = true
	r.addError(fieldError(err, fr.path, fr.field.field.Position))
}

func (r *run) newObject(def *ast.Definition, record any, path ast.Path, selections ast.SelectionSet) *objectResult {
	return &objectResult{def: def, record: record, path: path, selections: selections}
}

// place stores a resolved record (or list of records) on fr, creating child
// objects for composite field types.
func (r *run) place(fr *fieldResult, value any) {
	typ := fr.field.def.Type
	def := r.engine.schema.Types[typ.Name()]
	if def == nil || def.Kind != ast.Object {
		fr.kind = kindLeaf
		fr.value = value
		return
	}

	if typ.Elem != nil {
		fr.kind = kindList
		rows, _ := value.([]any)
		fr.items = make([]*objectResult, 0, len(rows))
		for i, row := range rows {
			fr.items = append(fr.items, r.newObject(def, row, appendPath(fr.path, ast.PathIndex(i)), fr.field.selections))
		}
		return
	}

	fr.kind = kindObject
	if value == nil {
		return
	}
	fr.object = r.newObject(def, value, fr.path, fr.field.selections)
}

// resolveLevels walks the result tree breadth-first from level. All fields of
// every object in a level are resolved, the level's relationship lookups are
// dispatched as one batch per edge, and the fetched records form the next
// level.
func (r *run) resolveLevels(ctx context.Context, level []*objectResult, ld *loader.Loader) error {
	for depth := 1; len(level) > 0; depth++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		logPhase(ctx, phaseResolving, slog.Int("level", depth), slog.Int("objects", len(level)))

		var pending []*fieldResult
		for _, obj := range level {
			pending = append(pending, r.resolveObject(obj, ld)...)
		}

		if ld.Pending() > 0 {
			span, dctx := observability.NewSpan(ctx, "graphql.level",
				attribute.Int("graphql.level", depth),
				attribute.Int("graphql.edges", ld.Pending()),
			)
			ld.Dispatch(dctx)
			span.End()
		}

		var next []*objectResult
		for _, fr := range pending {
			r.settle(fr)
		}
		for _, obj := range level {
			for _, fr := range obj.fields {
				next = append(next, fr.children()...)
			}
		}
		level = next
	}
	return nil
}

// resolveObject resolves the scalar fields of obj and registers its
// relationship fields with the loader. It returns the fields awaiting dispatch.
func (r *run) resolveObject(obj *objectResult, ld *loader.Loader) []*fieldResult {
	entity, ok := r.engine.registry.Entity(obj.def.Name)
	fields := collectFields(obj.def, obj.selections, r.vars)
	obj.fields = make([]*fieldResult, 0, len(fields))

	var pending []*fieldResult
	for _, cf := range fields {
		fr := newFieldResult(cf, obj.path)
		obj.fields = append(obj.fields, fr)

		if cf.name == typenameField {
			fr.value = obj.def.Name
			continue
		}
		if !ok {
			r.fail(fr, fmt.Errorf("type %s has no resolver", obj.def.Name))
			continue
		}

		if f, isField := entity.Fields[cf.name]; isField {
			v := f.Value(obj.record)
			if err := r.engine.checkScalar(cf.def.Type.Name(), v, fr.path.String()); err != nil {
				r.fail(fr, err)
				continue
			}
			fr.value = v
			continue
		}

		edge := entity.Edges.ForName(cf.name)
		if edge == nil {
			r.fail(fr, fmt.Errorf("field %s.%s has no resolver", obj.def.Name, cf.name))
			continue
		}
		key, found := edge.SourceKey(obj.record)
		if !found {
			r.fail(fr, fmt.Errorf("record for %s is not a %s", edge.ID, edge.Source))
			continue
		}
		if err := r.engine.checkScalar(edge.KeyType, key, fr.path.String()); err != nil {
			r.fail(fr, err)
			continue
		}
		fr.edge = edge
		fr.handle = ld.Load(edge, key)
		pending = append(pending, fr)
	}
	return pending
}

// settle distributes the dispatched rows of one relationship field.
func (r *run) settle(fr *fieldResult) {
	if fr.edge.Many() {
		rows, err := fr.handle.Many()
		if err != nil {
			r.fail(fr, err)
			return
		}
		r.place(fr, rows)
		return
	}

	rec, found, err := fr.handle.One()
	if err != nil {
		r.fail(fr, err)
		return
	}
	r.place(fr, rec)
	fr.missing = !found
}

// executeQuery resolves the root query fields concurrently and then walks the
// selected relationships level by level.
func (r *run) executeQuery(ctx context.Context, root *objectResult) error {
	fields := collectFields(root.def, root.selections, r.vars)
	root.fields = make([]*fieldResult, len(fields))

	var g errgroup.Group
	for i, cf := range fields {
		fr := newFieldResult(cf, root.path)
		root.fields[i] = fr
		if cf.name == typenameField {
			fr.value = root.def.Name
			continue
		}
		g.Go(func() error {
			r.resolveRootField(ctx, fr)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	var level []*objectResult
	for _, fr := range root.fields {
		level = append(level, fr.children()...)
	}
	return r.resolveLevels(ctx, level, loader.New(r.engine.store))
}

// resolveRootField answers a root query field straight from the store: list
// fields scan the whole entity, single fields look the row up by id.
func (r *run) resolveRootField(ctx context.Context, fr *fieldResult) {
	cf := fr.field
	args, err := r.engine.coerceArguments(cf, r.vars)
	if err != nil {
		r.fail(fr, err)
		return
	}

	entity := cf.def.Type.Name()
	if _, ok := r.engine.registry.Entity(entity); !ok {
		r.fail(fr, fmt.Errorf("field %s is not supported", cf.name))
		return
	}

	if cf.def.Type.Elem != nil {
		rows, err := r.engine.store.FindMany(ctx, entity, repository.Filter{})
		if err != nil {
			r.fail(fr, err)
			return
		}
		r.place(fr, rows)
		return
	}

	id, _ := args["id"].(string)
	rec, err := r.engine.store.FindOne(ctx, entity, id)
	if err != nil {
		r.fail(fr, err)
		return
	}
	r.place(fr, rec)
}

// executeMutation runs the mutation fields one after another in request
// order. Each field's selection is resolved with its own loader before the
// next write starts.
func (r *run) executeMutation(ctx context.Context, root *objectResult) error {
	fields := collectFields(root.def, root.selections, r.vars)
	root.fields = make([]*fieldResult, 0, len(fields))

	for _, cf := range fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		fr := newFieldResult(cf, root.path)
		root.fields = append(root.fields, fr)

		if cf.name == typenameField {
			fr.value = root.def.Name
			continue
		}

		resolve, ok := r.engine.mutations[cf.name]
		if !ok {
			r.fail(fr, fmt.Errorf("mutation %s is not supported", cf.name))
			continue
		}
		args, err := r.engine.coerceArguments(cf, r.vars)
		if err != nil {
			r.fail(fr, err)
			continue
		}

		middleware.Logger.DebugContext(ctx, "graphql mutation", slog.String("field", cf.name))
		value, err := resolve(ctx, args)
		if err != nil {
			r.fail(fr, err)
			continue
		}
		r.place(fr, value)

		if err := r.resolveLevels(ctx, fr.children(), loader.New(r.engine.store)); err != nil {
			return err
		}
	}
	return nil
}
