// Package registry describes the entities of the social graph: their scalar
// fields and the relationship edges that connect them. A Registry is built
// once at start-up and never mutated afterwards.
package registry

import (
	"fmt"
	"sort"
)

// Kind classifies how an edge fans out from its source record.
type Kind int

const (
	// ToOne resolves to at most one target record.
	ToOne Kind = iota
	// ToMany resolves to zero or more target records via a foreign key.
	ToMany
	// ToManyViaJoin resolves to zero or more target records through a join entity.
	ToManyViaJoin
)

func (k Kind) String() string {
	switch k {
	case ToOne:
		return "to-one"
	case ToMany:
		return "to-many"
	case ToManyViaJoin:
		return "to-many-via-join"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is a scalar attribute of an entity.
type Field struct {
	Name     string
	Nullable bool
	Value    func(rec any) any
}

// Lookup is the bulk query that answers an edge for a set of keys: every row of
// Entity whose Column is one of the keys, with Preload associations attached.
type Lookup struct {
	Entity  string
	Column  string
	Preload []string
}

// Edge is a named relationship from Source to Target.
type Edge struct {
	ID       string
	Name     string
	Kind     Kind
	Source   string
	Target   string
	Nullable bool
	// KeyType names the scalar type of the key, used to validate it before
	// it is handed to the loader.
	KeyType string
	Lookup  Lookup

	sourceKey func(rec any) (string, bool)
	groupKey  func(row any) (string, bool)
	project   func(row any) any
}

// SourceKey extracts the lookup key from a source record.
func (e *Edge) SourceKey(rec any) (string, bool) {
	return e.sourceKey(rec)
}

// GroupKey returns the key a fetched row answers.
func (e *Edge) GroupKey(row any) (string, bool) {
	return e.groupKey(row)
}

// Project maps a fetched row to the target record. Rows of a join entity whose
// target is missing project to nil.
func (e *Edge) Project(row any) any {
	if e.project == nil {
		return row
	}
	return e.project(row)
}

// Many reports whether the edge yields a sequence.
func (e *Edge) Many() bool {
	return e.Kind != ToOne
}

// EdgeList is the set of edges leaving one entity, ordered by name.
type EdgeList []*Edge

// ForName returns the edge called name, or nil.
func (l EdgeList) ForName(name string) *Edge {
	for _, e := range l {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Entity describes one record type.
type Entity struct {
	Name   string
	Fields map[string]Field
	Edges  EdgeList
}

// Registry is the immutable catalogue of entities and edges.
type Registry struct {
	entities map[string]*Entity
	edges    map[string]*Edge
}

// Describe returns the edges leaving entity. Unknown entities have none.
func (r *Registry) Describe(entity string) EdgeList {
	if e, ok := r.entities[entity]; ok {
		return e.Edges
	}
	return nil
}

// Entity returns the description of name.
func (r *Registry) Entity(name string) (*Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Edge returns the edge with the given "Entity.field" identifier.
func (r *Registry) Edge(id string) (*Edge, bool) {
	e, ok := r.edges[id]
	return e, ok
}

type builder struct {
	entities map[string]*Entity
	edges    map[string]*Edge
}

func newBuilder() *builder {
	return &builder{entities: map[string]*Entity{}, edges: map[string]*Edge{}}
}

func (b *builder) entity(name string, fields ...Field) {
	e := &Entity{Name: name, Fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		e.Fields[f.Name] = f
	}
	b.entities[name] = e
}

func (b *builder) edge(e *Edge) {
	src, ok := b.entities[e.Source]
	if !ok {
		panic(fmt.Sprintf("registry: edge %s leaves unknown entity %s", e.ID, e.Source))
	}
	if _, ok := b.entities[e.Target]; !ok {
		panic(fmt.Sprintf("registry: edge %s targets unknown entity %s", e.ID, e.Target))
	}
	if _, dup := b.edges[e.ID]; dup {
		panic(fmt.Sprintf("registry: duplicate edge %s", e.ID))
	}
	src.Edges = append(src.Edges, e)
	sort.Slice(src.Edges, func(i, j int) bool { return src.Edges[i].Name < src.Edges[j].Name })
	b.edges[e.ID] = e
}

func (b *builder) build() *Registry {
	return &Registry{entities: b.entities, edges: b.edges}
}

// field builds a Field reading from records of type *T.
func field[T any](name string, nullable bool, get func(*T) any) Field {
	return Field{
		Name:     name,
		Nullable: nullable,
		Value: func(rec any) any {
			t, ok := rec.(*T)
			if !ok || t == nil {
				return nil
			}
			return get(t)
		},
	}
}

// edgeSpec collects the typed accessors of an edge from *S records to rows of
// type *R.
type edgeSpec[S, R any] struct {
	name     string
	kind     Kind
	source   string
	target   string
	nullable bool
	keyType  string
	lookup   Lookup
	key      func(*S) string
	group    func(*R) string
	project  func(*R) any
}

func (s edgeSpec[S, R]) build() *Edge {
	e := &Edge{
		ID:       s.source + "." + s.name,
		Name:     s.name,
		Kind:     s.kind,
		Source:   s.source,
		Target:   s.target,
		Nullable: s.nullable,
		KeyType:  s.keyType,
		Lookup:   s.lookup,
		sourceKey: func(rec any) (string, bool) {
			t, ok := rec.(*S)
			if !ok || t == nil {
				return "", false
			}
			return s.key(t), true
		},
		groupKey: func(row any) (string, bool) {
			r, ok := row.(*R)
			if !ok || r == nil {
				return "", false
			}
			return s.group(r), true
		},
	}
	if s.project != nil {
		e.project = func(row any) any {
			r, ok := row.(*R)
			if !ok || r == nil {
				return nil
			}
			return s.project(r)
		}
	}
	return e
}
