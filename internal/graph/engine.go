// Package graph executes GraphQL operations against the social graph.
//
// Root query fields are answered by the store directly. Everything below the
// root is resolved one level at a time: the engine walks every object of the
// level, registers relationship lookups with a per-request loader, and issues
// one bulk fetch per edge before descending. Mutation fields run strictly in
// request order, each with a fresh loader.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"socialgraph/internal/loader"
	"socialgraph/internal/middleware"
	"socialgraph/internal/models"
	"socialgraph/internal/observability"
	"socialgraph/internal/registry"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"go.opentelemetry.io/otel/attribute"
)

// Store is the read side of the storage gateway.
type Store interface {
	loader.Source
	FindOne(ctx context.Context, entity, key string) (any, error)
}

// Params is a GraphQL request.
type Params struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`

	// ReadOnly rejects mutation operations.
	ReadOnly bool `json:"-"`
}

// Response is a GraphQL response. Data is omitted when the request failed
// before execution and is JSON null when a failure bubbled to the root.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors gqlerror.List   `json:"errors,omitempty"`
}

// Engine executes operations. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	schema    *ast.Schema
	registry  *registry.Registry
	store     Store
	mutations map[string]mutationResolver
}

// New creates an Engine.
func New(reg *registry.Registry, store Store, svc Services) *Engine {
	return &Engine{
		schema:    LoadSchema(),
		registry:  reg,
		store:     store,
		mutations: svc.resolvers(),
	}
}

type phase string

const (
	phaseReceived  phase = "Received"
	phaseParsed    phase = "Parsed"
	phaseResolving phase = "Resolving"
	phaseAssembled phase = "Assembled"
	phaseResponded phase = "Responded"
	phaseFailed    phase = "Failed"
)

func logPhase(ctx context.Context, p phase, attrs ...any) {
	middleware.Logger.DebugContext(ctx, "graphql phase", append([]any{slog.String("phase", string(p))}, attrs...)...)
}

// Execute parses, validates and runs one request.
func (e *Engine) Execute(ctx context.Context, params Params) *Response {
	span, ctx := observability.NewSpan(ctx, "graphql.execute")
	defer span.End()

	logPhase(ctx, phaseReceived, slog.Int("query_bytes", len(params.Query)))

	doc, errs := gqlparser.LoadQuery(e.schema, params.Query)
	if len(errs) > 0 {
		return e.reject(ctx, "unknown", requestErrors(errs))
	}

	op, err := selectOperation(doc, params.OperationName)
	if err != nil {
		return e.reject(ctx, "unknown", requestError(err))
	}
	opType := string(op.Operation)
	span.AddAttributes(attribute.String("graphql.operation.type", opType))

	vars, err := validator.VariableValues(e.schema, op, params.Variables)
	if err != nil {
		return e.reject(ctx, opType, requestError(err))
	}

	if op.Name != "" {
		ctx = middleware.WithOperation(ctx, op.Name)
	}
	logPhase(ctx, phaseParsed, slog.String("operation", opType))

	r := &run{engine: e, vars: vars}
	root := &objectResult{selections: op.SelectionSet}

	switch op.Operation {
	case ast.Query:
		root.def = e.schema.Query
		err = r.executeQuery(ctx, root)
	case ast.Mutation:
		if params.ReadOnly {
			return e.reject(ctx, opType, requestError(errors.New("mutations are not allowed over GET")))
		}
		root.def = e.schema.Mutation
		err = r.executeMutation(ctx, root)
	default:
		return e.reject(ctx, opType, requestError(fmt.Errorf("%s operations are not supported", opType)))
	}
	if err != nil {
		// The caller is gone; whatever was resolved is discarded.
		logPhase(ctx, phaseFailed, slog.String("error", err.Error()))
		observability.GraphQLRequests.WithLabelValues(opType, "cancelled").Inc()
		return &Response{Errors: gqlerror.List{fieldError(models.NewUpstreamError(err), nil, nil)}}
	}

	data, ok := r.completeObject(root)
	raw := json.RawMessage("null")
	if ok {
		if raw, err = json.Marshal(data); err != nil {
			return e.reject(ctx, opType, gqlerror.List{fieldError(models.NewUpstreamError(err), nil, nil)})
		}
	}
	logPhase(ctx, phaseAssembled, slog.Int("errors", len(r.errs)))

	outcome := "ok"
	switch {
	case !ok:
		outcome = "failed"
		logPhase(ctx, phaseFailed, slog.Int("errors", len(r.errs)))
	case len(r.errs) > 0:
		outcome = "partial"
	}
	observability.GraphQLRequests.WithLabelValues(opType, outcome).Inc()
	if ok {
		logPhase(ctx, phaseResponded)
	}

	return &Response{Data: raw, Errors: r.errs}
}

func (e *Engine) reject(ctx context.Context, opType string, errs gqlerror.List) *Response {
	logPhase(ctx, phaseFailed, slog.String("error", errs.Error()))
	observability.GraphQLRequests.WithLabelValues(opType, "rejected").Inc()
	return &Response{Errors: errs}
}

func selectOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name != "" {
		if op := doc.Operations.ForName(name); op != nil {
			return op, nil
		}
		return nil, fmt.Errorf("operation %q not found", name)
	}
	switch len(doc.Operations) {
	case 0:
		return nil, errors.New("no operation provided")
	case 1:
		return doc.Operations[0], nil
	}
	return nil, errors.New("operationName is required when the document has several operations")
}
