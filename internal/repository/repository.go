// Package repository is the storage gateway: point lookups, filtered scans and
// writes against the relational store, for every entity in the social graph.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"socialgraph/internal/middleware"
	"socialgraph/internal/models"
	"socialgraph/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DefaultMaxInClause bounds the number of values bound into one IN list.
const DefaultMaxInClause = 1000

// Filter selects rows whose Column matches any of Values. An empty Column
// selects every row. Preload names associations to load with the rows.
type Filter struct {
	Column  string
	Values  []string
	Preload []string
}

// Where is an equality condition set, used for compound keys.
type Where map[string]any

// Repository defines the typed gateway operations for one entity.
type Repository[T any] interface {
	// FindOne returns nil, nil when no row has the key.
	FindOne(ctx context.Context, key string) (*T, error)
	FindMany(ctx context.Context, f Filter) ([]*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, key string, changes map[string]any) (*T, error)
	Delete(ctx context.Context, where Where) error
}

// dependent is a child table whose rows are removed with their parent.
type dependent struct {
	model   any
	columns []string
}

// table implements Repository for one GORM model.
type table[T any] struct {
	db       *gorm.DB
	entity   string
	name     string
	maxIn    int
	children []dependent
}

func newTable[T any](db *gorm.DB, entity, name string, maxIn int, children ...dependent) *table[T] {
	if maxIn <= 0 {
		maxIn = DefaultMaxInClause
	}
	return &table[T]{db: db, entity: entity, name: name, maxIn: maxIn, children: children}
}

func (r *table[T]) FindOne(ctx context.Context, key string) (*T, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "FindOne", r.name)
	defer span.End()
	defer observability.TrackQuery("find_one", r.name)()

	var rec T
	if err := r.db.WithContext(ctx).Where("id = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, r.translate(ctx, "find_one", err)
	}
	return &rec, nil
}

func (r *table[T]) FindMany(ctx context.Context, f Filter) ([]*T, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "FindMany", r.name)
	defer span.End()
	defer observability.TrackQuery("find_many", r.name)()

	if f.Column == "" {
		var rows []*T
		if err := r.query(ctx, f.Preload).Find(&rows).Error; err != nil {
			span.RecordError(err)
			return nil, r.translate(ctx, "find_many", err)
		}
		return rows, nil
	}

	rows := make([]*T, 0, len(f.Values))
	for _, chunk := range chunkValues(f.Values, r.maxIn) {
		var part []*T
		if err := r.query(ctx, f.Preload).Where(f.Column+" IN ?", chunk).Find(&part).Error; err != nil {
			span.RecordError(err)
			return nil, r.translate(ctx, "find_many", err)
		}
		rows = append(rows, part...)
	}
	return rows, nil
}

func (r *table[T]) query(ctx context.Context, preload []string) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	return q
}

func (r *table[T]) Create(ctx context.Context, rec *T) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Create", r.name)
	defer span.End()
	defer observability.TrackQuery("create", r.name)()

	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		span.RecordError(err)
		return r.translate(ctx, "create", err)
	}
	return nil
}

func (r *table[T]) Update(ctx context.Context, key string, changes map[string]any) (*T, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Update", r.name)
	defer span.End()
	defer observability.TrackQuery("update", r.name)()

	var rec T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", key).First(&rec).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&rec).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", key).First(&rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(r.entity, key)
		}
		span.RecordError(err)
		return nil, r.translate(ctx, "update", err)
	}
	return &rec, nil
}

func (r *table[T]) Delete(ctx context.Context, where Where) error {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Delete", r.name)
	defer span.End()
	defer observability.TrackQuery("delete", r.name)()

	if len(where) == 0 {
		return models.NewValidationError("delete requires a key")
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(r.children) > 0 {
			key, ok := where["id"]
			if !ok {
				return fmt.Errorf("cascading delete on %s requires an id", r.name)
			}
			for _, child := range r.children {
				cond, args := anyColumnEquals(child.columns, key)
				if err := tx.Where(cond, args...).Delete(child.model).Error; err != nil {
					return err
				}
			}
		}

		res := tx.Where(map[string]any(where)).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		if affected == 0 {
			// Roll back the cascade; the parent never existed.
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError(r.entity, describeWhere(where))
		}
		span.RecordError(err)
		return r.translate(ctx, "delete", err)
	}

	middleware.Logger.DebugContext(ctx, "repository delete",
		slog.String("table", r.name),
		slog.Int64("rows", affected),
	)
	return nil
}

// translate maps driver errors onto the application error taxonomy.
func (r *table[T]) translate(ctx context.Context, op string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError(fmt.Sprintf("%s already exists", r.entity))
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewValidationError(fmt.Sprintf("%s references a missing record", r.entity))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return models.NewConflictError(fmt.Sprintf("%s already exists", r.entity))
		case "23503":
			return models.NewValidationError(fmt.Sprintf("%s references a missing record", r.entity))
		}
	}

	middleware.Logger.ErrorContext(ctx, "repository error",
		slog.String("table", r.name),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return models.NewUpstreamError(err)
}

func chunkValues(values []string, size int) [][]string {
	if len(values) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(values)+size-1)/size)
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}

func anyColumnEquals(columns []string, key any) (string, []any) {
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		parts[i] = col + " = ?"
		args[i] = key
	}
	return strings.Join(parts, " OR "), args
}

func describeWhere(where Where) string {
	if id, ok := where["id"]; ok {
		return fmt.Sprint(id)
	}
	parts := make([]string, 0, len(where))
	for k, v := range where {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}
