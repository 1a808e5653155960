package repository

import (
	"context"
	"fmt"

	"socialgraph/internal/models"

	"gorm.io/gorm"
)

// Gateway groups the typed repositories and answers untyped lookups by entity
// name for the batch loader and the GraphQL root resolvers.
type Gateway struct {
	Users         Repository[models.User]
	Profiles      Repository[models.Profile]
	Posts         Repository[models.Post]
	MemberTypes   Repository[models.MemberType]
	Subscriptions Repository[models.Subscription]

	finders map[string]finder
}

type finder struct {
	one  func(ctx context.Context, key string) (any, error)
	many func(ctx context.Context, f Filter) ([]any, error)
}

// Option configures a Gateway.
type Option func(*gatewayOptions)

type gatewayOptions struct {
	maxIn int
}

// WithMaxInClause sets the IN-list chunk size used by FindMany.
func WithMaxInClause(n int) Option {
	return func(o *gatewayOptions) {
		o.maxIn = n
	}
}

// NewGateway creates a Gateway over db.
func NewGateway(db *gorm.DB, opts ...Option) *Gateway {
	o := gatewayOptions{maxIn: DefaultMaxInClause}
	for _, opt := range opts {
		opt(&o)
	}

	users := newTable[models.User](db, models.EntityUser, "users", o.maxIn,
		dependent{model: &models.Subscription{}, columns: []string{"subscriber_id", "author_id"}},
		dependent{model: &models.Post{}, columns: []string{"author_id"}},
		dependent{model: &models.Profile{}, columns: []string{"user_id"}},
	)
	profiles := newTable[models.Profile](db, models.EntityProfile, "profiles", o.maxIn)
	posts := newTable[models.Post](db, models.EntityPost, "posts", o.maxIn)
	memberTypes := newTable[models.MemberType](db, models.EntityMemberType, "member_types", o.maxIn)
	subscriptions := newTable[models.Subscription](db, models.EntitySubscription, "subscriptions", o.maxIn)

	return &Gateway{
		Users:         users,
		Profiles:      profiles,
		Posts:         posts,
		MemberTypes:   memberTypes,
		Subscriptions: subscriptions,
		finders: map[string]finder{
			models.EntityUser:         finderFor[models.User](users),
			models.EntityProfile:      finderFor[models.Profile](profiles),
			models.EntityPost:         finderFor[models.Post](posts),
			models.EntityMemberType:   finderFor[models.MemberType](memberTypes),
			models.EntitySubscription: finderFor[models.Subscription](subscriptions),
		},
	}
}

func finderFor[T any](repo Repository[T]) finder {
	return finder{
		one: func(ctx context.Context, key string) (any, error) {
			rec, err := repo.FindOne(ctx, key)
			if err != nil || rec == nil {
				return nil, err
			}
			return rec, nil
		},
		many: func(ctx context.Context, f Filter) ([]any, error) {
			rows, err := repo.FindMany(ctx, f)
			if err != nil {
				return nil, err
			}
			out := make([]any, len(rows))
			for i, row := range rows {
				out[i] = row
			}
			return out, nil
		},
	}
}

// FindOne returns the record of entity with the given primary key, or nil
// when absent. Records are returned as pointers to model structs.
func (g *Gateway) FindOne(ctx context.Context, entity, key string) (any, error) {
	f, ok := g.finders[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	return f.one(ctx, key)
}

// FindMany returns every record of entity matching the filter, in one round
// trip per IN-list chunk.
func (g *Gateway) FindMany(ctx context.Context, entity string, filter Filter) ([]any, error) {
	f, ok := g.finders[entity]
	if !ok {
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
	return f.many(ctx, filter)
}
