package registry

import "socialgraph/internal/models"

// Scalar type names used as edge key types.
const (
	KeyUUID       = "UUID"
	KeyMemberType = "MemberTypeId"
)

// New builds the registry of the social graph.
func New() *Registry {
	b := newBuilder()

	b.entity(models.EntityUser,
		field("id", false, func(u *models.User) any { return u.ID }),
		field("name", false, func(u *models.User) any { return u.Name }),
		field("balance", false, func(u *models.User) any { return u.Balance }),
	)
	b.entity(models.EntityProfile,
		field("id", false, func(p *models.Profile) any { return p.ID }),
		field("isMale", false, func(p *models.Profile) any { return p.IsMale }),
		field("yearOfBirth", false, func(p *models.Profile) any { return p.YearOfBirth }),
		field("userId", false, func(p *models.Profile) any { return p.UserID }),
		field("memberTypeId", false, func(p *models.Profile) any { return string(p.MemberTypeID) }),
	)
	b.entity(models.EntityPost,
		field("id", false, func(p *models.Post) any { return p.ID }),
		field("title", false, func(p *models.Post) any { return p.Title }),
		field("content", false, func(p *models.Post) any { return p.Content }),
		field("authorId", false, func(p *models.Post) any { return p.AuthorID }),
	)
	b.entity(models.EntityMemberType,
		field("id", false, func(m *models.MemberType) any { return string(m.ID) }),
		field("discount", false, func(m *models.MemberType) any { return m.Discount }),
		field("postsLimitPerMonth", false, func(m *models.MemberType) any { return m.PostsLimitPerMonth }),
	)
	b.entity(models.EntitySubscription,
		field("subscriberId", false, func(s *models.Subscription) any { return s.SubscriberID }),
		field("authorId", false, func(s *models.Subscription) any { return s.AuthorID }),
	)

	// Many-to-one.
	b.edge(edgeSpec[models.Post, models.User]{
		name: "author", kind: ToOne, source: models.EntityPost, target: models.EntityUser,
		keyType: KeyUUID,
		lookup:  Lookup{Entity: models.EntityUser, Column: "id"},
		key:     func(p *models.Post) string { return p.AuthorID },
		group:   func(u *models.User) string { return u.ID },
	}.build())
	b.edge(edgeSpec[models.Profile, models.User]{
		name: "user", kind: ToOne, source: models.EntityProfile, target: models.EntityUser,
		keyType: KeyUUID,
		lookup:  Lookup{Entity: models.EntityUser, Column: "id"},
		key:     func(p *models.Profile) string { return p.UserID },
		group:   func(u *models.User) string { return u.ID },
	}.build())
	b.edge(edgeSpec[models.Profile, models.MemberType]{
		name: "memberType", kind: ToOne, source: models.EntityProfile, target: models.EntityMemberType,
		keyType: KeyMemberType,
		lookup:  Lookup{Entity: models.EntityMemberType, Column: "id"},
		key:     func(p *models.Profile) string { return string(p.MemberTypeID) },
		group:   func(m *models.MemberType) string { return string(m.ID) },
	}.build())

	// One-to-one, owned by the user.
	b.edge(edgeSpec[models.User, models.Profile]{
		name: "profile", kind: ToOne, source: models.EntityUser, target: models.EntityProfile,
		nullable: true,
		keyType:  KeyUUID,
		lookup:   Lookup{Entity: models.EntityProfile, Column: "user_id"},
		key:      func(u *models.User) string { return u.ID },
		group:    func(p *models.Profile) string { return p.UserID },
	}.build())

	// One-to-many.
	b.edge(edgeSpec[models.User, models.Post]{
		name: "posts", kind: ToMany, source: models.EntityUser, target: models.EntityPost,
		keyType: KeyUUID,
		lookup:  Lookup{Entity: models.EntityPost, Column: "author_id"},
		key:     func(u *models.User) string { return u.ID },
		group:   func(p *models.Post) string { return p.AuthorID },
	}.build())
	b.edge(edgeSpec[models.MemberType, models.Profile]{
		name: "profiles", kind: ToMany, source: models.EntityMemberType, target: models.EntityProfile,
		keyType: KeyMemberType,
		lookup:  Lookup{Entity: models.EntityProfile, Column: "member_type_id"},
		key:     func(m *models.MemberType) string { return string(m.ID) },
		group:   func(p *models.Profile) string { return string(p.MemberTypeID) },
	}.build())

	// Self-referential many-to-many through subscriptions.
	b.edge(edgeSpec[models.User, models.Subscription]{
		name: "userSubscribedTo", kind: ToManyViaJoin, source: models.EntityUser, target: models.EntityUser,
		keyType: KeyUUID,
		lookup:  Lookup{Entity: models.EntitySubscription, Column: "subscriber_id", Preload: []string{"Author"}},
		key:     func(u *models.User) string { return u.ID },
		group:   func(s *models.Subscription) string { return s.SubscriberID },
		project: func(s *models.Subscription) any {
			if s.Author == nil {
				return nil
			}
			return s.Author
		},
	}.build())
	b.edge(edgeSpec[models.User, models.Subscription]{
		name: "subscribedToUser", kind: ToManyViaJoin, source: models.EntityUser, target: models.EntityUser,
		keyType: KeyUUID,
		lookup:  Lookup{Entity: models.EntitySubscription, Column: "author_id", Preload: []string{"Subscriber"}},
		key:     func(u *models.User) string { return u.ID },
		group:   func(s *models.Subscription) string { return s.AuthorID },
		project: func(s *models.Subscription) any {
			if s.Subscriber == nil {
				return nil
			}
			return s.Subscriber
		},
	}.build())

	return b.build()
}
