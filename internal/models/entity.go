package models

// Entity names used by the registry, the storage gateway and the GraphQL schema.
const (
	EntityUser         = "User"
	EntityProfile      = "Profile"
	EntityPost         = "Post"
	EntityMemberType   = "MemberType"
	EntitySubscription = "Subscription"
)
