package models

import "time"

// Subscription is the join entity for the directed subscriber -> author relation.
// The compound primary key makes each (subscriber, author) pair unique.
type Subscription struct {
	SubscriberID string    `gorm:"type:uuid;primaryKey" json:"subscriberId"`
	AuthorID     string    `gorm:"type:uuid;primaryKey;index" json:"authorId"`
	CreatedAt    time.Time `json:"-"`

	// Populated only when preloaded through a relationship edge.
	Subscriber *User `gorm:"foreignKey:SubscriberID" json:"-"`
	Author     *User `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}
