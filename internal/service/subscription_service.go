package service

import (
	"context"
	"fmt"

	"socialgraph/internal/loader"
	"socialgraph/internal/models"
	"socialgraph/internal/registry"
	"socialgraph/internal/repository"
)

type SubscriptionService struct {
	subscriptions repository.Repository[models.Subscription]
	users         repository.Repository[models.User]
	source        loader.Source
	subscribedTo  *registry.Edge
}

func NewSubscriptionService(
	subscriptions repository.Repository[models.Subscription],
	users repository.Repository[models.User],
	source loader.Source,
	reg *registry.Registry,
) *SubscriptionService {
	edge, ok := reg.Edge(models.EntityUser + ".userSubscribedTo")
	if !ok {
		panic("registry has no User.userSubscribedTo edge")
	}
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		source:        source,
		subscribedTo:  edge,
	}
}

// SubscribeTo records that userID follows authorID and returns the subscriber.
func (s *SubscriptionService) SubscribeTo(ctx context.Context, userID, authorID string) (*models.User, error) {
	subscriber, err := requireUser(ctx, s.users, "userId", userID)
	if err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.users, "authorId", authorID); err != nil {
		return nil, err
	}

	existing, err := s.subscriptions.FindMany(ctx, repository.Filter{Column: "subscriber_id", Values: []string{userID}})
	if err != nil {
		return nil, err
	}
	for _, sub := range existing {
		if sub.AuthorID == authorID {
			return nil, models.NewConflictError(fmt.Sprintf("User %s is already subscribed to %s", userID, authorID))
		}
	}

	if err := s.subscriptions.Create(ctx, &models.Subscription{SubscriberID: userID, AuthorID: authorID}); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// UnsubscribeFrom removes the edge; a missing edge is a NotFound error.
func (s *SubscriptionService) UnsubscribeFrom(ctx context.Context, userID, authorID string) error {
	if err := models.ValidateUUID("userId", userID); err != nil {
		return err
	}
	if err := models.ValidateUUID("authorId", authorID); err != nil {
		return err
	}
	err := s.subscriptions.Delete(ctx, repository.Where{"subscriber_id": userID, "author_id": authorID})
	if models.IsNotFound(err) {
		return models.NewNotFoundError(models.EntitySubscription, userID+"->"+authorID)
	}
	return err
}

// SubscribedTo lists the authors userID subscribes to, fetched through the
// same batched edge the GraphQL engine resolves. An unknown user has none.
func (s *SubscriptionService) SubscribedTo(ctx context.Context, userID string) ([]*models.User, error) {
	if err := models.ValidateUUID("userId", userID); err != nil {
		return nil, err
	}

	l := loader.New(s.source)
	h := l.Load(s.subscribedTo, userID)
	l.Dispatch(ctx)

	rows, err := h.Many()
	if err != nil {
		return nil, err
	}
	authors := make([]*models.User, 0, len(rows))
	for _, row := range rows {
		if u, ok := row.(*models.User); ok {
			authors = append(authors, u)
		}
	}
	return authors, nil
}
