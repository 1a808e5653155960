// Package service implements the write operations of the social graph and the
// existence and uniqueness rules that guard them.
package service

import (
	"context"
	"strings"

	"socialgraph/internal/models"
	"socialgraph/internal/repository"
)

// CreateUserInput is the payload of createUser.
type CreateUserInput struct {
	Name    string  `mapstructure:"name"`
	Balance float64 `mapstructure:"balance"`
}

// ChangeUserInput is the payload of changeUser. Nil fields are left unchanged.
type ChangeUserInput struct {
	Name    *string  `mapstructure:"name"`
	Balance *float64 `mapstructure:"balance"`
}

type UserService struct {
	users repository.Repository[models.User]
}

func NewUserService(users repository.Repository[models.User]) *UserService {
	return &UserService{users: users}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, models.NewValidationError("Name is required")
	}

	user := &models.User{Name: in.Name, Balance: in.Balance}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangeUser(ctx context.Context, id string, in ChangeUserInput) (*models.User, error) {
	if err := models.ValidateUUID("id", id); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		changes["name"] = *in.Name
	}
	if in.Balance != nil {
		changes["balance"] = *in.Balance
	}
	return s.users.Update(ctx, id, changes)
}

// DeleteUser removes the user together with its profile, posts and
// subscription edges.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := models.ValidateUUID("id", id); err != nil {
		return err
	}
	return s.users.Delete(ctx, repository.Where{"id": id})
}

// requireUser returns a NotFound error naming field when id has no user row.
func requireUser(ctx context.Context, users repository.Repository[models.User], field, id string) (*models.User, error) {
	if err := models.ValidateUUID(field, id); err != nil {
		return nil, err
	}
	user, err := users.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError(models.EntityUser, id)
	}
	return user, nil
}
