package service

import (
	"context"
	"strings"

	"socialgraph/internal/models"
	"socialgraph/internal/repository"
)

// CreatePostInput is the payload of createPost.
type CreatePostInput struct {
	Title    string `mapstructure:"title"`
	Content  string `mapstructure:"content"`
	AuthorID string `mapstructure:"authorId"`
}

// ChangePostInput is the payload of changePost.
type ChangePostInput struct {
	Title   *string `mapstructure:"title"`
	Content *string `mapstructure:"content"`
}

type PostService struct {
	posts repository.Repository[models.Post]
	users repository.Repository[models.User]
}

func NewPostService(posts repository.Repository[models.Post], users repository.Repository[models.User]) *PostService {
	return &PostService{posts: posts, users: users}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if _, err := requireUser(ctx, s.users, "authorId", in.AuthorID); err != nil {
		return nil, err
	}

	post := &models.Post{Title: in.Title, Content: in.Content, AuthorID: in.AuthorID}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ChangePost(ctx context.Context, id string, in ChangePostInput) (*models.Post, error) {
	if err := models.ValidateUUID("id", id); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		changes["title"] = *in.Title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content cannot be empty")
		}
		changes["content"] = *in.Content
	}
	return s.posts.Update(ctx, id, changes)
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := models.ValidateUUID("id", id); err != nil {
		return err
	}
	return s.posts.Delete(ctx, repository.Where{"id": id})
}
