package service

import (
	"context"
	"fmt"

	"socialgraph/internal/models"
	"socialgraph/internal/repository"
)

// CreateProfileInput is the payload of createProfile.
type CreateProfileInput struct {
	IsMale       bool                `mapstructure:"isMale"`
	YearOfBirth  int                 `mapstructure:"yearOfBirth"`
	UserID       string              `mapstructure:"userId"`
	MemberTypeID models.MemberTypeID `mapstructure:"memberTypeId"`
}

// ChangeProfileInput is the payload of changeProfile.
type ChangeProfileInput struct {
	IsMale       *bool                `mapstructure:"isMale"`
	YearOfBirth  *int                 `mapstructure:"yearOfBirth"`
	MemberTypeID *models.MemberTypeID `mapstructure:"memberTypeId"`
}

type ProfileService struct {
	profiles repository.Repository[models.Profile]
	users    repository.Repository[models.User]
}

func NewProfileService(profiles repository.Repository[models.Profile], users repository.Repository[models.User]) *ProfileService {
	return &ProfileService{profiles: profiles, users: users}
}

func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*models.Profile, error) {
	if _, err := models.ParseMemberTypeID(string(in.MemberTypeID)); err != nil {
		return nil, err
	}
	if _, err := requireUser(ctx, s.users, "userId", in.UserID); err != nil {
		return nil, err
	}

	existing, err := s.profiles.FindMany(ctx, repository.Filter{Column: "user_id", Values: []string{in.UserID}})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, models.NewConflictError(fmt.Sprintf("User %s already has a profile", in.UserID))
	}

	profile := &models.Profile{
		IsMale:       in.IsMale,
		YearOfBirth:  in.YearOfBirth,
		UserID:       in.UserID,
		MemberTypeID: in.MemberTypeID,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) ChangeProfile(ctx context.Context, id string, in ChangeProfileInput) (*models.Profile, error) {
	if err := models.ValidateUUID("id", id); err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if in.IsMale != nil {
		changes["is_male"] = *in.IsMale
	}
	if in.YearOfBirth != nil {
		changes["year_of_birth"] = *in.YearOfBirth
	}
	if in.MemberTypeID != nil {
		memberType, err := models.ParseMemberTypeID(string(*in.MemberTypeID))
		if err != nil {
			return nil, err
		}
		changes["member_type_id"] = string(memberType)
	}
	return s.profiles.Update(ctx, id, changes)
}

func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	if err := models.ValidateUUID("id", id); err != nil {
		return err
	}
	return s.profiles.Delete(ctx, repository.Where{"id": id})
}
