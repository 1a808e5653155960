package service

import (
	"context"
	"time"

	"socialgraph/internal/cache"
	"socialgraph/internal/models"
	"socialgraph/internal/repository"

	"github.com/redis/go-redis/v9"
)

const memberTypesCacheKey = "socialgraph:member-types"

// MemberTypeService serves the read-only member type catalogue.
type MemberTypeService struct {
	memberTypes repository.Repository[models.MemberType]
	rdb         *redis.Client
	ttl         time.Duration
}

// NewMemberTypeService caches the catalogue in rdb for ttl; rdb may be nil.
func NewMemberTypeService(memberTypes repository.Repository[models.MemberType], rdb *redis.Client, ttl time.Duration) *MemberTypeService {
	return &MemberTypeService{memberTypes: memberTypes, rdb: rdb, ttl: ttl}
}

func (s *MemberTypeService) ListMemberTypes(ctx context.Context) ([]*models.MemberType, error) {
	return cache.Remember(ctx, s.rdb, memberTypesCacheKey, s.ttl, func(ctx context.Context) ([]*models.MemberType, error) {
		return s.memberTypes.FindMany(ctx, repository.Filter{})
	})
}

func (s *MemberTypeService) GetMemberType(ctx context.Context, rawID string) (*models.MemberType, error) {
	id, err := models.ParseMemberTypeID(rawID)
	if err != nil {
		return nil, err
	}
	mt, err := s.memberTypes.FindOne(ctx, string(id))
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, models.NewNotFoundError(models.EntityMemberType, id)
	}
	return mt, nil
}
