package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"socialgraph/internal/models"
	"socialgraph/internal/registry"
	"socialgraph/internal/repository"
	"socialgraph/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const missingID = "0b9c6d0e-8f2a-4a4e-9a43-6f8b2f1c9d11"

type services struct {
	db            *gorm.DB
	gw            *repository.Gateway
	users         *UserService
	posts         *PostService
	profiles      *ProfileService
	subscriptions *SubscriptionService
}

func setupServices(t *testing.T) services {
	t.Helper()
	db := testutil.NewTestDB(t)
	gw := repository.NewGateway(db)
	return services{
		db:            db,
		gw:            gw,
		users:         NewUserService(gw.Users),
		posts:         NewPostService(gw.Posts, gw.Users),
		profiles:      NewProfileService(gw.Profiles, gw.Users),
		subscriptions: NewSubscriptionService(gw.Subscriptions, gw.Users, gw, registry.New()),
	}
}

func ptr[T any](v T) *T { return &v }

func TestUserService_CreateChangeDelete(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.users.CreateUser(ctx, CreateUserInput{Name: "  "})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	u, err := s.users.CreateUser(ctx, CreateUserInput{Name: "alice", Balance: 12.5})
	require.NoError(t, err)
	assert.Len(t, u.ID, models.UUIDLength)

	fetched, err := s.gw.Users.FindOne(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", fetched.Name)
	assert.Equal(t, 12.5, fetched.Balance)

	changed, err := s.users.ChangeUser(ctx, u.ID, ChangeUserInput{Balance: ptr(99.0)})
	require.NoError(t, err)
	assert.Equal(t, "alice", changed.Name)
	assert.Equal(t, 99.0, changed.Balance)

	_, err = s.users.ChangeUser(ctx, u.ID, ChangeUserInput{Name: ptr("")})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = s.users.ChangeUser(ctx, "not-a-uuid", ChangeUserInput{})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	require.NoError(t, s.users.DeleteUser(ctx, u.ID))
	assert.True(t, models.IsNotFound(s.users.DeleteUser(ctx, u.ID)))
}

func TestPostService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()

	_, err := s.posts.CreatePost(ctx, CreatePostInput{Title: "t", Content: "c", AuthorID: missingID})
	assert.True(t, models.IsNotFound(err))

	_, err = s.posts.CreatePost(ctx, CreatePostInput{Title: "", Content: "c", AuthorID: missingID})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	author := testutil.CreateUser(t, s.db, "alice", 0)
	p, err := s.posts.CreatePost(ctx, CreatePostInput{Title: "hello", Content: "world", AuthorID: author.ID})
	require.NoError(t, err)

	changed, err := s.posts.ChangePost(ctx, p.ID, ChangePostInput{Title: ptr("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hi", changed.Title)
	assert.Equal(t, "world", changed.Content)

	_, err = s.posts.ChangePost(ctx, missingID, ChangePostInput{Title: ptr("x")})
	assert.True(t, models.IsNotFound(err))

	require.NoError(t, s.posts.DeletePost(ctx, p.ID))
	assert.True(t, models.IsNotFound(s.posts.DeletePost(ctx, p.ID)))
}

func TestProfileService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, s.db, "alice", 0)

	_, err := s.profiles.CreateProfile(ctx, CreateProfileInput{UserID: user.ID, MemberTypeID: "GOLD"})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = s.profiles.CreateProfile(ctx, CreateProfileInput{UserID: missingID, MemberTypeID: models.MemberTypeBasic})
	assert.True(t, models.IsNotFound(err))

	p, err := s.profiles.CreateProfile(ctx, CreateProfileInput{
		IsMale: true, YearOfBirth: 1988, UserID: user.ID, MemberTypeID: models.MemberTypeBasic,
	})
	require.NoError(t, err)

	_, err = s.profiles.CreateProfile(ctx, CreateProfileInput{UserID: user.ID, MemberTypeID: models.MemberTypeBusiness})
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	business := models.MemberTypeBusiness
	changed, err := s.profiles.ChangeProfile(ctx, p.ID, ChangeProfileInput{MemberTypeID: &business, YearOfBirth: ptr(1990)})
	require.NoError(t, err)
	assert.Equal(t, models.MemberTypeBusiness, changed.MemberTypeID)
	assert.Equal(t, 1990, changed.YearOfBirth)
	assert.True(t, changed.IsMale)

	bogus := models.MemberTypeID("BOGUS")
	_, err = s.profiles.ChangeProfile(ctx, p.ID, ChangeProfileInput{MemberTypeID: &bogus})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	require.NoError(t, s.profiles.DeleteProfile(ctx, p.ID))
	assert.True(t, models.IsNotFound(s.profiles.DeleteProfile(ctx, p.ID)))
}

func TestSubscriptionService(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, s.db, "alice", 0)
	bob := testutil.CreateUser(t, s.db, "bob", 0)
	carol := testutil.CreateUser(t, s.db, "carol", 0)

	_, err := s.subscriptions.SubscribeTo(ctx, alice.ID, missingID)
	assert.True(t, models.IsNotFound(err))

	subscriber, err := s.subscriptions.SubscribeTo(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, subscriber.ID)

	_, err = s.subscriptions.SubscribeTo(ctx, alice.ID, bob.ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	_, err = s.subscriptions.SubscribeTo(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	authors, err := s.subscriptions.SubscribedTo(ctx, alice.ID)
	require.NoError(t, err)
	names := []string{}
	for _, a := range authors {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)

	none, err := s.subscriptions.SubscribedTo(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	none, err = s.subscriptions.SubscribedTo(ctx, missingID)
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.subscriptions.UnsubscribeFrom(ctx, alice.ID, bob.ID))
	err = s.subscriptions.UnsubscribeFrom(ctx, alice.ID, bob.ID)
	assert.True(t, models.IsNotFound(err))
	assert.Contains(t, err.Error(), models.EntitySubscription)

	assert.Equal(t, models.CodeValidation, models.ErrorCode(s.subscriptions.UnsubscribeFrom(ctx, "x", bob.ID)))
}

// userRepoStub is a stub for repository.Repository[models.User].
type userRepoStub struct {
	findOneFn func(context.Context, string) (*models.User, error)
	createFn  func(context.Context, *models.User) error
}

func (s *userRepoStub) FindOne(ctx context.Context, key string) (*models.User, error) {
	return s.findOneFn(ctx, key)
}
func (s *userRepoStub) FindMany(context.Context, repository.Filter) ([]*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) Update(context.Context, string, map[string]any) (*models.User, error) {
	return nil, nil
}
func (s *userRepoStub) Delete(context.Context, repository.Where) error {
	return nil
}

func TestUpstreamErrorsPropagate(t *testing.T) {
	upstream := models.NewUpstreamError(errors.New("db down"))
	users := &userRepoStub{
		findOneFn: func(context.Context, string) (*models.User, error) { return nil, upstream },
		createFn:  func(context.Context, *models.User) error { return upstream },
	}

	_, err := NewUserService(users).CreateUser(context.Background(), CreateUserInput{Name: "alice"})
	assert.Equal(t, models.CodeUpstream, models.ErrorCode(err))

	_, err = NewPostService(nil, users).CreatePost(context.Background(), CreatePostInput{
		Title: "t", Content: "c", AuthorID: missingID,
	})
	assert.Equal(t, models.CodeUpstream, models.ErrorCode(err))
}

func TestMemberTypeService(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := repository.NewGateway(db)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svc := NewMemberTypeService(gw.MemberTypes, rdb, time.Minute)
	ctx := context.Background()

	list, err := svc.ListMemberTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, mr.Exists(memberTypesCacheKey))

	cached, err := svc.ListMemberTypes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, list, cached)

	mt, err := svc.GetMemberType(ctx, "BUSINESS")
	require.NoError(t, err)
	assert.Equal(t, 7.7, mt.Discount)
	assert.Equal(t, 100, mt.PostsLimitPerMonth)

	_, err = svc.GetMemberType(ctx, "basic")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	require.NoError(t, db.Delete(&models.MemberType{}, "id = ?", "BASIC").Error)
	_, err = svc.GetMemberType(ctx, "BASIC")
	assert.True(t, models.IsNotFound(err))
}
