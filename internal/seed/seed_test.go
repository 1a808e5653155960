package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"socialgraph/internal/models"
	"socialgraph/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYAML = `
users:
  - name: alice
    balance: 120.5
    memberType: BUSINESS
    yearOfBirth: 1985
    posts:
      - title: Hello
        content: First post
      - title: Again
        content: Second post
    subscribesTo: [bob]
  - name: bob
    balance: 3
    subscribesTo: [alice]
`

func TestParseFixture(t *testing.T) {
	f, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	require.Len(t, f.Users, 2)
	assert.Equal(t, "BUSINESS", f.Users[0].MemberType)
	assert.Len(t, f.Users[0].Posts, 2)

	tests := map[string]string{
		"unknown author":     "users:\n  - name: a\n    subscribesTo: [zed]\n",
		"duplicate name":     "users:\n  - name: a\n  - name: a\n",
		"bad member type":    "users:\n  - name: a\n    memberType: GOLD\n",
		"missing name":       "users:\n  - balance: 1\n",
		"malformed document": "users: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFixture([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixtureAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))

	f, err := LoadFixture(path)
	require.NoError(t, err)

	db := testutil.NewTestDB(t)
	summary, err := NewSeeder(db).ApplyFixture(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 2, Profiles: 1, Posts: 2, Subscriptions: 2}, summary)

	var alice models.User
	require.NoError(t, db.Where("name = ?", "alice").First(&alice).Error)
	var profile models.Profile
	require.NoError(t, db.Where("user_id = ?", alice.ID).First(&profile).Error)
	assert.Equal(t, models.MemberTypeBusiness, profile.MemberTypeID)
	assert.Equal(t, 1985, profile.YearOfBirth)
}

func TestSeedSocialMeshAndClear(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	summary, err := s.SeedSocialMesh(ctx, Options{NumUsers: 6, PostsPerUser: 2, SubscriptionsPer: 3, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 6, Profiles: 6, Posts: 12, Subscriptions: 18}, summary)

	var selfEdges int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("subscriber_id = author_id").Count(&selfEdges).Error)
	assert.Zero(t, selfEdges)

	require.NoError(t, s.ClearAll(ctx))
	for _, model := range []interface{}{&models.User{}, &models.Profile{}, &models.Post{}, &models.Subscription{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}

	var memberTypes int64
	require.NoError(t, db.Model(&models.MemberType{}).Count(&memberTypes).Error)
	assert.Equal(t, int64(2), memberTypes)
}

func TestSeedSocialMesh_SmallGraphs(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db)

	summary, err := s.SeedSocialMesh(context.Background(), Options{NumUsers: 0})
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)

	summary, err = s.SeedSocialMesh(context.Background(), Options{NumUsers: 2, SubscriptionsPer: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Subscriptions)
}
