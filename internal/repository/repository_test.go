package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"socialgraph/internal/models"
	"socialgraph/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestFindOne_AbsentReturnsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := NewGateway(db)

	u, err := gw.Users.FindOne(context.Background(), "0b9c6d0e-8f2a-4a4e-9a43-6f8b2f1c9d11")
	require.NoError(t, err)
	assert.Nil(t, u)

	rec, err := gw.FindOne(context.Background(), models.EntityUser, "0b9c6d0e-8f2a-4a4e-9a43-6f8b2f1c9d11")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFindMany_FilterAndPreload(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := NewGateway(db, WithMaxInClause(2))
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", 10)
	bob := testutil.CreateUser(t, db, "bob", 20)
	carol := testutil.CreateUser(t, db, "carol", 30)
	testutil.CreatePost(t, db, alice.ID, "a1")
	testutil.CreatePost(t, db, alice.ID, "a2")
	testutil.CreatePost(t, db, bob.ID, "b1")
	testutil.CreatePost(t, db, carol.ID, "c1")

	posts, err := gw.Posts.FindMany(ctx, Filter{Column: "author_id", Values: []string{alice.ID, bob.ID, carol.ID}})
	require.NoError(t, err)
	assert.Len(t, posts, 4)

	none, err := gw.Posts.FindMany(ctx, Filter{Column: "author_id"})
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := gw.FindMany(ctx, models.EntityUser, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	testutil.Subscribe(t, db, alice.ID, bob.ID)
	subs, err := gw.Subscriptions.FindMany(ctx, Filter{Column: "subscriber_id", Values: []string{alice.ID}, Preload: []string{"Author"}})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NotNil(t, subs[0].Author)
	assert.Equal(t, "bob", subs[0].Author.Name)
}

func TestFindMany_UnknownEntity(t *testing.T) {
	gw := NewGateway(testutil.NewTestDB(t))
	_, err := gw.FindMany(context.Background(), "Comment", Filter{})
	assert.Error(t, err)
}

func TestFindMany_SingleInQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	gw := NewGateway(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE author_id IN ($1,$2)`)).
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "author_id"}).
			AddRow("p1", "t1", "c1", "u1").
			AddRow("p2", "t2", "c2", "u2"))

	rows, err := gw.FindMany(context.Background(), models.EntityPost, Filter{Column: "author_id", Values: []string{"u1", "u2"}})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMany_ChunksInClause(t *testing.T) {
	db, mock := setupMockDB(t)
	gw := NewGateway(db, WithMaxInClause(2))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id IN ($1,$2)`)).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("a", "A").AddRow("b", "B"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id IN ($1)`)).
		WithArgs("c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c", "C"))

	rows, err := gw.FindMany(context.Background(), models.EntityUser, Filter{Column: "id", Values: []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMany_QueryErrorIsUpstream(t *testing.T) {
	db, mock := setupMockDB(t)
	gw := NewGateway(db)

	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(errors.New("connection reset"))

	_, err := gw.FindMany(context.Background(), models.EntityUser, Filter{Column: "id", Values: []string{"a"}})
	require.Error(t, err)
	assert.Equal(t, models.CodeUpstream, models.ErrorCode(err))
}

func TestUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "alice", 10)

	updated, err := gw.Users.Update(ctx, u.ID, map[string]any{"balance": 42.5})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)
	assert.Equal(t, 42.5, updated.Balance)

	unchanged, err := gw.Users.Update(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 42.5, unchanged.Balance)

	_, err = gw.Users.Update(ctx, "0b9c6d0e-8f2a-4a4e-9a43-6f8b2f1c9d11", map[string]any{"name": "x"})
	assert.True(t, models.IsNotFound(err))
}

func TestDelete_UserCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", 0)
	bob := testutil.CreateUser(t, db, "bob", 0)
	testutil.CreateProfile(t, db, alice.ID, models.MemberTypeBasic)
	testutil.CreatePost(t, db, alice.ID, "hello")
	testutil.CreatePost(t, db, bob.ID, "kept")
	testutil.Subscribe(t, db, alice.ID, bob.ID)
	testutil.Subscribe(t, db, bob.ID, alice.ID)

	require.NoError(t, gw.Users.Delete(ctx, Where{"id": alice.ID}))

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	err := gw.Users.Delete(ctx, Where{"id": alice.ID})
	assert.True(t, models.IsNotFound(err))
}

func TestDelete_MissingParentRollsBackNothing(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := NewGateway(db)

	err := gw.Users.Delete(context.Background(), Where{"id": "0b9c6d0e-8f2a-4a4e-9a43-6f8b2f1c9d11"})
	assert.True(t, models.IsNotFound(err))

	err = gw.Users.Delete(context.Background(), Where{})
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
}

func TestDelete_CompoundKey(t *testing.T) {
	db := testutil.NewTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice", 0)
	bob := testutil.CreateUser(t, db, "bob", 0)
	testutil.Subscribe(t, db, alice.ID, bob.ID)

	where := Where{"subscriber_id": alice.ID, "author_id": bob.ID}
	require.NoError(t, gw.Subscriptions.Delete(ctx, where))
	assert.True(t, models.IsNotFound(gw.Subscriptions.Delete(ctx, where)))
}

func TestTranslate(t *testing.T) {
	tbl := newTable[models.Profile](nil, models.EntityProfile, "profiles", 0)
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"gorm duplicate", gorm.ErrDuplicatedKey, models.CodeConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, models.CodeValidation},
		{"pg unique", &pgconn.PgError{Code: "23505"}, models.CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, models.CodeValidation},
		{"app error passthrough", models.NewNotFoundError("Profile", "x"), models.CodeNotFound},
		{"other", errors.New("boom"), models.CodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, models.ErrorCode(tbl.translate(ctx, "create", tt.err)))
		})
	}
}

func TestChunkValues(t *testing.T) {
	assert.Nil(t, chunkValues(nil, 3))
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, chunkValues([]string{"a", "b", "c"}, 2))
	assert.Equal(t, [][]string{{"a", "b"}}, chunkValues([]string{"a", "b"}, 5))
}
