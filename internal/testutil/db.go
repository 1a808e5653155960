// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"socialgraph/internal/database"
	"socialgraph/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database with the member type
// catalogue seeded.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a distinct database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(context.Background(), db))
	require.NoError(t, database.SeedMemberTypes(context.Background(), db))
	return db
}

// CreateUser inserts a user row.
func CreateUser(t *testing.T, db *gorm.DB, name string, balance float64) *models.User {
	t.Helper()
	u := &models.User{Name: name, Balance: balance}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateProfile inserts a profile row for userID.
func CreateProfile(t *testing.T, db *gorm.DB, userID string, memberType models.MemberTypeID) *models.Profile {
	t.Helper()
	p := &models.Profile{IsMale: true, YearOfBirth: 1990, UserID: userID, MemberTypeID: memberType}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreatePost inserts a post row authored by authorID.
func CreatePost(t *testing.T, db *gorm.DB, authorID, title string) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: title + " content", AuthorID: authorID}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Subscribe inserts a subscription from subscriberID to authorID.
func Subscribe(t *testing.T, db *gorm.DB, subscriberID, authorID string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Subscription{SubscriberID: subscriberID, AuthorID: authorID}).Error)
}
