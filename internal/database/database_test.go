package database

import (
	"context"
	"testing"

	"socialgraph/internal/config"
	"socialgraph/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: config.DriverSQLite, DBSQLitePath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: config.DriverPostgres, DBHost: "db", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	cfg := &config.Config{
		DBDriver:       config.DriverPostgres,
		DBMaxOpenConns: 10,
		DBMaxIdleConns: 5,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)

	cfg.DBDriver = config.DriverSQLite
	require.NoError(t, configurePool(db, cfg))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestApplySchema_AutoAndSeedIdempotent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, ApplySchema(ctx, db, &config.Config{DBSchemaMode: config.SchemaModeAuto}))
	for _, model := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(model))
	}

	require.NoError(t, SeedMemberTypes(ctx, db))
	require.NoError(t, SeedMemberTypes(ctx, db))

	var rows []models.MemberType
	require.NoError(t, db.Order("id").Find(&rows).Error)
	assert.Equal(t, models.DefaultMemberTypes(), rows)
}

func TestApplySchema_UnknownMode(t *testing.T) {
	db := openSQLite(t)
	err := ApplySchema(context.Background(), db, &config.Config{DBSchemaMode: "hybrid"})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	assert.NoError(t, Ping(context.Background(), db))
}
