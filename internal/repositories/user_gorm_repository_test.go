package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"userhub/internal/database"
	"userhub/internal/models"
	"userhub/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, user models.User) models.User {
	t.Helper()
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestGORMUserProvider_EmailCheck(t *testing.T) {
	db := setupDB(t)
	provider := repositories.NewGORMUserProvider(db)
	seedUser(t, db, models.User{Email: "a@x.com", Password: "h1", Nickname: "Al"})

	rows, err := provider.EmailCheck(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a@x.com", rows[0].Email)
	assert.Equal(t, "Al", rows[0].Nickname)

	rows, err = provider.EmailCheck(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGORMUserProvider_PasswordCheck(t *testing.T) {
	db := setupDB(t)
	provider := repositories.NewGORMUserProvider(db)
	seedUser(t, db, models.User{Email: "a@x.com", Password: "h1", Nickname: "Al"})

	rows, err := provider.PasswordCheck(context.Background(), "a@x.com", "h1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "h1", rows[0].Password)

	rows, err = provider.PasswordCheck(context.Background(), "a@x.com", "h2")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGORMUserProvider_AccountCheck(t *testing.T) {
	db := setupDB(t)
	provider := repositories.NewGORMUserProvider(db)
	active := seedUser(t, db, models.User{Email: "a@x.com", Password: "h1", Nickname: "Al"})
	seedUser(t, db, models.User{Email: "b@x.com", Password: "h2", Nickname: "Bo", Status: models.UserStatusInactive})

	rows, err := provider.AccountCheck(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, active.Idx, rows[0].Idx)
	assert.Equal(t, models.UserStatusActive, rows[0].Status, "status defaults to ACTIVE")

	rows, err = provider.AccountCheck(context.Background(), "b@x.com")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.UserStatusInactive, rows[0].Status)
}

func TestGORMUserProvider_RetrieveUser(t *testing.T) {
	db := setupDB(t)
	provider := repositories.NewGORMUserProvider(db)
	user := seedUser(t, db, models.User{Email: "a@x.com", Password: "h1", Nickname: "Al"})

	row, err := provider.RetrieveUser(context.Background(), user.Idx)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Al", row.Nickname)

	row, err = provider.RetrieveUser(context.Background(), user.Idx+100)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGORMUserDao_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	pool := database.NewGormPool(db)
	dao := repositories.NewGORMUserDao()
	ctx := context.Background()

	conn, err := pool.GetConnection(ctx)
	require.NoError(t, err)
	require.NoError(t, conn.BeginTransaction())
	idx, err := dao.InsertUserInfo(ctx, conn, repositories.InsertUserInfoParams{
		Email: "a@x.com", Password: "h1", Nickname: "Al",
	})
	require.NoError(t, err)
	assert.NotZero(t, idx)
	require.NoError(t, conn.Commit())
	require.NoError(t, conn.Release())

	conn, err = pool.GetConnection(ctx)
	require.NoError(t, err)
	require.NoError(t, dao.UpdateUserInfo(ctx, conn, idx, "Alfred"))
	require.NoError(t, conn.Release())

	var stored models.User
	require.NoError(t, db.First(&stored, "idx = ?", idx).Error)
	assert.Equal(t, "Alfred", stored.Nickname)
	assert.Equal(t, "h1", stored.Password)
	assert.Equal(t, models.UserStatusActive, stored.Status)
}

func TestGORMUserDao_UpdateUnknownIdx(t *testing.T) {
	db := setupDB(t)
	pool := database.NewGormPool(db)
	dao := repositories.NewGORMUserDao()

	conn, err := pool.GetConnection(context.Background())
	require.NoError(t, err)
	defer conn.Release()

	assert.NoError(t, dao.UpdateUserInfo(context.Background(), conn, 42, "ghost"))
}

func TestGORMUserDao_InsertError(t *testing.T) {
	db := setupDB(t)
	pool := database.NewGormPool(db)
	dao := repositories.NewGORMUserDao()

	conn, err := pool.GetConnection(context.Background())
	require.NoError(t, err)
	defer conn.Release()
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	_, err = dao.InsertUserInfo(context.Background(), conn, repositories.InsertUserInfoParams{Email: "a@x.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create user")
}
