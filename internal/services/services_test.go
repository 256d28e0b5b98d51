package services

import (
	"testing"

	"gradpolls/internal/database"
	"gradpolls/internal/models"
	"gradpolls/internal/repositories/postgres"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema.
// TranslateError makes sqlite unique violations surface as
// gorm.ErrDuplicatedKey, the same way the postgres driver reports them.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, private bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		Username:  username,
		Email:     username + "@test.dev",
		Password:  string(hashed),
		IsPrivate: private,
	}
	require.NoError(t, postgres.NewUserRepository(db).Create(user))
	// gorm omits zero-valued fields carrying a `default` tag on Create, so a
	// false IsPrivate would silently persist as the column default (true).
	require.NoError(t, db.Model(user).Update("is_private", private).Error)
	return user
}
