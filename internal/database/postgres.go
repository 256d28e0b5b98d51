package database

import (
	"fmt"
	"time"

	"gradpolls/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresConnection(user, password, host, port, dbname, sslmode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, password, dbname, port, sslmode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates the schema. The uniqueness invariants (one vote per user
// per poll, one upvote per pair, one follow edge per ordered pair, one
// community per university/program) live in the unique indexes declared on
// the models, so concurrent inserts are rejected by the store rather than
// by application pre-checks.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.FollowRequest{},
		&models.Poll{},
		&models.PollOption{},
		&models.Vote{},
		&models.PollUpvote{},
		&models.Comment{},
		&models.Community{},
		&models.CommunityMember{},
		&models.CommunityMessage{},
		&models.PinnedCommunity{},
		&models.DirectMessage{},
		&models.PinnedConversation{},
	)
}
