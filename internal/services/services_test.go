package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/repositories"
	"github.com/japhet-mokoumbou/chat-platform/internal/storage"
	pkgutils "github.com/japhet-mokoumbou/chat-platform/pkg/utils"
)

// newTestDB opens an in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:             username,
		Email:                fmt.Sprintf("%s@example.com", username),
		PasswordHash:         "irrelevant",
		NotificationsEnabled: true,
		Theme:                "light",
		CreatedAt:            time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repositories.NewUserRepository(db), pkgutils.NewTokenManager("test-secret", 24), nil)
}

func newContactService(db *gorm.DB) *ContactService {
	return NewContactService(repositories.NewContactRepository(db), repositories.NewUserRepository(db), nil)
}

func newGroupService(db *gorm.DB) *GroupService {
	return NewGroupService(repositories.NewGroupRepository(db), repositories.NewUserRepository(db), nil)
}

func newMessageService(db *gorm.DB) *MessageService {
	return NewMessageService(
		repositories.NewMessageRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewGroupRepository(db),
		nil,
	)
}
