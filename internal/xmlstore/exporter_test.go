package xmlstore

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/japhet-mokoumbou/chat-platform/internal/models"
	"github.com/japhet-mokoumbou/chat-platform/internal/storage"
	"github.com/japhet-mokoumbou/chat-platform/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	return db
}

func TestExportNowUsers(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	exporter := NewExporter(db, dir, nil, zap.NewNop())

	require.NoError(t, db.Create(&models.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "secret",
		Theme: "light", CreatedAt: time.Now(),
	}).Error)

	require.NoError(t, exporter.ExportNow(TableUsers))

	data, err := os.ReadFile(filepath.Join(dir, "users.xml"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "<items>")
	assert.Contains(t, content, "<user>")
	assert.Contains(t, content, "<username>alice</username>")
	// The password hash never leaves the database.
	assert.NotContains(t, content, "secret")
}

func TestExportNowGroupsIncludeMembers(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	exporter := NewExporter(db, dir, nil, zap.NewNop())

	group := &models.Group{Name: "team", CreatorID: 1, CreatedAt: time.Now()}
	require.NoError(t, db.Create(group).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, UserID: 1, JoinedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, UserID: 2, JoinedAt: time.Now()}).Error)

	require.NoError(t, exporter.ExportNow(TableGroups))

	data, err := os.ReadFile(filepath.Join(dir, "groups.xml"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "<group>")
	assert.Equal(t, 2, strings.Count(content, "<memberId>"))
}

func TestExportedDocumentIsWellFormed(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	exporter := NewExporter(db, dir, nil, zap.NewNop())

	now := time.Now()
	receiver := uint(2)
	require.NoError(t, db.Create(&models.Message{
		SenderID: 1, ReceiverID: &receiver, Content: "hi", Type: models.MessageTypeText, SentAt: now,
	}).Error)

	require.NoError(t, exporter.ExportNow(TableMessages))

	data, err := os.ReadFile(filepath.Join(dir, "messages.xml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))

	var doc struct {
		XMLName xml.Name `xml:"items"`
		Items   []struct {
			Content string `xml:"content"`
		} `xml:"message"`
	}
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "hi", doc.Items[0].Content)
}

func TestNotifyWritesAsynchronously(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()

	pool := utils.NewWorkerPool(1, 4)
	pool.Start()
	defer pool.Stop()

	exporter := NewExporter(db, dir, pool, zap.NewNop())

	require.NoError(t, db.Create(&models.Contact{UserID: 1, ContactUserID: 2, AddedAt: time.Now()}).Error)
	exporter.Notify(TableContacts)

	path := filepath.Join(dir, "contacts.xml")
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	contacts, err := LoadContacts(dir)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, uint(2), contacts[0].ContactUserID)
}

func TestNotifyOnNilExporter(t *testing.T) {
	var exporter *Exporter
	// Services share this code path when the mirror is disabled.
	exporter.Notify(TableUsers)
}
