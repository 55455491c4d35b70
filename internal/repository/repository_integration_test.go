//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"localchat/internal/model"
)

// openTestDB connects to the MySQL instance named by TEST_MYSQL_DSN and
// migrates a fresh schema. Run with:
//
//	TEST_MYSQL_DSN="root:@tcp(127.0.0.1:3306)/localchat_test?parseTime=true" go test -tags integration ./internal/repository/
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(
		&model.User{}, &model.Conversation{}, &model.Message{}, &model.Document{}, &model.Chunk{},
	))
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Conversation{}, &model.Message{}, &model.Document{}, &model.Chunk{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	repo := NewUserRepository(db)
	user := &model.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(user))
	return user
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, db, "alice")
	require.NotZero(t, user.ID)

	found, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByUsername("nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.SetAdmin(user.ID, true))
	found, err = repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.True(t, found.IsAdmin)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConversationRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewConversationRepository(db)
	user := createTestUser(t, db, "bob")

	first := &model.Conversation{UserID: user.ID, Title: "first", Model: "llama2"}
	require.NoError(t, repo.Create(first))
	second := &model.Conversation{UserID: user.ID, Title: "second", Model: "llama2"}
	require.NoError(t, repo.Create(second))

	// Touching the older conversation moves it to the front of the listing.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Touch(first.ID))

	listed, err := repo.ListByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)

	other := createTestUser(t, db, "carol")
	got, err := repo.GetByIDAndUserID(first.ID, other.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "ownership scoping")

	require.NoError(t, repo.UpdateTitle(first.ID, user.ID, "renamed"))
	got, err = repo.GetByIDAndUserID(first.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	msgRepo := NewMessageRepository(db)
	require.NoError(t, msgRepo.Create(&model.Message{UserID: user.ID, ConversationID: &first.ID, Content: "hi"}))

	require.NoError(t, repo.DeleteByIDAndUserID(first.ID, user.ID))
	got, err = repo.GetByIDAndUserID(first.ID, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	remaining, err := msgRepo.ListByUserID(user.ID, &first.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "conversation delete cascades to messages")
}

func TestMessageRepositoryOrderAndScope(t *testing.T) {
	db := openTestDB(t)
	repo := NewMessageRepository(db)
	convRepo := NewConversationRepository(db)
	user := createTestUser(t, db, "dave")

	conv := &model.Conversation{UserID: user.ID, Title: "t", Model: "llama2"}
	require.NoError(t, convRepo.Create(conv))

	now := time.Now()
	require.NoError(t, repo.Create(&model.Message{UserID: user.ID, ConversationID: &conv.ID, Content: "one", CreatedAt: now}))
	require.NoError(t, repo.Create(&model.Message{UserID: user.ID, ConversationID: &conv.ID, Content: "two", CreatedAt: now}))
	require.NoError(t, repo.Create(&model.Message{UserID: user.ID, Content: "unscoped", CreatedAt: now}))

	scoped, err := repo.ListByUserID(user.ID, &conv.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
	assert.Equal(t, "one", scoped[0].Content)
	assert.Equal(t, "two", scoped[1].Content)

	all, err := repo.ListByUserID(user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDocumentRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewDocumentRepository(db)
	user := createTestUser(t, db, "erin")

	doc := &model.Document{ID: uuid.NewString(), UserID: user.ID, Filename: "notes.txt", FileType: ".txt", Size: 10}
	chunks := []model.Chunk{
		{DocumentID: doc.ID, UserID: user.ID, Filename: "notes.txt", Position: 0, Content: "alpha"},
		{DocumentID: doc.ID, UserID: user.ID, Filename: "notes.txt", Position: 1, Content: "beta"},
	}
	require.NoError(t, repo.CreateWithChunks(doc, chunks))

	listed, err := repo.ListByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	stored, err := repo.ListChunksByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 0, stored[0].Position)
	assert.Equal(t, 1, stored[1].Position)

	other := createTestUser(t, db, "frank")
	deleted, err := repo.DeleteByIDAndUserID(doc.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "cross-tenant delete must not remove anything")

	deleted, err = repo.DeleteByIDAndUserID(doc.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	stored, err = repo.ListChunksByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored, "document delete removes its chunks")

	deleted, err = repo.DeleteByIDAndUserID(doc.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete is a no-op")
}
