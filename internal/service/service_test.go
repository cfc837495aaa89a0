package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"buildnchill-server/internal/client"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would get its own empty :memory: database,
	// so concurrent tests must share the one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.Migrate(db))
	return db
}

// fakeDiscord records webhook calls so tests can assert on notification
// behavior without the network.
type fakeDiscord struct {
	nextID    string
	createErr error
	editErr   error
	deleteErr error

	created []client.Embed
	edited  []string
	deleted []string
}

func (f *fakeDiscord) CreateMessage(_ context.Context, _ string, embed *client.Embed) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if embed != nil {
		f.created = append(f.created, *embed)
	}
	id := f.nextID
	if id == "" {
		id = "1000"
	}
	return id, nil
}

func (f *fakeDiscord) EditMessage(_ context.Context, messageID, _ string, _ *client.Embed) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edited = append(f.edited, messageID)
	return nil
}

func (f *fakeDiscord) DeleteMessage(_ context.Context, messageID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, messageID)
	return nil
}
