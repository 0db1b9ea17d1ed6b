package db

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *GormDB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))
	return &GormDB{DB: gdb}
}

func seedUser(t *testing.T, gdb *GormDB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:           name,
		Email:          fmt.Sprintf("%s@example.com", name),
		HashedPassword: "irrelevant",
	}
	require.NoError(t, gdb.DB.Create(user).Error)
	return user
}
