package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the services over a fresh in-memory database.
type testEnv struct {
	authRepo     db.AuthRepository
	convRepo     db.ConversationRepository
	msgRepo      db.MessageRepository
	conf         *config.Config
	gdb          *db.GormDB
	authService  AuthService
	convService  ConversationService
	msgService   MessageService
	mailer       *stubMailer
}

type stubMailer struct {
	welcomeSent []string
	resetLinks  []string
}

func (m *stubMailer) SendWelcomeMessage(recipient string, subject string) (string, error) {
	m.welcomeSent = append(m.welcomeSent, recipient)
	return "stub-id", nil
}

func (m *stubMailer) SendResetPasswordMail(recipient string, resetLink string) (string, error) {
	m.resetLinks = append(m.resetLinks, resetLink)
	return "stub-id", nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	gdb := &db.GormDB{DB: gormDB}
	conf := &config.Config{JWTSecret: "test-secret", BaseUrl: "http://localhost:3000"}
	mailer := &stubMailer{}

	env := &testEnv{
		authRepo: db.NewAuthRepo(gdb),
		convRepo: db.NewConversationRepo(gdb),
		msgRepo:  db.NewMessageRepo(gdb),
		conf:     conf,
		gdb:      gdb,
		mailer:   mailer,
	}
	env.authService = NewAuthService(env.authRepo, mailer, conf)
	env.convService = NewConversationService(env.convRepo, env.authRepo, conf)
	env.msgService = NewMessageService(env.msgRepo, env.convRepo, conf)
	return env
}

func (e *testEnv) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := e.authService.SignupUser(&models.User{
		Name:     name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "password123",
	})
	require.NoError(t, err)
	return user
}
