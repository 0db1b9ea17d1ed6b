package main

import (
	"log"

	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/mailingservices"
	"github.com/techagentng/chatterbox/server"
	"github.com/techagentng/chatterbox/services"
	"github.com/techagentng/chatterbox/views"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	conversationRepo := db.NewConversationRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	authService := services.NewAuthService(authRepo, mailgunClient, conf)
	conversationService := services.NewConversationService(conversationRepo, authRepo, conf)
	messageService := services.NewMessageService(messageRepo, conversationRepo, conf)
	mediaService := services.NewMediaService(authRepo, conf)
	pushService := services.NewPushService(conf.FirebaseCredentialsFile, authRepo)

	s := &server.Server{
		Mail:                   mailgunClient,
		Config:                 conf,
		AuthRepository:         authRepo,
		ConversationRepository: conversationRepo,
		MessageRepository:      messageRepo,
		AuthService:            authService,
		ConversationService:    conversationService,
		MessageService:         messageService,
		MediaService:           mediaService,
		PushService:            pushService,
		Hub:                    server.NewHub(authRepo),
		ViewCache:              views.NewEntryCache(),
	}

	s.Start()
}
