package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/mailingservices"
	"github.com/techagentng/chatterbox/services"
	"github.com/techagentng/chatterbox/views"
)

type Server struct {
	Config                 *config.Config
	Mail                   mailingservices.Mailer
	AuthRepository         db.AuthRepository
	ConversationRepository db.ConversationRepository
	MessageRepository      db.MessageRepository
	AuthService            services.AuthService
	ConversationService    services.ConversationService
	MessageService         services.MessageService
	MediaService           services.MediaService
	PushService            services.PushService
	Hub                    *Hub
	ViewCache              *views.EntryCache
}

// decode binds a JSON request body
func decode(c *gin.Context, v interface{}) error {
	return c.ShouldBindJSON(v)
}

func (s *Server) Start() {
	if s.Hub == nil {
		s.Hub = NewHub(s.AuthRepository)
	}
	if s.ViewCache == nil {
		s.ViewCache = views.NewEntryCache()
	}

	r := s.setupRouter()
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server exited")
}
