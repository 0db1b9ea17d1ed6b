package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"github.com/techagentng/chatterbox/server/response"
)

// handleSendMessage stores a message and fans it out: websocket events to
// connected members, push notifications to the rest.
func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var req models.SendMessageRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		msg, conv, apiErr := s.MessageService.SendMessage(user, &req)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		delivered := s.Hub.BroadcastToConversation(conv, "message:new", msg, user.ID)

		exclude := map[uint]bool{user.ID: true}
		for _, id := range delivered {
			exclude[id] = true
		}
		go s.PushService.NotifyNewMessage(msg, conv, exclude)

		response.JSON(c, "message sent", http.StatusCreated, msg, nil)
	}
}

// handleUploadMessageImage uploads a chat image and returns its URL for use
// in a subsequent send.
func (s *Server) handleUploadMessageImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		file, fileHeader, err := c.Request.FormFile("image")
		if err != nil {
			response.JSON(c, "missing or invalid file", http.StatusBadRequest, nil, err)
			return
		}

		fileURL, err := s.MediaService.UploadMessageImage(user.ID, file, fileHeader)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"url": fileURL}, nil)
	}
}
