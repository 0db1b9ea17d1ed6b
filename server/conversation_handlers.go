package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	errs "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"github.com/techagentng/chatterbox/server/response"
)

// handleCreateConversation starts a direct conversation (or returns the
// existing one for the pair) or creates a group when isGroup is set.
func (s *Server) handleCreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var req models.CreateConversationRequest
		if err := decode(c, &req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		if req.IsGroup {
			conv, apiErr := s.ConversationService.CreateGroup(user, req.Members, req.Name)
			if apiErr != nil {
				response.JSON(c, "", apiErr.Status, nil, apiErr)
				return
			}
			response.JSON(c, "group created", http.StatusCreated, conv, nil)
			return
		}

		conv, apiErr := s.ConversationService.CreateDirect(user, req.UserID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, conv, nil)
	}
}

// handleListConversations returns the viewer's conversations together with
// the derived list entries (title, preview, seen flag).
func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		convs, apiErr := s.ConversationService.ListConversations(user)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}

		response.JSON(c, "", http.StatusOK, gin.H{
			"conversations": convs,
			"entries":       s.ViewCache.Entries(convs, user.Email),
		}, nil)
	}
}

func (s *Server) handleDeleteConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		conversationID, err := uuid.Parse(c.Param("conversationId"))
		if err != nil {
			response.JSON(c, "invalid conversation id", http.StatusBadRequest, nil, err)
			return
		}

		count, apiErr := s.ConversationService.DeleteConversation(user, conversationID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, models.DeleteConversationResponse{Count: count}, nil)
	}
}

func (s *Server) handleGetMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		conversationID, err := uuid.Parse(c.Param("conversationId"))
		if err != nil {
			response.JSON(c, "invalid conversation id", http.StatusBadRequest, nil, err)
			return
		}

		messages, apiErr := s.MessageService.ListMessages(user, conversationID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		response.JSON(c, "", http.StatusOK, messages, nil)
	}
}

// handleMarkSeen marks the conversation's last message as seen by the viewer
// and tells the other members about it.
func (s *Server) handleMarkSeen() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		conversationID, err := uuid.Parse(c.Param("conversationId"))
		if err != nil {
			response.JSON(c, "invalid conversation id", http.StatusBadRequest, nil, err)
			return
		}

		msg, apiErr := s.MessageService.MarkLastMessageSeen(user, conversationID)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		if msg == nil {
			response.JSON(c, "nothing to mark", http.StatusOK, nil, nil)
			return
		}

		if conv, gerr := s.ConversationRepository.FindByID(conversationID); gerr == nil {
			s.Hub.BroadcastToConversation(conv, "message:seen", msg, 0)
		}

		response.JSON(c, "", http.StatusOK, msg, nil)
	}
}
