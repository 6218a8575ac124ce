// Package handler exposes the HTTP surface: the chat webhook that feeds the
// conversation engine, the updates drain, and plain CRUD endpoints over
// stored entries.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ksumarshmallow/calbot/internal/logger"
	"github.com/ksumarshmallow/calbot/internal/messenger"
	"github.com/ksumarshmallow/calbot/internal/types"
	"github.com/ksumarshmallow/calbot/internal/types/interfaces"
)

// Handler bundles the HTTP endpoints and their collaborators
type Handler struct {
	conversation interfaces.ConversationService
	repo         interfaces.EntryRepository
	mailbox      *messenger.Mailbox
}

// New creates the handler set
func New(conversation interfaces.ConversationService, repo interfaces.EntryRepository, mailbox *messenger.Mailbox) *Handler {
	return &Handler{
		conversation: conversation,
		repo:         repo,
		mailbox:      mailbox,
	}
}

// Register attaches all routes to the engine
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	api := r.Group("/api/v1")
	api.Use(RequestID(), AccessLog())

	api.POST("/chat", h.chat)
	api.GET("/updates", h.updates)

	api.POST("/events", h.createEntry(types.KindEvent))
	api.POST("/todos", h.createEntry(types.KindTodo))
	api.GET("/entries", h.listEntries)
	api.GET("/entries/by_date", h.listEntriesByDate)
	api.POST("/entries/delete", h.deleteEntry)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type chatRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

// chat feeds one inbound message to the conversation engine and returns the
// replies queued for the user, reminders included
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.conversation.HandleMessage(ctx, req.UserID, req.Text); err != nil {
		logger.Errorf(ctx, "failed to handle message: %v", err)
	}

	replies := h.mailbox.Drain(req.UserID)
	if replies == nil {
		replies = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"replies": replies})
}

// updates drains pending outbound messages for a user
func (h *Handler) updates(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing user_id!"})
		return
	}

	pending := h.mailbox.Drain(userID)
	if pending == nil {
		pending = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": pending})
}

type entryRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time"`
}

func (h *Handler) createEntry(kind types.EntryKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req entryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
			return
		}

		entry := &types.Entry{
			OwnerID: req.UserID,
			Kind:    kind,
			Name:    req.Name,
			Date:    req.Date,
			Time:    req.Time,
		}
		ctx := c.Request.Context()
		if err := h.repo.CreateEntry(ctx, entry); err != nil {
			logger.Errorf(ctx, "failed to create entry: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to create entry"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "entry": entry})
	}
}

func (h *Handler) listEntries(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing user_id!"})
		return
	}

	ctx := c.Request.Context()
	entries, err := h.repo.ListByOwner(ctx, userID)
	if err != nil {
		logger.Errorf(ctx, "failed to list entries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) listEntriesByDate(c *gin.Context) {
	userID := c.Query("user_id")
	date := c.Query("date")
	if userID == "" || date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Missing user_id or date!"})
		return
	}

	ctx := c.Request.Context()
	entries, err := h.repo.ListByOwnerAndDate(ctx, userID, date)
	if err != nil {
		logger.Errorf(ctx, "failed to list entries by date: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to list entries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type deleteRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Date   string `json:"date" binding:"required"`
}

func (h *Handler) deleteEntry(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	rows, err := h.repo.DeleteByValue(ctx, req.UserID, req.Name, req.Date)
	if err != nil {
		logger.Errorf(ctx, "failed to delete entry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to delete entry"})
		return
	}
	if rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Entry not found!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "deleted": rows})
}
