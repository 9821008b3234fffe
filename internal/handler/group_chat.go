package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"social_network/internal/domain"
	"social_network/internal/service"
	"social_network/pkg/logger"
)

// mediaFields are the multipart fields createmedia accepts, in lookup order.
var mediaFields = []string{domain.GroupMessageImage, domain.GroupMessageVideo, domain.GroupMessageAudio}

type GroupChatHandler struct {
	groupService service.GroupChatService
	mediaService service.MediaService
	log          logger.Logger
}

func NewGroupChatHandler(groupService service.GroupChatService, mediaService service.MediaService, log logger.Logger) *GroupChatHandler {
	return &GroupChatHandler{
		groupService: groupService,
		mediaService: mediaService,
		log:          log,
	}
}

// Register mounts the group chat routes. "detele" is the misspelled path
// older clients still call.
func (h *GroupChatHandler) Register(g *gin.RouterGroup) {
	g.POST("/createtext", h.CreateText)
	g.POST("/createmedia", h.CreateMedia)
	g.GET("/getchat/:id", h.GetChat)
	g.POST("/seenby", h.SeenBy)
	g.POST("/reply", h.Reply)
	g.POST("/delete/:id", h.Delete)
	g.POST("/detele/:id", h.Delete)
	g.POST("/deleteMessage", h.DeleteMessage)
}

type CreateGroupTextRequest struct {
	Group       string   `json:"group" form:"group"`
	MessageType string   `json:"messageType" form:"messageType"`
	Sender      string   `json:"sender" form:"sender"`
	Content     string   `json:"content" form:"content"`
	SeenBy      []string `json:"seenBy" form:"seenBy"`
	RealTime    string   `json:"realTime" form:"realTime"`
}

func (h *GroupChatHandler) CreateText(c *gin.Context) {
	var req CreateGroupTextRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.groupService.CreateText(c.Request.Context(), service.GroupTextInput{
		GroupID:     req.Group,
		SenderID:    req.Sender,
		MessageType: req.MessageType,
		Content:     req.Content,
		SeenBy:      req.SeenBy,
		CreatedAt:   req.RealTime,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "chat created", "response": message})
}

// CreateMedia takes the first of the image, video and audio form files.
// A message without any file is stored with empty content.
func (h *GroupChatHandler) CreateMedia(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	field, found := lo.Find(mediaFields, func(name string) bool {
		return len(form.File[name]) > 0
	})

	messageType := c.PostForm("messageType")
	var contentPath string
	if found {
		fh := form.File[field][0]
		f, err := fh.Open()
		if err != nil {
			h.log.Error("Failed to open uploaded file", "error", err, "field", field)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		contentPath, err = h.mediaService.Save(service.FolderGroup, field, fh.Filename, f)
		f.Close()
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		if messageType == "" {
			messageType = field
		}
	}

	message, err := h.groupService.CreateMedia(c.Request.Context(), service.GroupMediaInput{
		GroupID:     c.PostForm("group"),
		SenderID:    c.PostForm("sender"),
		MessageType: messageType,
		ContentPath: contentPath,
		SeenBy:      c.PostFormArray("seenBy"),
		CreatedAt:   c.PostForm("realTime"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "chat created", "response": message})
}

func (h *GroupChatHandler) GetChat(c *gin.Context) {
	messages, err := h.groupService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if messages == nil {
		messages = []*domain.GroupMessage{}
	}

	c.JSON(http.StatusOK, gin.H{"message": "here is your chats", "chats": messages})
}

type SeenByRequest struct {
	MessageID string `json:"messageId" form:"messageId"`
	UserID    string `json:"userId" form:"userId"`
}

func (h *GroupChatHandler) SeenBy(c *gin.Context) {
	var req SeenByRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	messageID, err := uuid.Parse(req.MessageID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
		return
	}

	message, err := h.groupService.MarkSeen(c.Request.Context(), messageID, req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message seen", "response": message})
}

type GroupReplyRequest struct {
	Group       string `json:"group" form:"group"`
	Sender      string `json:"sender" form:"sender"`
	MessageType string `json:"messageType" form:"messageType"`
	RText       string `json:"rtext" form:"rtext"`
	Image       string `json:"image" form:"image"`
	MText       string `json:"mtext" form:"mtext"`
	RealTime    string `json:"realTime" form:"realTime"`
}

func (h *GroupChatHandler) Reply(c *gin.Context) {
	var req GroupReplyRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.groupService.Reply(c.Request.Context(), service.GroupReplyInput{
		GroupID:     req.Group,
		SenderID:    req.Sender,
		MessageType: req.MessageType,
		Text:        req.RText,
		SenderImg:   req.Image,
		MText:       req.MText,
		CreatedAt:   req.RealTime,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "reply created", "response": message})
}

func (h *GroupChatHandler) Delete(c *gin.Context) {
	h.delete(c, c.Param("id"))
}

type DeleteGroupMessageRequest struct {
	Group   string `json:"group" form:"group"`
	Message string `json:"message" form:"message"`
}

func (h *GroupChatHandler) DeleteMessage(c *gin.Context) {
	var req DeleteGroupMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.delete(c, req.Message)
}

func (h *GroupChatHandler) delete(c *gin.Context, rawID string) {
	messageID, err := uuid.Parse(rawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), messageID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted success"})
}
