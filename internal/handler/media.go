package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"social_network/internal/service"
	"social_network/pkg/logger"
)

type MediaHandler struct {
	mediaService service.MediaService
	log          logger.Logger
}

func NewMediaHandler(mediaService service.MediaService, log logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		log:          log,
	}
}

// UploadChatMedia stores the "media" form file and returns the URL clients
// put into send_message.mediaUrl.
func (h *MediaHandler) UploadChatMedia(c *gin.Context) {
	fh, err := c.FormFile("media")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	defer f.Close()

	mediaURL, err := h.mediaService.Save(service.FolderChat, "media", fh.Filename, f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "file uploaded", "mediaUrl": mediaURL})
}
