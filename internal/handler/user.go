package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"social_network/internal/service"
	"social_network/pkg/logger"
)

type UserHandler struct {
	userService service.UserService
	log         logger.Logger
}

func NewUserHandler(userService service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type SaveUserRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Image string `json:"image" form:"image"`
}

func (h *UserHandler) Save(c *gin.Context) {
	var req SaveUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Save(c.Request.Context(), c.Param("id"), req.Name, req.Image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
